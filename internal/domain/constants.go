package domain

// Scheduling constants
const (
	// BookedSoonWindowMinutes горизонт, в пределах которого оплаченная бронь
	// переводит кровать в статус booked_soon
	BookedSoonWindowMinutes = 30

	// AutoCancelGraceMinutes сколько минут после начала сеанса ждём оплату,
	// прежде чем автоматически отменить неоплаченную бронь
	AutoCancelGraceMinutes = 15

	// ScheduleSlotMinutes фиксированный шаг слотов дневного расписания
	ScheduleSlotMinutes = 30

	// Рабочее окно зала (локальное время заведения)
	BusinessOpenHour  = 8
	BusinessCloseHour = 22
)

// AutoCancelNote заметка, добавляемая к брони при автоотмене.
// Добавляется после существующих заметок через NoteSeparator,
// никогда не затирает их.
const (
	AutoCancelNote = "Auto-cancelled: No payment received within 15 minutes."
	NoteSeparator  = "\n"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CurrentStatuses список статусов, при которых бронь считается "текущей"
// Используется в выборках занятости (occupied / booked_soon)
var CurrentStatuses = []AllocationStatus{
	StatusConfirmed,
	StatusInProgress,
}
