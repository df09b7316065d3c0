package create_allocation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/O2Spa-SchedulingService/internal/api/middleware"
	availModels "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
	uc "github.com/m04kA/O2Spa-SchedulingService/internal/usecase/create_allocation"
)

// mockUseCase мок use case создания брони
type mockUseCase struct {
	resp *uc.Response
	err  error
}

func (m *mockUseCase) Execute(_ context.Context, _ *uc.Request) (*uc.Response, error) {
	return m.resp, m.err
}

// nopLogger логгер-заглушка для тестов
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, usecase UseCase, body interface{}, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", &buf)
	if authenticated {
		req.Header.Set("X-User-ID", "1")
	}

	rec := httptest.NewRecorder()
	h := NewHandler(usecase, nopLogger{})
	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)

	return rec
}

func validBody() Request {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return Request{
		BedID:        1,
		CustomerID:   10,
		CustomerName: "Иванов Иван",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
	}
}

func TestHandler_Handle_Created(t *testing.T) {
	usecase := &mockUseCase{
		resp: &uc.Response{
			ID:            42,
			BedID:         1,
			BookingNumber: "BK-20250601-0042",
			Status:        "confirmed",
			PaymentStatus: "unpaid",
		},
	}

	rec := doRequest(t, usecase, validBody(), true)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp uc.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestHandler_Handle_Conflict(t *testing.T) {
	usecase := &mockUseCase{
		err: &uc.ConflictError{
			Conflicts: []availModels.Conflict{
				{AllocationID: 7, BookingNumber: "BK-20250601-0007", CustomerName: "Петров Пётр"},
			},
		},
	}

	rec := doRequest(t, usecase, validBody(), true)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(7), resp.Conflicts[0].AllocationID)
	assert.Equal(t, "Петров Пётр", resp.Conflicts[0].CustomerName)
}

func TestHandler_Handle_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid window", uc.ErrInvalidWindow, http.StatusBadRequest},
		{"invalid input", uc.ErrInvalidInput, http.StatusBadRequest},
		{"bed not found", uc.ErrBedNotFound, http.StatusNotFound},
		{"internal error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, &mockUseCase{err: tc.err}, validBody(), true)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestHandler_Handle_Unauthenticated(t *testing.T) {
	rec := doRequest(t, &mockUseCase{}, validBody(), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Handle_MalformedBody(t *testing.T) {
	rec := doRequest(t, &mockUseCase{}, "{not json", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
