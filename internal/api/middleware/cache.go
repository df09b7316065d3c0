package middleware

import (
	"bytes"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cachedResponse сохранённый ответ
type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// bodyCacheWriter дублирует тело ответа в буфер
type bodyCacheWriter struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (w *bodyCacheWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Cache кэширует успешные GET-ответы на короткий TTL.
// Статусные списки пересчитываются reconciler-ом раз в минуту,
// поэтому суб-минутная несвежесть ответа допустима.
func Cache(store *gocache.Cache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if entry, found := store.Get(key); found {
				cached := entry.(cachedResponse)
				for k, v := range cached.headers {
					w.Header()[k] = v
				}
				w.WriteHeader(cached.status)
				_, _ = w.Write(cached.body)
				return
			}

			writer := &bodyCacheWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
				body:           bytes.NewBuffer(nil),
			}

			next.ServeHTTP(writer, r)

			// Кэшируем только успешные ответы
			if writer.status >= 200 && writer.status < 300 {
				store.Set(key, cachedResponse{
					status:  writer.status,
					headers: writer.Header().Clone(),
					body:    writer.body.Bytes(),
				}, ttl)
			}
		})
	}
}
