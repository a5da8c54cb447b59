package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/dvdrental/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/metrics"
	"github.com/xiebiao/dvdrental/pkg/response"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"

	maxIdempotencyKeyLen = 128
)

// IdempotencyStore is implemented by redis.IdempotencyStore.
type IdempotencyStore interface {
	Reserve(ctx context.Context, scope, key string) (*redis.Record, error)
	Complete(ctx context.Context, scope, key string, rec redis.Record) error
	Release(ctx context.Context, scope, key string) error
}

// IdempotencyMiddleware replays the stored response of a mutating request
// that is retried with the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store IdempotencyStore
}

// NewIdempotencyMiddleware takes a nil store when Redis is disabled; the
// middleware then lets every request through.
func NewIdempotencyMiddleware(store IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

// Guard is mounted on the rental lifecycle routes.
//
//	rentals.POST("", idem.Guard(), h.Create)
func (m *IdempotencyMiddleware) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if m == nil || m.store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.Error(c, apperrors.Validation("%s must be at most %d characters", HeaderIdempotencyKey, maxIdempotencyKeyLen))
			return
		}

		ctx := c.Request.Context()
		log := logging.Ctx(ctx)
		scope := c.Request.Method + " " + c.Request.URL.Path

		rec, err := m.store.Reserve(ctx, scope, key)
		switch {
		case errors.Is(err, apperrors.ErrInFlight):
			response.Error(c, err)
			return
		case err != nil:
			// Redis trouble must not block rentals; the row locks still hold.
			log.Warn().Err(err).Str("scope", scope).Msg("idempotency store unavailable, serving without replay protection")
			c.Next()
			return
		case rec != nil:
			metrics.IncIdempotentReplay()
			log.Info().Str("scope", scope).Int("status", rec.Status).Msg("idempotent replay")
			c.Header(HeaderIdempotentReplayed, "true")
			c.Data(rec.Status, rec.ContentType, rec.Body)
			c.Abort()
			return
		}

		// The outcome is kept even when the client has gone away.
		ctx = context.WithoutCancel(ctx)

		// A panicking handler skips the bookkeeping below; free the key while
		// the panic unwinds to Recovery so a retry can run.
		settled := false
		defer func() {
			if settled {
				return
			}
			if err := m.store.Release(ctx, scope, key); err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("release idempotency key after panic")
			}
		}()

		w := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()
		settled = true

		status := w.Status()
		if status >= http.StatusInternalServerError {
			if err := m.store.Release(ctx, scope, key); err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("release idempotency key")
			}
			return
		}
		err = m.store.Complete(ctx, scope, key, redis.Record{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		})
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("store idempotent response")
		}
	}
}

// recordingWriter tees the response body so it can be stored.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
