package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/interfaces/http/response"
	"myduka.backend/pkg/logger"
	"myduka.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key from the same account. Without Redis it passes through.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || !redis.Enabled() {
			c.Next()
			return
		}

		accountID := "anonymous"
		if account, ok := GetAccount(c); ok {
			accountID = account.ID.String()
		}
		storageKey := fmt.Sprintf("idempotency:%s:%s:%s", accountID, c.FullPath(), key)
		ctx := c.Request.Context()

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil {
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !acquired {
			val, err := redisGet(ctx, storageKey)
			if err != nil && !redis.IsNil(err) {
				logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
				c.Next()
				return
			}
			if err != nil || val == processingMarker {
				response.Error(c, domainerrors.Conflict("Request with this Idempotency-Key is already in progress"))
				c.Abort()
				return
			}

			var stored storedResponse
			if err := json.Unmarshal([]byte(val), &stored); err != nil {
				response.Error(c, domainerrors.InternalError(err))
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
			c.Abort()
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			raw, _ := json.Marshal(storedResponse{Status: status, Body: w.body.String()})
			if err := redisSet(ctx, storageKey, string(raw), RetentionDuration); err != nil {
				logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
			}
			return
		}
		// failures release the key so the client can retry
		_ = redisDel(ctx, storageKey)
	}
}
