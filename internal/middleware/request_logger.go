package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const ctxErrorCauseKey = "error_cause"

// handlerが500を返すときに原因を残す（レスポンスには出さない）
func SetErrorCause(c echo.Context, err error) {
	c.Set(ctxErrorCauseKey, err)
}

// RequestLogger は1リクエスト1行でzapに出す。
// request idはechoのRequestIDミドルウェアが付けたものを使う。
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// echoのHTTPErrorなどはここでレスポンスにしてからstatusを読む
				c.Error(err)
			}

			res := c.Response()
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			if cause, ok := c.Get(ctxErrorCauseKey).(error); ok {
				fields = append(fields, zap.NamedError("cause", cause))
			}

			switch {
			case res.Status >= 500:
				log.Error("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}
