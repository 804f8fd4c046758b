package utils

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 200 * time.Millisecond
)

// RetryOption 网络调用的重试参数（指数退避）
type RetryOption struct {
	Attempts uint          // 总尝试次数（含首次），0 使用默认值
	Delay    time.Duration // 首次退避间隔，0 使用默认值
}

func (o RetryOption) attempts() uint {
	if o.Attempts == 0 {
		return defaultRetryAttempts
	}
	return o.Attempts
}

func (o RetryOption) delay() time.Duration {
	if o.Delay <= 0 {
		return defaultRetryDelay
	}
	return o.Delay
}

// CallWithRetry 带指数退避重试地执行 call，context 取消/超时不重试
func CallWithRetry[T any](ctx context.Context, opt RetryOption, log *zap.Logger, name string, call retry.RetryableFuncWithData[T]) (T, error) {
	if log == nil {
		log = zap.NewNop()
	}
	attempts := opt.attempts()
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(opt.delay()),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) && !IsPermanent(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("call failed, retrying",
				zap.String("call", name),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", attempts),
				zap.Error(err),
			)
		}),
	)
}

// permanentError 标记不应重试的错误（例如 HTTP 4xx）
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 包装一个不可重试的错误
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
