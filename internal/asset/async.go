package asset

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of an asynchronous load. Exactly one of Model and
// Err is set.
type Result struct {
	Model *Model
	Err   error
}

// LoadAsync loads path on a background goroutine. The returned channel
// delivers exactly one Result and is then closed. There are no retries.
func LoadAsync(ctx context.Context, path string, log *zap.Logger) <-chan Result {
	if log == nil {
		log = zap.NewNop()
	}
	out := make(chan Result, 1)

	go func() {
		defer close(out)
		start := time.Now()

		done := make(chan Result, 1)
		go func() {
			m, err := Load(path)
			done <- Result{Model: m, Err: err}
		}()

		select {
		case <-ctx.Done():
			out <- Result{Err: ctx.Err()}
		case res := <-done:
			if res.Err != nil {
				log.Error("asset load failed", zap.String("path", path), zap.Error(res.Err))
			} else {
				log.Info("asset loaded",
					zap.String("path", path),
					zap.Int("clips", len(res.Model.Clips)),
					zap.Duration("elapsed", time.Since(start)),
				)
			}
			out <- res
		}
	}()

	return out
}
