package worker

import (
	"context"
	"fmt"
	"suru/internal/logger"
	"suru/internal/service"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultSweepInterval = 5 * time.Minute
	DefaultSweepBatch    = 100
	// maxBatchesPerRun не даёт одному проходу занять хранилище надолго
	maxBatchesPerRun = 50
)

// SessionSweeper периодически удаляет истёкшие сессии
type SessionSweeper struct {
	sessions  service.SessionRepository
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewSessionSweeper(sessions service.SessionRepository, interval time.Duration, batchSize int) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultSweepBatch
	}
	return &SessionSweeper{
		sessions:  sessions,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Start блокируется до отмены ctx
func (w *SessionSweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Очистка сессий запущена", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: Ошибка очистки сессий", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Очистка сессий останавливается")
			return nil
		}
	}
}

// Check удаляет истёкшие сессии пачками, пока пачки приходят полными
func (w *SessionSweeper) Check(ctx context.Context) (int, error) {
	start := time.Now()
	now := w.now()

	total := 0
	for i := 0; i < maxBatchesPerRun; i++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		removed, err := w.sessions.DeleteExpired(ctx, now, w.batchSize)
		if err != nil {
			return total, fmt.Errorf("удаление истёкших сессий: %w", err)
		}
		total += removed
		if removed < w.batchSize {
			break
		}
	}

	logger.Info("Worker: Завершение очистки сессий",
		zap.Duration("ms", time.Since(start)),
		zap.Int("removed", total),
	)
	return total, nil
}
