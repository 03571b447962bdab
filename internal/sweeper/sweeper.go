// Package sweeper фоновый обработчик просроченных эскроу-холдов.
package sweeper

import (
	"context"
	"time"
)

// BookingExpirer переводит просроченные холды в терминальный статус
type BookingExpirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// Metrics счетчики работы sweeper-а
type Metrics interface {
	SweepInc()
	BookingsExpiredAdd(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper периодически закрывает холды с истекшим дедлайном.
// Единственный владелец дедлайнов: клиенты окно только отображают.
// Несколько инстансов безопасны, переход в БД условный.
type Sweeper struct {
	expirer  BookingExpirer
	interval time.Duration
	metrics  Metrics
	log      Logger
}

// New создает новый экземпляр sweeper-а
func New(expirer BookingExpirer, interval time.Duration, metrics Metrics, log Logger) *Sweeper {
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		metrics:  metrics,
		log:      log,
	}
}

// Start запускает цикл обработки. Блокируется до отмены контекста,
// запускать в отдельной горутине. Первый проход выполняется сразу,
// чтобы подобрать холды, просроченные за время простоя сервиса.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("Escrow sweeper started: interval=%s", s.interval)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Escrow sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	s.metrics.SweepInc()

	expired, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		// Следующий тик повторит попытку, недообработанные холды никуда не денутся
		s.log.Error("Sweep failed: error=%v", err)
		return
	}

	if expired > 0 {
		s.metrics.BookingsExpiredAdd(expired)
		s.log.Info("Sweep completed: expired=%d", expired)
	}
}
