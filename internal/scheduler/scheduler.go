// Package scheduler drives the periodic payment jobs. It is an explicit
// component owned and started by the host process, with an injected Clock;
// nothing registers itself at import time.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/payment"
)

// MonthlyCreationDay is the day of month on which next month's rent
// obligations are created. The creation call is idempotent, so firing more
// than once on that day is harmless.
const MonthlyCreationDay = 25

type Scheduler struct {
	payments *payment.Service
	clk      clock.Clock
	interval time.Duration

	mu               sync.Mutex
	lastOverdueDay   time.Time
	lastReminderDay  time.Time
	lastMonthlyMonth time.Time

	stop chan struct{}
	done chan struct{}
}

func New(payments *payment.Service, clk clock.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		payments: payments,
		clk:      clk,
		interval: interval,
	}
}

// Start launches the ticking loop. Call Stop to end it; Start again after
// Stop is not supported.
func (s *Scheduler) Start(ctx context.Context) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(ctx)
}

func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First pass runs immediately so a restart doesn't wait an interval to
	// catch up on sweeps.
	s.RunPending(ctx, s.clk.Now())
	for {
		select {
		case <-ticker.C:
			s.RunPending(ctx, s.clk.Now())
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunPending fires every job whose schedule has come due at the given
// instant: the overdue and reminder sweeps once per calendar day, and the
// monthly creation once per month on MonthlyCreationDay. Each job tolerates
// retries, so crashing between jobs and re-running is safe.
func (s *Scheduler) RunPending(ctx context.Context, now time.Time) {
	day := payment.DayStart(now)
	month := payment.MonthStart(now)

	s.mu.Lock()
	runOverdue := day.After(s.lastOverdueDay)
	runReminder := day.After(s.lastReminderDay)
	runMonthly := now.Day() == MonthlyCreationDay && month.After(s.lastMonthlyMonth)
	s.mu.Unlock()

	if runOverdue {
		transitioned, err := s.payments.SweepOverdue(ctx, now)
		if err != nil {
			slog.Error("overdue sweep failed", "error", err)
		} else {
			s.markOverdueRun(day)
			if len(transitioned) > 0 {
				slog.Info("overdue sweep complete", "transitioned", len(transitioned))
			}
		}
	}

	if runReminder {
		sent, err := s.payments.SendReminders(ctx, now)
		if err != nil {
			slog.Error("reminder sweep failed", "error", err)
		} else {
			s.markReminderRun(day)
			if sent > 0 {
				slog.Info("payment reminders sent", "count", sent)
			}
		}
	}

	if runMonthly {
		created, err := s.payments.CreateNextMonthPayments(ctx, now)
		if err != nil {
			slog.Error("monthly payment creation failed", "error", err)
		} else {
			s.markMonthlyRun(month)
			slog.Info("monthly payment creation complete", "created", created)
		}
	}
}

func (s *Scheduler) markOverdueRun(day time.Time) {
	s.mu.Lock()
	s.lastOverdueDay = day
	s.mu.Unlock()
}

func (s *Scheduler) markReminderRun(day time.Time) {
	s.mu.Lock()
	s.lastReminderDay = day
	s.mu.Unlock()
}

func (s *Scheduler) markMonthlyRun(month time.Time) {
	s.mu.Lock()
	s.lastMonthlyMonth = month
	s.mu.Unlock()
}
