// Package cron runs the portal's background jobs.
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"studentportal/internal/payment"
	"studentportal/internal/repository"
)

type Scheduler struct {
	cron     *cron.Cron
	attempts *repository.PaymentAttemptRepository
	client   *payment.Client
	logger   *zap.Logger
}

func NewScheduler(attempts *repository.PaymentAttemptRepository, client *payment.Client, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		attempts: attempts,
		client:   client,
		logger:   logger,
	}
}

// Start registers and launches the jobs. Every five minutes lapsed pending
// attempts are reconciled against the merchant API and then swept.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.sweepAttempts); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("cron scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("cron scheduler stopped")
}

// sweepAttempts asks the gateway about every lapsed pending attempt before
// expiring it, so payments whose notification was lost still settle.
func (s *Scheduler) sweepAttempts() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	lapsed, err := s.attempts.ListPendingExpired(now)
	if err != nil {
		s.logger.Error("list lapsed payment attempts", zap.Error(err))
		return
	}

	for i := range lapsed {
		result, err := s.client.Reconcile(ctx, &lapsed[i])
		if err != nil {
			s.logger.Warn("reconcile payment attempt failed",
				zap.String("txn_ref", lapsed[i].TxnRef), zap.Error(err))
			continue
		}
		if result == payment.ResultApplied {
			s.logger.Info("settled payment recovered by reconciliation",
				zap.String("txn_ref", lapsed[i].TxnRef))
		}
	}

	n, err := s.attempts.ExpirePending(now)
	if err != nil {
		s.logger.Error("expire payment attempts", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired stale payment attempts", zap.Int64("count", n))
	}
}
