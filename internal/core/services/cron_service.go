package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled housekeeping jobs: the nightly revenue
// sweep and expired refresh token cleanup.
type CronService struct {
	cron       *cron.Cron
	revenueSvc *RevenueService
	authSvc    *AuthService
}

// NewCronService creates a new cron service
func NewCronService(revenueSvc *RevenueService, authSvc *AuthService) *CronService {
	return &CronService{
		cron:       cron.New(),
		revenueSvc: revenueSvc,
		authSvc:    authSvc,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Nightly revenue sweep at 02:00
	if _, err := s.cron.AddFunc("0 2 * * *", s.runRevenueSweep); err != nil {
		return err
	}

	// Hourly expired token cleanup
	if _, err := s.cron.AddFunc("@hourly", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Cron jobs scheduled")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("🛑 Cron jobs stopped")
}

func (s *CronService) runRevenueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Printf("🔄 Nightly revenue sweep starting")
	if err := s.revenueSvc.SweepAll(ctx); err != nil {
		log.Printf("❌ Revenue sweep failed: %v", err)
	}
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.authSvc.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("✅ Deleted %d expired refresh tokens", deleted)
	}
}
