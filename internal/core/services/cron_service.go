package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the background maintenance jobs. Currently one job:
// a daily sweep that expires subscriptions past their end date.
type CronService struct {
	cron *cron.Cron
	subs *SubscriptionService
}

// NewCronService creates a new cron service
func NewCronService(subs *SubscriptionService) *CronService {
	c := cron.New(cron.WithLocation(time.UTC))
	return &CronService{
		cron: c,
		subs: subs,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() {
	if _, err := s.cron.AddFunc("@midnight", s.expireSubscriptions); err != nil {
		log.Printf("❌ Failed to schedule subscription expiry job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Cron scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Cron scheduler stopped")
}

func (s *CronService) expireSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.subs.ExpireOverdue(ctx)
	if err != nil {
		log.Printf("❌ Subscription expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Expired %d overdue subscriptions", n)
	}
}
