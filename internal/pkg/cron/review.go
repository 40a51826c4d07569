package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
)

// ReviewJobs keeps engineer reviews in step with the attendance cycle.
type ReviewJobs struct {
	reviewService review.ReviewService
}

func NewReviewJobs(reviewService review.ReviewService) *ReviewJobs {
	return &ReviewJobs{
		reviewService: reviewService,
	}
}

func (j *ReviewJobs) RegisterJobs(scheduler *Scheduler) {
	// A new cycle starts on the 26th; checking hourly opens its reviews soon after midnight.
	scheduler.AddJobWithTimeout("ensure_cycle_reviews", 1*time.Hour, 5*time.Minute, j.EnsureCycleReviews)
}

// EnsureCycleReviews creates the pending review of every engineer for the current cycle.
func (j *ReviewJobs) EnsureCycleReviews(ctx context.Context) error {
	created, err := j.reviewService.EnsureCurrentCycle(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure cycle reviews: %w", err)
	}
	if created > 0 {
		slog.Info("Cron: Opened engineer reviews", "count", created)
	}
	return nil
}
