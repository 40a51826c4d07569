package review

import "context"

type ReviewService interface {
	GetCurrent(ctx context.Context) (ReviewResponse, error)
	SubmitCurrent(ctx context.Context, req SubmitReviewRequest) (ReviewResponse, error)
	List(ctx context.Context, filter ReviewFilter) ([]ReviewResponse, error)
	Approve(ctx context.Context, id string) (ReviewResponse, error)
	Return(ctx context.Context, req ReturnReviewRequest) (ReviewResponse, error)

	// EnsureCurrentCycle is run by the scheduler
	EnsureCurrentCycle(ctx context.Context) (int64, error)
}
