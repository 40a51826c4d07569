package review

import "context"

type ReviewRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Review, error)

	// GetOrCreate returns the engineer's review for the cycle, inserting a pending one if missing
	GetOrCreate(ctx context.Context, companyID, cycleID, engineerID string) (Review, error)

	List(ctx context.Context, companyID string, filter ReviewFilter) ([]Review, error)
	Update(ctx context.Context, r Review) (Review, error)

	// EnsureForCycle creates pending reviews for every engineer of every company
	EnsureForCycle(ctx context.Context, cycleID string) (int64, error)
}
