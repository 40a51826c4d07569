package worker

import "context"

type WorkerService interface {
	List(ctx context.Context, filter WorkerFilter) ([]WorkerResponse, error)
	Get(ctx context.Context, id string) (WorkerResponse, error)
	Create(ctx context.Context, req CreateWorkerRequest) (WorkerResponse, error)
	Update(ctx context.Context, req UpdateWorkerRequest) (WorkerResponse, error)
	Delete(ctx context.Context, id string) error
}
