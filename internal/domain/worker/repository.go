package worker

import "context"

type WorkerRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Worker, error)
	List(ctx context.Context, companyID string, filter WorkerFilter) ([]Worker, error)
	Create(ctx context.Context, newWorker Worker) (Worker, error)
	Update(ctx context.Context, companyID, id string, req UpdateWorkerRequest) (Worker, error)
	Delete(ctx context.Context, companyID, id string) error
	CountActive(ctx context.Context, companyID string) (int, error)
}
