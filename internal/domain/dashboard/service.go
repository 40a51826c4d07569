package dashboard

import "context"

type DashboardService interface {
	Get(ctx context.Context) (DashboardResponse, error)
}
