package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/validator"
)

type WorkerServiceImpl struct {
	worker.WorkerRepository
	site.SiteRepository
	user.UserRepository
}

func NewWorkerService(workerRepo worker.WorkerRepository, siteRepo site.SiteRepository, userRepo user.UserRepository) worker.WorkerService {
	return &WorkerServiceImpl{
		WorkerRepository: workerRepo,
		SiteRepository:   siteRepo,
		UserRepository:   userRepo,
	}
}

// List implements worker.WorkerService. A Foreman only ever sees own crew.
func (s *WorkerServiceImpl) List(ctx context.Context, filter worker.WorkerFilter) ([]worker.WorkerResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Role == user.RoleForeman {
		filter.ForemanID = &caller.UserID
	}

	workers, err := s.WorkerRepository.List(ctx, caller.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	responses := make([]worker.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		responses = append(responses, worker.NewWorkerResponse(w))
	}
	return responses, nil
}

// Get implements worker.WorkerService.
func (s *WorkerServiceImpl) Get(ctx context.Context, id string) (worker.WorkerResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	w, err := s.WorkerRepository.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	if caller.Role == user.RoleForeman && !w.IsCrewOf(caller.UserID) {
		return worker.WorkerResponse{}, worker.ErrNotAssignedToYou
	}
	return worker.NewWorkerResponse(w), nil
}

// Create implements worker.WorkerService.
func (s *WorkerServiceImpl) Create(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	if err := s.checkAssignments(ctx, caller.CompanyID, req.SiteID, req.ForemanID); err != nil {
		return worker.WorkerResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	created, err := s.WorkerRepository.Create(ctx, worker.Worker{
		CompanyID:  caller.CompanyID,
		FullName:   req.FullName,
		WorkerCode: req.WorkerCode,
		StartDate:  startDate,
		Status:     worker.Status(req.Status),
		SiteID:     req.SiteID,
		ForemanID:  req.ForemanID,
	})
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return worker.NewWorkerResponse(created), nil
}

// Update implements worker.WorkerService.
func (s *WorkerServiceImpl) Update(ctx context.Context, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	if err := s.checkAssignments(ctx, caller.CompanyID, req.SiteID, req.ForemanID); err != nil {
		return worker.WorkerResponse{}, err
	}

	updated, err := s.WorkerRepository.Update(ctx, caller.CompanyID, req.ID, req)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return worker.NewWorkerResponse(updated), nil
}

// Delete implements worker.WorkerService. Attendance history of the worker is kept.
func (s *WorkerServiceImpl) Delete(ctx context.Context, id string) error {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return err
	}
	if caller.Role != user.RoleHR {
		return worker.ErrOnlyHRCanDelete
	}
	return s.WorkerRepository.Delete(ctx, caller.CompanyID, id)
}

// checkAssignments verifies that a non-empty site or foreman belongs to the
// company. An empty value unassigns and needs no check.
func (s *WorkerServiceImpl) checkAssignments(ctx context.Context, companyID string, siteID, foremanID *string) error {
	if siteID != nil && *siteID != "" {
		if _, err := s.SiteRepository.GetByID(ctx, companyID, *siteID); err != nil {
			if errors.Is(err, site.ErrSiteNotFound) {
				return worker.ErrSiteNotFound
			}
			return fmt.Errorf("failed to get site: %w", err)
		}
	}

	if foremanID != nil && *foremanID != "" {
		foreman, err := s.UserRepository.GetByID(ctx, *foremanID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return worker.ErrForemanNotFound
			}
			return fmt.Errorf("failed to get foreman: %w", err)
		}
		if foreman.CompanyID != companyID || !foreman.IsForeman() {
			return worker.ErrForemanNotFound
		}
	}

	return nil
}
