package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/notify"
	"github.com/cmlabs-hris/workforce-attendance/internal/service/file"
)

type ReviewServiceImpl struct {
	review.ReviewRepository
	userRepo    user.UserRepository
	fileService file.FileService
	mailer      email.EmailService
	notifier    notify.Notifier
	reviewURL   string
	clock       cycle.Clock
}

// NewReviewService wires the review workflow. reviewURL is linked from
// the mail an engineer gets when HR returns a review.
func NewReviewService(
	reviewRepo review.ReviewRepository,
	userRepo user.UserRepository,
	fileService file.FileService,
	mailer email.EmailService,
	notifier notify.Notifier,
	reviewURL string,
	clock cycle.Clock,
) review.ReviewService {
	return &ReviewServiceImpl{
		ReviewRepository: reviewRepo,
		userRepo:         userRepo,
		fileService:      fileService,
		mailer:           mailer,
		notifier:         notifier,
		reviewURL:        reviewURL,
		clock:            clock,
	}
}

func (s *ReviewServiceImpl) engineerCaller(ctx context.Context) (jwt.Caller, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return jwt.Caller{}, err
	}
	if caller.Role != user.RoleEngineer {
		return jwt.Caller{}, user.ErrInsufficientPermissions
	}
	return caller, nil
}

func (s *ReviewServiceImpl) current(ctx context.Context, caller jwt.Caller) (review.Review, error) {
	c := cycle.ForCompany(caller.CompanyID, s.clock.Today())
	return s.ReviewRepository.GetOrCreate(ctx, caller.CompanyID, c.ID, caller.UserID)
}

// GetCurrent implements review.ReviewService.
func (s *ReviewServiceImpl) GetCurrent(ctx context.Context) (review.ReviewResponse, error) {
	caller, err := s.engineerCaller(ctx)
	if err != nil {
		return review.ReviewResponse{}, err
	}

	rev, err := s.current(ctx, caller)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	return review.NewReviewResponse(rev), nil
}

// SubmitCurrent implements review.ReviewService.
func (s *ReviewServiceImpl) SubmitCurrent(ctx context.Context, req review.SubmitReviewRequest) (review.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return review.ReviewResponse{}, err
	}

	caller, err := s.engineerCaller(ctx)
	if err != nil {
		return review.ReviewResponse{}, err
	}

	rev, err := s.current(ctx, caller)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	if !rev.CanSubmit() {
		return review.ReviewResponse{}, review.ErrReviewNotSubmittable
	}

	png, err := req.DecodeSignature()
	if err != nil {
		return review.ReviewResponse{}, err
	}
	key, err := s.fileService.UploadSignature(ctx, caller.CompanyID, png)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	signatureURL, err := s.fileService.GetFileURL(ctx, key)
	if err != nil {
		return review.ReviewResponse{}, fmt.Errorf("failed to get signature URL: %w", err)
	}

	if err := rev.Submit(signatureURL, s.clock().UTC()); err != nil {
		return review.ReviewResponse{}, err
	}

	updated, err := s.ReviewRepository.Update(ctx, rev)
	if err != nil {
		return review.ReviewResponse{}, err
	}

	go s.announceSubmission(context.WithoutCancel(ctx), caller, updated)

	return review.NewReviewResponse(updated), nil
}

// announceSubmission tells HR a review is waiting for approval. Failures are only logged.
func (s *ReviewServiceImpl) announceSubmission(ctx context.Context, caller jwt.Caller, rev review.Review) {
	label := cycleLabel(rev.CycleID)

	msg := fmt.Sprintf("%s signed the %s attendance review and it is waiting for HR approval.", caller.Email, label)
	if err := s.notifier.Info(ctx, msg); err != nil {
		slog.Error("Review notification: chat post failed", "review_id", rev.ID, "error", err)
	}
}

// List implements review.ReviewService.
func (s *ReviewServiceImpl) List(ctx context.Context, filter review.ReviewFilter) ([]review.ReviewResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.ReviewRepository.List(ctx, caller.CompanyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]review.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, review.NewReviewResponse(r))
	}
	return responses, nil
}

// Approve implements review.ReviewService.
func (s *ReviewServiceImpl) Approve(ctx context.Context, id string) (review.ReviewResponse, error) {
	return s.transition(ctx, id, func(r *review.Review) error { return r.Approve() })
}

// Return implements review.ReviewService.
func (s *ReviewServiceImpl) Return(ctx context.Context, req review.ReturnReviewRequest) (review.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return review.ReviewResponse{}, err
	}
	return s.transition(ctx, req.ID, func(r *review.Review) error { return r.Return(req.HRNotes) })
}

// transition loads a review of the caller's company, applies apply and saves it.
func (s *ReviewServiceImpl) transition(ctx context.Context, id string, apply func(r *review.Review) error) (review.ReviewResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	if caller.Role != user.RoleHR {
		return review.ReviewResponse{}, user.ErrHRAccessRequired
	}

	rev, err := s.ReviewRepository.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	if err := apply(&rev); err != nil {
		return review.ReviewResponse{}, err
	}

	updated, err := s.ReviewRepository.Update(ctx, rev)
	if err != nil {
		return review.ReviewResponse{}, err
	}

	go s.notifyEngineer(context.WithoutCancel(ctx), updated)

	return review.NewReviewResponse(updated), nil
}

// notifyEngineer mails the engineer about an HR decision. Failures are only logged.
func (s *ReviewServiceImpl) notifyEngineer(ctx context.Context, rev review.Review) {
	engineer, err := s.userRepo.GetByID(ctx, rev.EngineerID)
	if err != nil {
		slog.Error("Review notification: failed to load engineer", "review_id", rev.ID, "error", err)
		return
	}

	label := cycleLabel(rev.CycleID)

	switch rev.Status {
	case review.StatusReturned:
		var notes string
		if rev.HRNotes != nil {
			notes = *rev.HRNotes
		}
		err = s.mailer.SendReviewReturned(ctx, engineer.Email, engineer.FullName, label, notes, s.reviewURL)
	case review.StatusApproved:
		err = s.mailer.SendReviewApproved(ctx, engineer.Email, engineer.FullName, label)
	default:
		return
	}
	if err != nil {
		slog.Error("Review notification: send failed", "review_id", rev.ID, "status", rev.Status, "error", err)
	}
}

// cycleLabel falls back to the raw id for ids that do not parse.
func cycleLabel(cycleID string) string {
	if c, err := cycle.FromID(cycleID); err == nil {
		return c.Label
	}
	return cycleID
}

// EnsureCurrentCycle implements review.ReviewService.
func (s *ReviewServiceImpl) EnsureCurrentCycle(ctx context.Context) (int64, error) {
	c := cycle.Current(s.clock.Today())
	return s.ReviewRepository.EnsureForCycle(ctx, c.ID)
}
