package review

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/storage"
	"github.com/cmlabs-hris/workforce-attendance/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewKey struct{ company, cycle, engineer string }

type fakeReviewRepo struct {
	byID       map[string]review.Review
	byKey      map[reviewKey]string
	ensuredFor []string
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byID: map[string]review.Review{}, byKey: map[reviewKey]string{}}
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, companyID, id string) (review.Review, error) {
	rev, ok := r.byID[id]
	if !ok || rev.CompanyID != companyID {
		return review.Review{}, review.ErrReviewNotFound
	}
	return rev, nil
}

func (r *fakeReviewRepo) GetOrCreate(ctx context.Context, companyID, cycleID, engineerID string) (review.Review, error) {
	k := reviewKey{companyID, cycleID, engineerID}
	if id, ok := r.byKey[k]; ok {
		return r.byID[id], nil
	}
	rev := review.Review{ID: "r-" + engineerID + "-" + cycleID, CompanyID: companyID, CycleID: cycleID, EngineerID: engineerID, Status: review.StatusPending}
	r.byID[rev.ID] = rev
	r.byKey[k] = rev.ID
	return rev, nil
}

func (r *fakeReviewRepo) List(ctx context.Context, companyID string, filter review.ReviewFilter) ([]review.Review, error) {
	var out []review.Review
	for _, rev := range r.byID {
		if rev.CompanyID != companyID {
			continue
		}
		if filter.CycleID != "" && rev.CycleID != filter.CycleID {
			continue
		}
		if filter.Status != nil && rev.Status != *filter.Status {
			continue
		}
		out = append(out, rev)
	}
	return out, nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, rev review.Review) (review.Review, error) {
	if _, ok := r.byID[rev.ID]; !ok {
		return review.Review{}, review.ErrReviewNotFound
	}
	r.byID[rev.ID] = rev
	return rev, nil
}

func (r *fakeReviewRepo) EnsureForCycle(ctx context.Context, cycleID string) (int64, error) {
	r.ensuredFor = append(r.ensuredFor, cycleID)
	return 3, nil
}

var now = time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func signature() string {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func as(role user.Role, id string) context.Context {
	return jwt.ContextWithCaller(context.Background(), jwt.Caller{UserID: id, Email: id + "@site.test", CompanyID: "c1", Role: role})
}

type fakeUserRepo struct {
	user.UserRepository
}

func (fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if id != "eng" {
		return user.User{}, user.ErrUserNotFound
	}
	return user.User{ID: id, Email: "eng@site.test", FullName: "Sami", Role: user.RoleEngineer}, nil
}

type mail struct {
	kind, to, name, label, notes, link string
}

type fakeMailer struct {
	sent chan mail
}

func (m *fakeMailer) SendReviewReturned(ctx context.Context, to, engineerName, cycleLabel, hrNotes, reviewLink string) error {
	m.sent <- mail{kind: "returned", to: to, name: engineerName, label: cycleLabel, notes: hrNotes, link: reviewLink}
	return nil
}

func (m *fakeMailer) SendReviewApproved(ctx context.Context, to, engineerName, cycleLabel string) error {
	m.sent <- mail{kind: "approved", to: to, name: engineerName, label: cycleLabel}
	return nil
}

func (m *fakeMailer) next(t *testing.T) mail {
	t.Helper()
	select {
	case got := <-m.sent:
		return got
	case <-time.After(time.Second):
		t.Fatal("no mail sent")
		return mail{}
	}
}

type fakeNotifier struct {
	info chan string
}

func (n *fakeNotifier) Info(ctx context.Context, message string) error {
	n.info <- message
	return nil
}

func (n *fakeNotifier) Error(ctx context.Context, message string) error { return nil }

func newTestService(t *testing.T) (*fakeReviewRepo, review.ReviewService) {
	repo, svc, _, _ := newTestServiceWithOutbox(t)
	return repo, svc
}

func newTestServiceWithOutbox(t *testing.T) (*fakeReviewRepo, review.ReviewService, *fakeMailer, *fakeNotifier) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://files.test")
	require.NoError(t, err)

	repo := newFakeReviewRepo()
	mailer := &fakeMailer{sent: make(chan mail, 4)}
	notifier := &fakeNotifier{info: make(chan string, 4)}
	svc := NewReviewService(repo, fakeUserRepo{}, file.NewFileService(local), mailer, notifier,
		"http://app.test/reviews", cycle.Clock(fixedClock))
	return repo, svc, mailer, notifier
}

func TestGetCurrent(t *testing.T) {
	_, svc := newTestService(t)

	resp, err := svc.GetCurrent(as(user.RoleEngineer, "eng"))
	require.NoError(t, err)
	assert.Equal(t, "cycle-2023-12", resp.CycleID)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.GetCurrent(as(user.RoleHR, "hr"))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestSubmitCurrent_StoresSignature(t *testing.T) {
	repo, svc := newTestService(t)
	ctx := as(user.RoleEngineer, "eng")

	resp, err := svc.SubmitCurrent(ctx, review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)

	assert.Equal(t, "submitted", resp.Status)
	require.NotNil(t, resp.SignatureURL)
	assert.True(t, strings.HasPrefix(*resp.SignatureURL, "http://files.test/signatures/c1/"), *resp.SignatureURL)
	require.NotNil(t, resp.SignedAt)
	assert.Equal(t, now.Format(time.RFC3339), *resp.SignedAt)

	_, err = svc.SubmitCurrent(ctx, review.SubmitReviewRequest{Signature: signature()})
	assert.ErrorIs(t, err, review.ErrReviewNotSubmittable)

	assert.Len(t, repo.byID, 1)
}

func TestSubmitCurrent_RejectsBadSignature(t *testing.T) {
	repo, svc := newTestService(t)

	_, err := svc.SubmitCurrent(as(user.RoleEngineer, "eng"), review.SubmitReviewRequest{Signature: "data:image/png;base64,AAAA"})
	assert.Error(t, err)
	assert.Empty(t, repo.byID)
}

func TestApproveAndReturn(t *testing.T) {
	tests := []struct {
		name       string
		role       user.Role
		submitted  bool
		approve    bool
		wantStatus string
		wantErr    error
	}{
		{name: "HR approves submitted", role: user.RoleHR, submitted: true, approve: true, wantStatus: "approved"},
		{name: "HR returns submitted", role: user.RoleHR, submitted: true, wantStatus: "returned"},
		{name: "pending cannot be approved", role: user.RoleHR, approve: true, wantErr: review.ErrReviewNotSubmitted},
		{name: "accountant cannot approve", role: user.RoleAccountant, submitted: true, approve: true, wantErr: user.ErrHRAccessRequired},
		{name: "engineer cannot return", role: user.RoleEngineer, submitted: true, wantErr: user.ErrHRAccessRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newTestService(t)
			engCtx := as(user.RoleEngineer, "eng")

			current, err := svc.GetCurrent(engCtx)
			require.NoError(t, err)
			if tt.submitted {
				_, err := svc.SubmitCurrent(engCtx, review.SubmitReviewRequest{Signature: signature()})
				require.NoError(t, err)
			}

			var resp review.ReviewResponse
			if tt.approve {
				resp, err = svc.Approve(as(tt.role, "x"), current.ID)
			} else {
				resp, err = svc.Return(as(tt.role, "x"), review.ReturnReviewRequest{ID: current.ID, HRNotes: "site missing on the 3rd"})
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestReturnedReviewCanBeResubmitted(t *testing.T) {
	_, svc := newTestService(t)
	engCtx := as(user.RoleEngineer, "eng")

	first, err := svc.SubmitCurrent(engCtx, review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)

	returned, err := svc.Return(as(user.RoleHR, "hr"), review.ReturnReviewRequest{ID: first.ID, HRNotes: "please recheck"})
	require.NoError(t, err)
	assert.Equal(t, "please recheck", *returned.HRNotes)

	again, err := svc.SubmitCurrent(engCtx, review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)
	assert.Equal(t, "submitted", again.Status)
}

func TestList_FiltersByStatus(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.SubmitCurrent(as(user.RoleEngineer, "e1"), review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)
	_, err = svc.GetCurrent(as(user.RoleEngineer, "e2"))
	require.NoError(t, err)

	submitted := review.StatusSubmitted
	got, err := svc.List(as(user.RoleHR, "hr"), review.ReviewFilter{Status: &submitted})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].EngineerID)

	all, err := svc.List(as(user.RoleHR, "hr"), review.ReviewFilter{CycleID: "cycle-2023-12"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEnsureCurrentCycle(t *testing.T) {
	repo, svc := newTestService(t)

	n, err := svc.EnsureCurrentCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []string{"cycle-2023-12"}, repo.ensuredFor)
}

func TestDecisionsMailTheEngineer(t *testing.T) {
	_, svc, mailer, _ := newTestServiceWithOutbox(t)
	engCtx := as(user.RoleEngineer, "eng")
	hrCtx := as(user.RoleHR, "hr")

	submitted, err := svc.SubmitCurrent(engCtx, review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)

	_, err = svc.Return(hrCtx, review.ReturnReviewRequest{ID: submitted.ID, HRNotes: "OT on the 2nd looks wrong"})
	require.NoError(t, err)

	got := mailer.next(t)
	assert.Equal(t, mail{
		kind:  "returned",
		to:    "eng@site.test",
		name:  "Sami",
		label: "Dec-Jan 2024",
		notes: "OT on the 2nd looks wrong",
		link:  "http://app.test/reviews",
	}, got)

	_, err = svc.SubmitCurrent(engCtx, review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)
	_, err = svc.Approve(hrCtx, submitted.ID)
	require.NoError(t, err)

	got = mailer.next(t)
	assert.Equal(t, "approved", got.kind)
	assert.Equal(t, "Dec-Jan 2024", got.label)
}

func TestSubmitAnnouncesToHR(t *testing.T) {
	_, svc, _, notifier := newTestServiceWithOutbox(t)

	_, err := svc.SubmitCurrent(as(user.RoleEngineer, "eng"), review.SubmitReviewRequest{Signature: signature()})
	require.NoError(t, err)

	select {
	case msg := <-notifier.info:
		assert.Contains(t, msg, "eng@site.test")
		assert.Contains(t, msg, "Dec-Jan 2024")
	case <-time.After(time.Second):
		t.Fatal("no chat notice posted")
	}
}
