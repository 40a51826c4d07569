package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

type fakeAuthService struct {
	auth.AuthService
	loginErr error
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return auth.TokenResponse{AccessToken: "access", AccessTokenExpiresIn: 1, RefreshToken: "refresh", RefreshTokenExpiresIn: 4102444800}, nil
}

func (f *fakeAuthService) Me(ctx context.Context) (auth.MeResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, err
	}
	return auth.MeResponse{UserID: caller.UserID, Role: string(caller.Role), CompanyID: caller.CompanyID}, nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	updateResp attendance.UpdateCellResponse
	updateErr  error
	lastUpdate *attendance.UpdateCellRequest
	lastGrid   attendance.GridRequest
}

func (f *fakeAttendanceService) GetGrid(ctx context.Context, req attendance.GridRequest) (attendance.GridResponse, error) {
	f.lastGrid = req
	return attendance.GridResponse{}, nil
}

func (f *fakeAttendanceService) UpdateCell(ctx context.Context, req attendance.UpdateCellRequest) (attendance.UpdateCellResponse, error) {
	f.lastUpdate = &req
	return f.updateResp, f.updateErr
}

func (f *fakeAttendanceService) GenerateSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	return attendance.SummaryResponse{CycleID: "cycle-2023-12", Summary: "placeholder"}, nil
}

func (f *fakeAttendanceService) ExportTimesheet(ctx context.Context, req attendance.GridRequest, w io.Writer) (string, error) {
	_, err := w.Write([]byte("PK-fake-xlsx"))
	return "timesheet-cycle-2023-12.xlsx", err
}

func (f *fakeAttendanceService) Subscribe(ctx context.Context) (<-chan attendance.StreamEvent, func(), error) {
	ch := make(chan attendance.StreamEvent, 1)
	ch <- attendance.StreamEvent{Event: attendance.EventEntryUpdated, Data: attendance.EntryResponse{ID: "e1", WorkerID: "w1", Status: "P"}}
	close(ch)
	return ch, func() {}, nil
}

type fakeWorkerService struct {
	worker.WorkerService
	lastFilter worker.WorkerFilter
}

func (f *fakeWorkerService) List(ctx context.Context, filter worker.WorkerFilter) ([]worker.WorkerResponse, error) {
	f.lastFilter = filter
	return []worker.WorkerResponse{{ID: "w1"}}, nil
}

type fakeReviewService struct {
	review.ReviewService
	lastReturn review.ReturnReviewRequest
}

func (f *fakeReviewService) Return(ctx context.Context, req review.ReturnReviewRequest) (review.ReviewResponse, error) {
	f.lastReturn = req
	if err := req.Validate(); err != nil {
		return review.ReviewResponse{}, err
	}
	return review.ReviewResponse{ID: req.ID, Status: string(review.StatusReturned)}, nil
}

type testServer struct {
	t          *testing.T
	router     http.Handler
	jwt        jwt.Service
	auth       *fakeAuthService
	attendance *fakeAttendanceService
	workers    *fakeWorkerService
	reviews    *fakeReviewService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		t:          t,
		jwt:        jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp),
		auth:       &fakeAuthService{},
		attendance: &fakeAttendanceService{},
		workers:    &fakeWorkerService{},
		reviews:    &fakeReviewService{},
	}
	s.router = NewRouter(s.jwt, RouterConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}}, Handlers{
		Auth:       NewAuthHandler(s.jwt, s.auth),
		User:       NewUserHandler(nil),
		Company:    NewCompanyHandler(nil),
		Worker:     NewWorkerHandler(s.workers),
		Site:       NewSiteHandler(nil),
		Attendance: NewAttendanceHandler(s.attendance),
		Review:     NewReviewHandler(s.reviews),
		Dashboard:  NewDashboardHandler(nil),
	})
	return s
}

func (s *testServer) token(role user.Role) string {
	token, _, err := s.jwt.GenerateAccessToken("u-"+string(role), "x@site.test", "c1", role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Email: "hr@site.test", Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		loginErr error
		want     int
	}{
		{name: "malformed body", body: "not an object", want: http.StatusBadRequest},
		{name: "invalid email", body: auth.LoginRequest{Email: "nope", Password: "password123"}, want: http.StatusUnprocessableEntity},
		{name: "wrong password", body: auth.LoginRequest{Email: "hr@site.test", Password: "password123"}, loginErr: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.auth.loginErr = tt.loginErr
			rec := s.do(http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMe_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/auth/me", "garbage", nil).Code)

	refresh, _, err := s.jwt.GenerateRefreshToken("u1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/auth/me", refresh, nil).Code, "refresh tokens are not access tokens")

	rec := s.do(http.MethodGet, "/api/v1/auth/me", s.token(user.RoleForeman), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"Foreman"`)
}

func TestUpdateCell_Routing(t *testing.T) {
	entry := attendance.EntryResponse{ID: "e1", WorkerID: "w1", Date: "2024-01-10", Status: "P"}

	tests := []struct {
		name       string
		role       user.Role
		resp       attendance.UpdateCellResponse
		err        error
		want       int
		wantCalled bool
	}{
		{name: "stored", role: user.RoleHR, resp: attendance.UpdateCellResponse{Changed: true, Entry: &entry}, want: http.StatusOK, wantCalled: true},
		{name: "no-op is not an error", role: user.RoleAccountant, resp: attendance.UpdateCellResponse{Changed: false}, want: http.StatusOK, wantCalled: true},
		{name: "gate denies foreman", role: user.RoleForeman, err: attendance.ErrCellNotEditable, want: http.StatusForbidden, wantCalled: true},
		{name: "engineer never reaches service", role: user.RoleEngineer, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.attendance.updateResp = tt.resp
			s.attendance.updateErr = tt.err

			status := "P"
			rec := s.do(http.MethodPut, "/api/v1/attendance/w1/2024-01-10", s.token(tt.role), map[string]any{"status": status})
			assert.Equal(t, tt.want, rec.Code)

			if !tt.wantCalled {
				assert.Nil(t, s.attendance.lastUpdate)
				return
			}
			require.NotNil(t, s.attendance.lastUpdate)
			assert.Equal(t, "w1", s.attendance.lastUpdate.WorkerID)
			assert.Equal(t, "2024-01-10", s.attendance.lastUpdate.Date)
			assert.Equal(t, "P", *s.attendance.lastUpdate.Status)
		})
	}
}

func TestGetGrid_PassesCycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/attendance/grid?cycle_id=cycle-2023-11", s.token(user.RoleEngineer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cycle-2023-11", s.attendance.lastGrid.CycleID)
}

func TestSummary_EmptyBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/attendance/summary", s.token(user.RoleAccountant), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)

	rec = s.do(http.MethodPost, "/api/v1/attendance/summary", s.token(user.RoleForeman), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExport_StreamsWorkbook(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/attendance/export", s.token(user.RoleHR), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="timesheet-cycle-2023-12.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-fake-xlsx", rec.Body.String())
}

func TestWorkerList_Mine(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/workers?mine=true&status=active", s.token(user.RoleForeman), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s.workers.lastFilter.ForemanID)
	assert.Equal(t, "u-Foreman", *s.workers.lastFilter.ForemanID)
	assert.Equal(t, worker.StatusActive, *s.workers.lastFilter.Status)

	rec = s.do(http.MethodGet, "/api/v1/workers?status=gone", s.token(user.RoleHR), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewReturn(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/reviews/r1/return", s.token(user.RoleHR), map[string]string{"hr_notes": "check the 3rd"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r1", s.reviews.lastReturn.ID)

	rec = s.do(http.MethodPost, "/api/v1/reviews/r1/return", s.token(user.RoleHR), map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/reviews/r1/return", s.token(user.RoleEngineer), map[string]string{"hr_notes": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateCell_NoChangeReply(t *testing.T) {
	s := newTestServer(t)
	s.attendance.updateResp = attendance.UpdateCellResponse{Changed: false}

	rec := s.do(http.MethodPut, "/api/v1/attendance/w1/2024-01-10", s.token(user.RoleHR), map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
		Data    struct {
			Changed bool `json:"changed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No change", body.Message)
	assert.False(t, body.Data.Changed)
}

func TestStream_AcceptsQueryToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/attendance/stream?jwt="+s.token(user.RoleAccountant), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: connected\n")
	assert.Contains(t, rec.Body.String(), "event: attendance.updated\ndata: {\"id\":\"e1\",\"worker_id\":\"w1\"")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/attendance/stream", "", nil).Code)
}

type idleAttendanceService struct {
	attendance.AttendanceService
}

func (idleAttendanceService) Subscribe(ctx context.Context) (<-chan attendance.StreamEvent, func(), error) {
	return make(chan attendance.StreamEvent), func() {}, nil
}

func TestStream_KeepaliveIsComment(t *testing.T) {
	h := &attendanceHandlerImpl{attendanceService: idleAttendanceService{}, keepalive: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.Stream(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "\n: ping\n\n")
	assert.NotContains(t, body, "event: ping")
}
