package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	pkgerrors "seguimientos/backend/pkg/errors"
	"seguimientos/backend/pkg/jwt"
	"seguimientos/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	loggedOut     *jwt.Claims
	meResult      *dto.TeacherResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.loggedOut = claims
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ uint) (*dto.TeacherResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ uint, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock ProgressReportService ──

type mockReportService struct {
	createResult *dto.ProgressReportResponse
	createErr    error
	getErr       error
	listResult   []dto.ProgressReportResponse
	gotCaller    service.Caller
	gotQuery     *dto.ReportListQuery
}

func (m *mockReportService) Create(_ context.Context, caller service.Caller, _ *dto.CreateProgressReportRequest) (*dto.ProgressReportResponse, error) {
	m.gotCaller = caller
	return m.createResult, m.createErr
}
func (m *mockReportService) Get(_ context.Context, caller service.Caller, id uint) (*dto.ProgressReportResponse, error) {
	m.gotCaller = caller
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &dto.ProgressReportResponse{ID: id}, nil
}
func (m *mockReportService) List(_ context.Context, caller service.Caller, q *dto.ReportListQuery) ([]dto.ProgressReportResponse, error) {
	m.gotCaller = caller
	m.gotQuery = q
	return m.listResult, nil
}
func (m *mockReportService) Update(_ context.Context, _ service.Caller, id uint, _ *dto.UpdateProgressReportRequest) (*dto.ProgressReportResponse, error) {
	return &dto.ProgressReportResponse{ID: id}, nil
}
func (m *mockReportService) Delete(_ context.Context, _ service.Caller, _ uint) error {
	return nil
}

// ── Mock MissingReportService ──

type mockMissingService struct {
	result    []dto.AssignmentResponse
	err       error
	gotYear   string
	gotMonth  int
	gotAll    bool
	gotCaller service.Caller
}

func (m *mockMissingService) Missing(_ context.Context, caller service.Caller, year string, month int, all bool) ([]dto.AssignmentResponse, error) {
	m.gotCaller, m.gotYear, m.gotMonth, m.gotAll = caller, year, month, all
	return m.result, m.err
}
func (m *mockMissingService) Annual(_ context.Context, caller service.Caller, year string, all bool) (map[int][]uint, error) {
	m.gotCaller, m.gotYear, m.gotAll = caller, year, all
	return map[int][]uint{3: {7}}, m.err
}
func (m *mockMissingService) MissingIDs(_ context.Context, _ string, _ int) ([]uint, error) {
	return nil, nil
}

// ── Partial mocks ──
// The embedded interface is nil, so calling an unstubbed method panics.

type mockCurriculumService struct {
	service.CurriculumService
	unitsErr error
}

func (m *mockCurriculumService) ListWorkUnits(_ context.Context, _ uint) ([]dto.WorkUnitResponse, error) {
	return nil, m.unitsErr
}

type mockYearService struct {
	service.AcademicYearService
	current string
}

func (m *mockYearService) CurrentYear(_ context.Context) (string, error) {
	return m.current, nil
}

type mockReminderService struct {
	result *dto.SendRemindersResponse
	err    error
	called bool
}

func (m *mockReminderService) Send(_ context.Context, _ *dto.SendRemindersRequest) (*dto.SendRemindersResponse, error) {
	m.called = true
	return m.result, m.err
}

type mockExportService struct {
	file *service.ExportFile
	err  error
}

func (m *mockExportService) ExportReports(_ context.Context, _ *dto.ExportQuery) (*service.ExportFile, error) {
	return m.file, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// withClaims stands in for middleware.JWTAuth.
func withClaims(teacherID uint, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClaimsKey, &jwt.Claims{TeacherID: teacherID, IsAdmin: isAdmin, TokenType: jwt.TokenTypeAccess})
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func detailsOf(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	d, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %#v, want a field map", resp.Details)
	}
	return d
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}}
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(mock).Login)

	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "ana@example.com", Password: "x"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(&mockAuthService{}).Login)

	w := doRequest(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_FieldErrors(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(&mockAuthService{}).Login)

	w := doRequest(r, "POST", "/auth/login", jsonBody(map[string]string{"email": "not-an-email"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	details := detailsOf(t, parseResponse(w))
	if _, ok := details["email"]; !ok {
		t.Errorf("missing email error in %v", details)
	}
	if _, ok := details["password"]; !ok {
		t.Errorf("missing password error in %v", details)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(mock).Login)

	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "ana@example.com", Password: "wrong"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Refresh_Revoked(t *testing.T) {
	mock := &mockAuthService{refreshErr: service.ErrTokenRevoked}
	r := gin.New()
	r.POST("/auth/refresh", NewAuthHandler(mock).RefreshToken)

	w := doRequest(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/anon/logout", h.Logout)
	r.POST("/auth/logout", withClaims(5, false), h.Logout)

	if w := doRequest(r, "POST", "/anon/logout", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("without claims: expected 401, got %d", w.Code)
	}

	w := doRequest(r, "POST", "/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.loggedOut == nil || mock.loggedOut.TeacherID != 5 {
		t.Errorf("logout got claims %+v", mock.loggedOut)
	}
}

// ═══════════════════════════════════════════════════════════
// ProgressReportHandler Tests
// ═══════════════════════════════════════════════════════════

func validCreateBody() dto.CreateProgressReportRequest {
	ok := true
	return dto.CreateProgressReportRequest{
		AssignmentID:      1,
		Month:             3,
		CurrentUnitID:     2,
		LastContentTaught: "Bucles",
		Status:            "on_time",
		Compliance:        &ok,
		Evaluation:        "second",
	}
}

func reportRouter(mock *mockReportService, isAdmin bool) *gin.Engine {
	h := NewProgressReportHandler(mock)
	r := gin.New()
	g := r.Group("", withClaims(9, isAdmin))
	g.GET("/progress-reports", h.ListReports)
	g.GET("/progress-reports/:id", h.GetReport)
	g.POST("/progress-reports", h.CreateReport)
	return r
}

func TestProgressReportHandler_Create_Success(t *testing.T) {
	mock := &mockReportService{createResult: &dto.ProgressReportResponse{ID: 42}}
	w := doRequest(reportRouter(mock, false), "POST", "/progress-reports", jsonBody(validCreateBody()))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.gotCaller.TeacherID != 9 || mock.gotCaller.IsAdmin {
		t.Errorf("caller = %+v", mock.gotCaller)
	}
}

func TestProgressReportHandler_Create_ConditionalFields(t *testing.T) {
	mock := &mockReportService{createErr: pkgerrors.FieldErrors{
		"status_justification": "required when status is not on_time",
	}}
	w := doRequest(reportRouter(mock, false), "POST", "/progress-reports", jsonBody(validCreateBody()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16006 {
		t.Errorf("expected code 16006, got %d", resp.Code)
	}
	if _, ok := detailsOf(t, resp)["status_justification"]; !ok {
		t.Errorf("field missing from details: %v", resp.Details)
	}
}

func TestProgressReportHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
		wantField  string
	}{
		{"duplicate", service.ErrReportDuplicate, http.StatusBadRequest, 16003, "month"},
		{"unit mismatch", service.ErrReportUnitMismatch, http.StatusBadRequest, 16005, "current_unit_id"},
		{"forbidden", service.ErrReportForbidden, http.StatusForbidden, 16002, ""},
		{"unknown assignment", service.ErrAssignmentNotFound, http.StatusNotFound, 15001, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockReportService{createErr: tt.err}
			w := doRequest(reportRouter(mock, false), "POST", "/progress-reports", jsonBody(validCreateBody()))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
			if tt.wantField != "" {
				if _, ok := detailsOf(t, resp)[tt.wantField]; !ok {
					t.Errorf("details missing %q: %v", tt.wantField, resp.Details)
				}
			}
		})
	}
}

func TestProgressReportHandler_Create_RejectsUnknownStatus(t *testing.T) {
	body := validCreateBody()
	body.Status = "late"
	mock := &mockReportService{}
	w := doRequest(reportRouter(mock, false), "POST", "/progress-reports", jsonBody(body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := detailsOf(t, parseResponse(w))["status"]; !ok {
		t.Errorf("status not reported")
	}
	if mock.gotCaller.TeacherID != 0 {
		t.Errorf("service called despite invalid body")
	}
}

func TestProgressReportHandler_Get_HiddenAndBadID(t *testing.T) {
	mock := &mockReportService{getErr: service.ErrReportNotFound}
	r := reportRouter(mock, false)

	if w := doRequest(r, "GET", "/progress-reports/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
	if w := doRequest(r, "GET", "/progress-reports/3", nil); w.Code != http.StatusNotFound {
		t.Errorf("out of scope: expected 404, got %d", w.Code)
	}
}

func TestProgressReportHandler_List_Query(t *testing.T) {
	mock := &mockReportService{listResult: []dto.ProgressReportResponse{}}
	r := reportRouter(mock, true)

	w := doRequest(r, "GET", "/progress-reports?year=2024-25&month=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotQuery == nil || mock.gotQuery.Year != "2024-25" || mock.gotQuery.Month != 3 {
		t.Errorf("query = %+v", mock.gotQuery)
	}
	if !mock.gotCaller.IsAdmin {
		t.Errorf("admin flag lost")
	}

	if w := doRequest(r, "GET", "/progress-reports?year=2024-26", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad year: expected 400, got %d", w.Code)
	}

	w = doRequest(r, "GET", "/progress-reports?month=marzo", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric month: expected 400, got %d", w.Code)
	}
	details := detailsOf(t, parseResponse(w))
	if _, ok := details["month"]; !ok {
		t.Errorf("month not reported: %v", details)
	}
	if _, ok := details["body"]; ok {
		t.Errorf("query error reported as body: %v", details)
	}
}

// ═══════════════════════════════════════════════════════════
// MissingReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestMissingReportHandler_Missing(t *testing.T) {
	mock := &mockMissingService{result: []dto.AssignmentResponse{{ID: 7}}}
	h := NewMissingReportHandler(mock)
	r := gin.New()
	r.GET("/missing-reports/:year/:month", withClaims(2, true), h.Missing)

	w := doRequest(r, "GET", "/missing-reports/2024-25/3?all=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotYear != "2024-25" || mock.gotMonth != 3 || !mock.gotAll || mock.gotCaller.TeacherID != 2 {
		t.Errorf("service got year=%s month=%d all=%v caller=%+v", mock.gotYear, mock.gotMonth, mock.gotAll, mock.gotCaller)
	}
	list, ok := parseResponse(w).Data.([]interface{})
	if !ok || len(list) != 1 {
		t.Errorf("data = %#v", parseResponse(w).Data)
	}

	if w := doRequest(r, "GET", "/missing-reports/2024-25/marzo", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric month: expected 400, got %d", w.Code)
	}
}

func TestMissingReportHandler_AllFlagByPresence(t *testing.T) {
	tests := []struct {
		path    string
		wantAll bool
	}{
		{"/missing-reports/2024-25/3?all", true},
		{"/missing-reports/2024-25/3?all=yes", true},
		{"/missing-reports/2024-25/3?all=", true},
		{"/missing-reports/2024-25/3", false},
		{"/missing-reports-annual/2024-25?all", true},
		{"/missing-reports-annual/2024-25?all=1", true},
		{"/missing-reports-annual/2024-25", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			mock := &mockMissingService{result: []dto.AssignmentResponse{}}
			h := NewMissingReportHandler(mock)
			r := gin.New()
			r.GET("/missing-reports/:year/:month", withClaims(1, true), h.Missing)
			r.GET("/missing-reports-annual/:year", withClaims(1, true), h.Annual)

			w := doRequest(r, "GET", tt.path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if mock.gotAll != tt.wantAll {
				t.Errorf("all = %v, want %v", mock.gotAll, tt.wantAll)
			}
		})
	}
}

func TestMissingReportHandler_ServiceValidation(t *testing.T) {
	mock := &mockMissingService{err: service.ErrAcademicYearFormat}
	h := NewMissingReportHandler(mock)
	r := gin.New()
	r.GET("/missing-reports/:year/:month", withClaims(2, false), h.Missing)
	r.GET("/missing-reports-annual/:year", withClaims(2, false), h.Annual)

	for _, path := range []string{"/missing-reports/2024/3", "/missing-reports-annual/2024"} {
		w := doRequest(r, "GET", path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
		if _, ok := detailsOf(t, parseResponse(w))["year"]; !ok {
			t.Errorf("%s: year not reported", path)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// Curriculum / Year / Reminder / Export Tests
// ═══════════════════════════════════════════════════════════

func TestCurriculumHandler_ListWorkUnits_Empty(t *testing.T) {
	h := NewCurriculumHandler(&mockCurriculumService{unitsErr: service.ErrNoWorkUnits})
	r := gin.New()
	r.GET("/modules/:id/work-units", h.ListWorkUnits)

	w := doRequest(r, "GET", "/modules/4/work-units", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "No work units exist for this module" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestAcademicYearHandler_CurrentYear(t *testing.T) {
	h := NewAcademicYearHandler(&mockYearService{current: "2024-25"}, nil)
	r := gin.New()
	r.GET("/current-year", h.CurrentYear)

	w := doRequest(r, "GET", "/current-year", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data, _ := parseResponse(w).Data.(map[string]interface{})
	if data["current_academic_year"] != "2024-25" {
		t.Errorf("data = %v", data)
	}
}

func TestReminderHandler_SendReminders(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		svcErr     error
		wantStatus int
		wantCalled bool
	}{
		{"ok", dto.SendRemindersRequest{AssignmentIDs: []uint{1, 2}, Month: 3}, nil, http.StatusOK, true},
		{"empty ids", dto.SendRemindersRequest{Month: 3}, nil, http.StatusBadRequest, false},
		{"month out of range", dto.SendRemindersRequest{AssignmentIDs: []uint{1}, Month: 13}, nil, http.StatusBadRequest, false},
		{"transport missing", dto.SendRemindersRequest{AssignmentIDs: []uint{1}, Month: 3}, service.ErrEmailNotConfigured, http.StatusServiceUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockReminderService{result: &dto.SendRemindersResponse{Status: "ok", EmailsSent: 2}, err: tt.svcErr}
			r := gin.New()
			r.POST("/send-reminders", NewReminderHandler(mock).SendReminders)

			w := doRequest(r, "POST", "/send-reminders", jsonBody(tt.body))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if mock.called != tt.wantCalled {
				t.Errorf("service called = %v, want %v", mock.called, tt.wantCalled)
			}
		})
	}
}

func TestExportHandler_ExportReports(t *testing.T) {
	mock := &mockExportService{file: &service.ExportFile{
		Filename:    "progress_reports_2024-25_03.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        bytes.NewBufferString("a,b\n"),
	}}
	r := gin.New()
	r.GET("/export", NewExportHandler(mock).ExportReports)

	w := doRequest(r, "GET", "/export?year=2024-25&month=3&format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename*=UTF-8''progress_reports_2024-25_03.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if w.Body.String() != "a,b\n" {
		t.Errorf("body = %q", w.Body.String())
	}

	if w := doRequest(r, "GET", "/export?format=pdf", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown format: expected 400, got %d", w.Code)
	}

	mock.file, mock.err = nil, service.ErrExportNoReports
	if w := doRequest(r, "GET", "/export", nil); w.Code != http.StatusNotFound {
		t.Errorf("no reports: expected 404, got %d", w.Code)
	}
}
