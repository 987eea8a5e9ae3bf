package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"expenso/internal/models"
	"expenso/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerRes service.AuthResult
	registerErr error
	loginRes    service.AuthResult
	loginErr    error
	parseID     models.Identity
	parseErr    error
	meUser      models.User
	meErr       error

	lastRegister   service.RegisterInput
	lastLoginEmail string
	lastParseToken string
	parseCalls     int
}

func (m *mockAuth) Register(_ context.Context, in service.RegisterInput) (service.AuthResult, error) {
	m.lastRegister = in
	return m.registerRes, m.registerErr
}
func (m *mockAuth) Login(_ context.Context, email, _ string) (service.AuthResult, error) {
	m.lastLoginEmail = email
	return m.loginRes, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.parseCalls++
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) Me(_ context.Context, _ int) (models.User, error) {
	return m.meUser, m.meErr
}

type mockCategories struct {
	list     []models.Category
	one      models.Category
	createID int
	err      error

	lastUserID int
	lastID     int
	lastInput  models.CategoryInput
	calls      int
}

func (m *mockCategories) record(userID, id int) {
	m.calls++
	m.lastUserID = userID
	m.lastID = id
}

func (m *mockCategories) List(_ context.Context, userID int) ([]models.Category, error) {
	m.record(userID, 0)
	return m.list, m.err
}
func (m *mockCategories) Get(_ context.Context, userID, id int) (models.Category, error) {
	m.record(userID, id)
	return m.one, m.err
}
func (m *mockCategories) Create(_ context.Context, userID int, in models.CategoryInput) (int, error) {
	m.record(userID, 0)
	m.lastInput = in
	return m.createID, m.err
}
func (m *mockCategories) Update(_ context.Context, userID, id int, in models.CategoryInput) error {
	m.record(userID, id)
	m.lastInput = in
	return m.err
}
func (m *mockCategories) Delete(_ context.Context, userID, id int) error {
	m.record(userID, id)
	return m.err
}

type mockExpenses struct {
	list     []models.Expense
	one      models.Expense
	createID int
	err      error

	lastUserID int
	lastID     int
	lastInput  models.ExpenseInput
	lastFilter models.ExpenseFilter
	calls      int
}

func (m *mockExpenses) record(userID, id int) {
	m.calls++
	m.lastUserID = userID
	m.lastID = id
}

func (m *mockExpenses) List(_ context.Context, userID int, f models.ExpenseFilter) ([]models.Expense, error) {
	m.record(userID, 0)
	m.lastFilter = f
	return m.list, m.err
}
func (m *mockExpenses) Get(_ context.Context, userID, id int) (models.Expense, error) {
	m.record(userID, id)
	return m.one, m.err
}
func (m *mockExpenses) Create(_ context.Context, userID int, in models.ExpenseInput) (int, error) {
	m.record(userID, 0)
	m.lastInput = in
	return m.createID, m.err
}
func (m *mockExpenses) Update(_ context.Context, userID, id int, in models.ExpenseInput) error {
	m.record(userID, id)
	m.lastInput = in
	return m.err
}
func (m *mockExpenses) Delete(_ context.Context, userID, id int) error {
	m.record(userID, id)
	return m.err
}

type mockStats struct {
	dashboard  models.DashboardStats
	byCategory []models.CategoryStat
	monthly    []models.MonthlyStat
	err        error

	mu         sync.Mutex // the websocket loop calls Dashboard from the server goroutine
	lastUserID int
}

func (m *mockStats) Dashboard(_ context.Context, userID int) (models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUserID = userID
	return m.dashboard, m.err
}

func (m *mockStats) lastUser() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUserID
}
func (m *mockStats) ByCategory(_ context.Context, userID int) ([]models.CategoryStat, error) {
	m.lastUserID = userID
	return m.byCategory, m.err
}
func (m *mockStats) Monthly(_ context.Context, userID int) ([]models.MonthlyStat, error) {
	m.lastUserID = userID
	return m.monthly, m.err
}
func (m *mockStats) Invalidate(context.Context, int) {}

type mockExporter struct {
	file       service.ExportFile
	err        error
	lastFormat string
	lastFilter models.ExpenseFilter
}

func (m *mockExporter) Export(_ context.Context, _ int, f models.ExpenseFilter, format string) (service.ExportFile, error) {
	m.lastFilter = f
	m.lastFormat = format
	return m.file, m.err
}

type mockHealth struct {
	err error
}

func (m *mockHealth) Check(context.Context) error { return m.err }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// authedService returns a Service whose token check accepts any token as user uid.
func authedService(uid int) *service.Service {
	return &service.Service{Authorization: &mockAuth{parseID: models.Identity{UserID: uid, Email: "u@example.com"}}}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// perform sends a request through r and returns the recorder.
func perform(t *testing.T, r http.Handler, method, target, body string, hdr http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	for k, v := range hdr {
		req.Header[k] = v
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out.Message
}
