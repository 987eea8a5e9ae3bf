package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"expenso/internal/models"
	"expenso/internal/service"
)

func TestStatsHandlers(t *testing.T) {
	st := &mockStats{
		dashboard: models.DashboardStats{
			TotalExpenses:   12345,
			MonthlyExpenses: 500,
			TotalCategories: 6,
			RecentExpenses:  []models.RecentExpense{{ID: 1, Amount: 500, Description: "Tea", Category: "Food", Date: models.NewDate(2025, 3, 2)}},
		},
		byCategory: []models.CategoryStat{{Category: "Food", Amount: 500, Count: 1}},
		monthly:    []models.MonthlyStat{{Month: "2025-03", Amount: 500}},
	}
	s := authedService(8)
	s.Stats = st
	r := newTestRouter(s)

	w := perform(t, r, http.MethodGet, "/api/dashboard/stats", "", authHeader("tok"))
	if w.Code != http.StatusOK || st.lastUserID != 8 {
		t.Fatalf("dashboard status=%d uid=%d", w.Code, st.lastUserID)
	}
	var dash map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &dash)
	if dash["totalExpenses"] != 123.45 || dash["totalCategories"] != float64(6) {
		t.Fatalf("unexpected dashboard body: %s", w.Body.String())
	}

	w = perform(t, r, http.MethodGet, "/api/stats/categories", "", authHeader("tok"))
	if w.Code != http.StatusOK || w.Body.String() != `[{"category":"Food","amount":5.00,"count":1}]` {
		t.Fatalf("categories status=%d body=%s", w.Code, w.Body.String())
	}

	w = perform(t, r, http.MethodGet, "/api/stats/monthly", "", authHeader("tok"))
	if w.Code != http.StatusOK || w.Body.String() != `[{"month":"2025-03","amount":5.00}]` {
		t.Fatalf("monthly status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestStatsHandlers_Failures(t *testing.T) {
	s := authedService(1)
	s.Stats = &mockStats{err: errors.New("no such table: expenses")}
	r := newTestRouter(s)

	for _, path := range []string{"/api/dashboard/stats", "/api/stats/categories", "/api/stats/monthly"} {
		w := perform(t, r, http.MethodGet, path, "", authHeader("tok"))
		if w.Code != http.StatusInternalServerError || decodeMessage(t, w) != msgInternal {
			t.Fatalf("%s: status=%d body=%s", path, w.Code, w.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	hs := &mockHealth{}
	r := newTestRouter(&service.Service{Health: hs})

	if w := perform(t, r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	hs.err = errors.New("closed")
	if w := perform(t, r, http.MethodGet, "/health", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
