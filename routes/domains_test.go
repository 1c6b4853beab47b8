package routes

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/services"
)

func TestTaskRoutes(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "tasks@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/sprints", token, gin.H{
		"name": "S1", "start_date": "2026-03-02", "end_date": "2026-03-15", "status": "active",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create sprint: %d %s", w.Code, w.Body.String())
	}
	var sprint struct {
		ID string `json:"id"`
	}
	decode(t, w, &sprint)

	w = doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "Plan", "sprint_id": sprint.ID, "priority": "urgent"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", w.Code, w.Body.String())
	}
	var task struct {
		ID string `json:"id"`
	}
	decode(t, w, &task)

	w = doJSON(t, r, http.MethodGet, "/api/sprints/active", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("active sprint: %d %s", w.Code, w.Body.String())
	}
	var board services.SprintBoard
	decode(t, w, &board)
	if board.Sprint == nil || board.Sprint.ID != sprint.ID || len(board.Tasks) != 1 {
		t.Errorf("board = %+v", board)
	}

	w = doJSON(t, r, http.MethodPatch, "/api/tasks/"+task.ID+"/status", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status without body: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPatch, "/api/tasks/"+task.ID+"/status", token, gin.H{"status": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("set status: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/api/sprints/"+sprint.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete sprint: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/sprints/active", token, nil)
	var empty map[string]interface{}
	decode(t, w, &empty)
	if empty["sprint"] != nil {
		t.Errorf("deleted sprint still active: %v", empty)
	}
	if tasks, ok := empty["tasks"].([]interface{}); !ok || len(tasks) != 0 {
		t.Errorf("tasks = %v, want empty list", empty["tasks"])
	}
}

func TestOKRRoutes(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "okr@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/okrs", token, gin.H{
		"objective": "Ship v1", "quarter": "Q2", "year": 2026,
		"key_results": []gin.H{{"title": "Close issues", "target_value": 40}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create okr: %d %s", w.Code, w.Body.String())
	}
	var okr struct {
		ID         string `json:"id"`
		KeyResults []struct {
			ID string `json:"id"`
		} `json:"key_results"`
	}
	decode(t, w, &okr)

	// Warm the response cache so the update has to invalidate it.
	if w := doJSON(t, r, http.MethodGet, "/api/okrs/"+okr.ID, token, nil); w.Code != http.StatusOK {
		t.Fatalf("get okr: %d", w.Code)
	}

	krPath := "/api/okrs/" + okr.ID + "/key-results/" + okr.KeyResults[0].ID
	if w := doJSON(t, r, http.MethodPatch, krPath, token, gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing current_value: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPatch, "/api/okrs/"+okr.ID+"/key-results/nope", token, gin.H{"current_value": 1}); w.Code != http.StatusNotFound {
		t.Errorf("unknown key result: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPatch, krPath, token, gin.H{"current_value": 30}); w.Code != http.StatusOK {
		t.Fatalf("update key result: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/okrs/"+okr.ID, token, nil)
	var got map[string]interface{}
	decode(t, w, &got)
	if got["progress"] != float64(75) {
		t.Errorf("progress = %v, want 75", got["progress"])
	}
}

func TestFinanceRoutes(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "money@example.com")
	month := time.Now().UTC().Format("2006-01")

	for _, body := range []gin.H{
		{"type": "income", "amount": 1000, "category": "salary"},
		{"type": "expense", "amount": 250, "category": "food"},
	} {
		if w := doJSON(t, r, http.MethodPost, "/api/finance/transactions", token, body); w.Code != http.StatusCreated {
			t.Fatalf("create transaction: %d %s", w.Code, w.Body.String())
		}
	}
	if w := doJSON(t, r, http.MethodPost, "/api/finance/budgets", token, gin.H{"category": "food", "amount": 500, "period": "yearly"}); w.Code != http.StatusCreated {
		t.Fatalf("budget: %d %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodGet, "/api/finance/stats?month="+month, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", w.Code, w.Body.String())
	}
	var stats services.FinanceStats
	decode(t, w, &stats)
	if stats.Balance != 750 || len(stats.Budgets) != 1 || stats.Budgets[0].Percentage != 50 {
		t.Errorf("stats = %+v", stats)
	}

	w = doJSON(t, r, http.MethodGet, "/api/finance/transactions?type=expense", token, nil)
	var page services.TransactionPage
	decode(t, w, &page)
	if page.Pagination.Total != 1 || page.Transactions[0].Category != "food" {
		t.Errorf("expenses = %+v", page)
	}

	buy := gin.H{"type": "crypto", "symbol": "btc", "quantity": 1, "avg_buy_price": 100}
	if w := doJSON(t, r, http.MethodPost, "/api/finance/assets", token, buy); w.Code != http.StatusCreated {
		t.Fatalf("first buy: %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/api/finance/assets", token, buy); w.Code != http.StatusOK {
		t.Fatalf("second buy should merge: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/finance/assets/valuation", token, gin.H{"prices": gin.H{"BTC": gin.H{"price": 150}}})
	if w.Code != http.StatusOK {
		t.Fatalf("valuation: %d %s", w.Code, w.Body.String())
	}
	var portfolio services.Portfolio
	decode(t, w, &portfolio)
	if portfolio.Totals.Total != 300 || portfolio.Totals.PnL != 100 || portfolio.Totals.PnLPercent != 50 {
		t.Errorf("portfolio totals = %+v", portfolio.Totals)
	}
}

func TestFitnessRoutes(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "fit@example.com")

	for _, body := range []gin.H{
		{"name": "Run", "type": "cardio", "duration": 30, "calories": 300},
		{"name": "Lift", "duration": 60},
	} {
		if w := doJSON(t, r, http.MethodPost, "/api/fitness", token, body); w.Code != http.StatusCreated {
			t.Fatalf("create workout: %d %s", w.Code, w.Body.String())
		}
	}
	if w := doJSON(t, r, http.MethodPost, "/api/fitness", token, gin.H{"name": "No time"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing duration: %d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/fitness/stats?days=7", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", w.Code, w.Body.String())
	}
	var stats services.WorkoutStats
	decode(t, w, &stats)
	if stats.TotalWorkouts != 2 || stats.TotalDuration != 90 || stats.AvgDuration != 45 || len(stats.ByType) != 2 {
		t.Errorf("stats = %+v", stats)
	}

	if w := doJSON(t, r, http.MethodGet, "/api/fitness/stats?days=week", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric days: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/fitness?limit=1", token, nil)
	var page services.WorkoutPage
	decode(t, w, &page)
	if page.Pagination.Total != 2 || page.Pagination.Pages != 2 || len(page.Workouts) != 1 {
		t.Errorf("page = %+v", page)
	}
}
