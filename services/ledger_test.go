package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/utils"
)

// testEnv wires the services over a file-backed SQLite store and a clock
// the test can move forward.
type testEnv struct {
	store   *db.Store
	now     time.Time
	clock   Clock
	metrics *utils.Metrics
	ledger  *HabitLedger
	habits  *HabitService
	stats   *StatsService
	journal *JournalService

	tasks     *TaskService
	okrs      *OKRService
	finance   *FinanceService
	portfolio *PortfolioService
	fitness   *FitnessService
}

func setupEnv(t *testing.T, start time.Time) *testEnv {
	t.Helper()

	store, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	env := &testEnv{store: store, now: start}
	env.clock = Clock{Now: func() time.Time { return env.now }, Location: time.UTC}
	env.metrics = utils.NewMetrics(prometheus.NewRegistry())

	logger := zap.NewNop()
	c := cache.Nop{}
	env.ledger = NewHabitLedger(store, NewStreakCalculator(env.clock), c, env.metrics, logger, env.clock)
	env.habits = NewHabitService(store, env.ledger, c, logger)
	env.stats = NewStatsService(store, c, logger, env.clock)
	env.journal = NewJournalService(store, c, logger, env.clock)
	env.tasks = NewTaskService(store, c, logger)
	env.okrs = NewOKRService(store, c, logger)
	env.finance = NewFinanceService(store, c, logger, env.clock)
	env.portfolio = NewPortfolioService(store, c, logger)
	env.fitness = NewFitnessService(store, c, logger, env.clock)
	return env
}

func (e *testEnv) advanceDays(n int) {
	e.now = e.now.AddDate(0, 0, n)
}

func day(t *testing.T, s string) utils.Day {
	t.Helper()
	d, err := utils.ParseDay(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCurrentStreak(t *testing.T) {
	today := day(t, "2026-03-10")

	tests := []struct {
		name string
		days []string
		want int
	}{
		{"no logs", nil, 0},
		{"today only", []string{"2026-03-10"}, 1},
		{"three consecutive", []string{"2026-03-10", "2026-03-09", "2026-03-08"}, 3},
		{"gap breaks run", []string{"2026-03-10", "2026-03-09", "2026-03-07"}, 2},
		{"yesterday only", []string{"2026-03-09"}, 0},
		{"old run", []string{"2026-03-05", "2026-03-04"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := make([]utils.Day, 0, len(tt.days))
			for _, s := range tt.days {
				days = append(days, day(t, s))
			}
			if got := CurrentStreak(days, today); got != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToggleTodayScenario(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	habit, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Meditate"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	steps := []struct {
		advance       int
		wantCompleted bool
		wantCurrent   int
		wantLongest   int
	}{
		{0, true, 1, 1},
		{1, true, 2, 2},
		{0, false, 0, 2},
		{1, true, 1, 2},
	}

	for i, step := range steps {
		env.advanceDays(step.advance)
		got, err := env.ledger.ToggleToday(ctx, habit.ID, "owner-1")
		if err != nil {
			t.Fatalf("step %d: ToggleToday: %v", i, err)
		}
		if got.CompletedNow != step.wantCompleted || got.Current != step.wantCurrent || got.Longest != step.wantLongest {
			t.Errorf("step %d: got %+v, want completed=%v current=%d longest=%d",
				i, got, step.wantCompleted, step.wantCurrent, step.wantLongest)
		}

		stored, err := env.store.ForOwner("owner-1").FindHabit(ctx, habit.ID)
		if err != nil {
			t.Fatalf("FindHabit: %v", err)
		}
		if stored.CurrentStreak != got.Current || stored.LongestStreak != got.Longest {
			t.Errorf("step %d: stored streak %d/%d, returned %d/%d",
				i, stored.CurrentStreak, stored.LongestStreak, got.Current, got.Longest)
		}
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	habit, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Walk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := env.ledger.ToggleToday(ctx, habit.ID, "owner-1"); err != nil {
			t.Fatalf("ToggleToday: %v", err)
		}
	}

	logs, err := env.ledger.ListRecent(ctx, habit.ID, "owner-1", 30)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected no logs after double toggle, got %d", len(logs))
	}
}

func TestToggleStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC))

	habit, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Stretch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var last ToggleResult
	for i := 0; i < 5; i++ {
		last, err = env.ledger.ToggleToday(ctx, habit.ID, "owner-1")
		if err != nil {
			t.Fatalf("ToggleToday day %d: %v", i, err)
		}
		env.advanceDays(1)
	}
	if last.Current != 5 || last.Longest != 5 {
		t.Errorf("after 5 days got %+v, want 5/5", last)
	}

	// skip a day, then the run restarts but the record stays
	env.advanceDays(1)
	last, err = env.ledger.ToggleToday(ctx, habit.ID, "owner-1")
	if err != nil {
		t.Fatalf("ToggleToday: %v", err)
	}
	if last.Current != 1 || last.Longest != 5 {
		t.Errorf("after gap got %+v, want 1/5", last)
	}
}

func TestRecomputeYesterdayOnlyIsZero(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	habit, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Journal"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.ledger.ToggleToday(ctx, habit.ID, "owner-1"); err != nil {
		t.Fatalf("ToggleToday: %v", err)
	}

	env.advanceDays(1)
	got, err := NewStreakCalculator(env.clock).Recompute(ctx, env.store.ForOwner("owner-1"), habit.ID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if got.Current != 0 || got.Longest != 1 {
		t.Errorf("Recompute = %+v, want current 0 longest 1", got)
	}
}

func TestToggleForeignHabitNotFound(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	habit, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Run"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.ledger.ToggleToday(ctx, habit.ID, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle by other owner err = %v, want ErrNotFound", err)
	}
	if _, err := env.ledger.ListRecent(ctx, habit.ID, "owner-2", 30); !errors.Is(err, ErrNotFound) {
		t.Errorf("ListRecent by other owner err = %v, want ErrNotFound", err)
	}
	if _, err := env.ledger.ToggleToday(ctx, "missing", "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle missing habit err = %v, want ErrNotFound", err)
	}

	logs, err := env.ledger.ListRecent(ctx, habit.ID, "owner-1", 30)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("foreign toggle wrote %d logs", len(logs))
	}
}

func TestListRecentWindow(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	habit, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Read"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := env.ledger.ToggleToday(ctx, habit.ID, "owner-1"); err != nil {
			t.Fatalf("ToggleToday: %v", err)
		}
		env.advanceDays(1)
	}
	env.advanceDays(-1)

	logs, err := env.ledger.ListRecent(ctx, habit.ID, "owner-1", 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[0].Date != "2026-03-04" || logs[1].Date != "2026-03-03" {
		t.Errorf("dates = %s, %s", logs[0].Date, logs[1].Date)
	}

	if _, err := env.ledger.ListRecent(ctx, habit.ID, "owner-1", 0); !errors.Is(err, ErrValidation) {
		t.Errorf("zero window err = %v, want ErrValidation", err)
	}
}

func TestListTodayStatus(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	done, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Done"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pending, err := env.habits.Create(ctx, "owner-1", HabitInput{Name: "Pending"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.ledger.ToggleToday(ctx, done.ID, "owner-1"); err != nil {
		t.Fatalf("ToggleToday: %v", err)
	}

	status, err := env.ledger.ListTodayStatusForOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListTodayStatusForOwner: %v", err)
	}
	if !status[done.ID] || status[pending.ID] {
		t.Errorf("status = %v", status)
	}

	list, err := env.habits.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || !list[0].CompletedToday || list[1].CompletedToday {
		t.Errorf("List = %+v", list)
	}

	env.advanceDays(1)
	status, err = env.ledger.ListTodayStatusForOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListTodayStatusForOwner: %v", err)
	}
	if status[done.ID] {
		t.Error("status carried over to the next day")
	}
}
