package db

import (
	"context"
	"errors"
	"testing"

	"github.com/JBE10/lifeops/models"
)

func TestListTasksOrdersByPriority(t *testing.T) {
	ctx := context.Background()
	scope := setupTestStore(t).ForOwner("owner-1")

	for _, p := range []string{models.PriorityLow, models.PriorityUrgent, models.PriorityMedium, models.PriorityHigh} {
		task := &models.Task{Title: p, Status: models.TaskTodo, Priority: p}
		if err := scope.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	tasks, err := scope.ListTasks(ctx, TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	want := []string{"urgent", "high", "medium", "low"}
	if len(tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(want))
	}
	for i, task := range tasks {
		if task.Priority != want[i] {
			t.Errorf("tasks[%d].Priority = %s, want %s", i, task.Priority, want[i])
		}
	}

	high, err := scope.ListTasks(ctx, TaskFilter{Priority: models.PriorityHigh})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(high) != 1 || high[0].Title != "high" {
		t.Errorf("priority filter = %+v", high)
	}
}

func TestDeleteSprintDetachesTasks(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	scope := store.ForOwner("owner-1")

	sprint := &models.Sprint{Name: "S1", StartDate: "2026-03-02", EndDate: "2026-03-15", Status: models.SprintActive}
	if err := scope.CreateSprint(ctx, sprint); err != nil {
		t.Fatalf("CreateSprint: %v", err)
	}
	task := &models.Task{Title: "Ship", Status: models.TaskTodo, Priority: models.PriorityMedium, SprintID: &sprint.ID}
	if err := scope.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := store.ForOwner("owner-2").DeleteSprint(ctx, sprint.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign DeleteSprint err = %v, want ErrNotFound", err)
	}
	got, err := scope.FindTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindTask: %v", err)
	}
	if got.SprintID == nil {
		t.Fatal("failed delete still detached the task")
	}

	if err := scope.DeleteSprint(ctx, sprint.ID); err != nil {
		t.Fatalf("DeleteSprint: %v", err)
	}
	got, err = scope.FindTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("task deleted with its sprint: %v", err)
	}
	if got.SprintID != nil {
		t.Errorf("SprintID = %v, want nil", *got.SprintID)
	}
	if _, err := scope.FindActiveSprint(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindActiveSprint err = %v, want ErrNotFound", err)
	}
}

func TestFindActiveSprintPicksLatestStart(t *testing.T) {
	ctx := context.Background()
	scope := setupTestStore(t).ForOwner("owner-1")

	sprints := []models.Sprint{
		{Name: "old", StartDate: "2026-01-05", EndDate: "2026-01-18", Status: models.SprintActive},
		{Name: "new", StartDate: "2026-02-02", EndDate: "2026-02-15", Status: models.SprintActive},
		{Name: "next", StartDate: "2026-03-02", EndDate: "2026-03-15", Status: models.SprintPlanning},
	}
	for i := range sprints {
		if err := scope.CreateSprint(ctx, &sprints[i]); err != nil {
			t.Fatalf("CreateSprint: %v", err)
		}
	}

	active, err := scope.FindActiveSprint(ctx)
	if err != nil {
		t.Fatalf("FindActiveSprint: %v", err)
	}
	if active.Name != "new" {
		t.Errorf("active sprint = %s, want new", active.Name)
	}
}
