package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JBE10/lifeops/models"
)

func TestTaskDefaultsAndLinks(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	project, err := env.tasks.CreateProject(ctx, "owner-1", ProjectInput{Name: "LifeOps"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.Status != models.ProjectActive {
		t.Errorf("project status = %s", project.Status)
	}

	task, err := env.tasks.CreateTask(ctx, "owner-1", TaskInput{Title: "Write docs", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != models.TaskBacklog || task.Priority != models.PriorityMedium {
		t.Errorf("defaults = %s/%s", task.Status, task.Priority)
	}
	if task.ProjectID == nil || *task.ProjectID != project.ID {
		t.Errorf("ProjectID = %v", task.ProjectID)
	}

	// Another owner's project is invisible.
	if _, err := env.tasks.CreateTask(ctx, "owner-2", TaskInput{Title: "x", ProjectID: project.ID}); !errors.Is(err, ErrValidation) {
		t.Errorf("foreign project err = %v, want ErrValidation", err)
	}

	empty := ""
	cleared, err := env.tasks.UpdateTask(ctx, "owner-1", task.ID, TaskPatch{ProjectID: &empty})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if cleared.ProjectID != nil {
		t.Errorf("ProjectID not cleared: %v", *cleared.ProjectID)
	}

	bad := []TaskInput{
		{Title: "  "},
		{Title: "x", Priority: "critical"},
		{Title: "x", Status: "blocked"},
		{Title: "x", DueDate: "31/03/2026"},
	}
	for _, in := range bad {
		if _, err := env.tasks.CreateTask(ctx, "owner-1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("CreateTask(%+v) err = %v, want ErrValidation", in, err)
		}
	}
}

func TestSetTaskStatus(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	task, err := env.tasks.CreateTask(ctx, "owner-1", TaskInput{Title: "Ship", Priority: models.PriorityHigh, DueDate: "2026-03-20"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	moved, err := env.tasks.SetTaskStatus(ctx, "owner-1", task.ID, models.TaskInProgress)
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	if moved.Status != models.TaskInProgress || moved.Priority != models.PriorityHigh || moved.DueDate == nil {
		t.Errorf("moved = %+v", moved)
	}

	for _, status := range []string{"", "blocked"} {
		if _, err := env.tasks.SetTaskStatus(ctx, "owner-1", task.ID, status); !errors.Is(err, ErrValidation) {
			t.Errorf("SetTaskStatus(%q) err = %v, want ErrValidation", status, err)
		}
	}
	if _, err := env.tasks.SetTaskStatus(ctx, "owner-2", task.ID, models.TaskDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign status err = %v, want ErrNotFound", err)
	}
}

func TestActiveSprintBoard(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	none, err := env.tasks.ActiveSprint(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ActiveSprint: %v", err)
	}
	if none.Sprint != nil || none.Tasks == nil || len(none.Tasks) != 0 {
		t.Errorf("no active sprint = %+v", none)
	}

	sprint, err := env.tasks.CreateSprint(ctx, "owner-1", SprintInput{Name: "S1", StartDate: "2026-03-02", EndDate: "2026-03-15"})
	if err != nil {
		t.Fatalf("CreateSprint: %v", err)
	}
	if sprint.Status != models.SprintPlanning {
		t.Errorf("sprint status = %s", sprint.Status)
	}
	for _, title := range []string{"a", "b"} {
		if _, err := env.tasks.CreateTask(ctx, "owner-1", TaskInput{Title: title, SprintID: sprint.ID}); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}
	if _, err := env.tasks.CreateTask(ctx, "owner-1", TaskInput{Title: "loose"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if board, err := env.tasks.ActiveSprint(ctx, "owner-1"); err != nil || board.Sprint != nil {
		t.Fatalf("planning sprint reported active: %+v err=%v", board, err)
	}

	active := models.SprintActive
	if _, err := env.tasks.UpdateSprint(ctx, "owner-1", sprint.ID, SprintPatch{Status: &active}); err != nil {
		t.Fatalf("UpdateSprint: %v", err)
	}
	board, err := env.tasks.ActiveSprint(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ActiveSprint: %v", err)
	}
	if board.Sprint == nil || board.Sprint.ID != sprint.ID || len(board.Tasks) != 2 {
		t.Fatalf("board = %+v", board)
	}

	if err := env.tasks.DeleteSprint(ctx, "owner-1", sprint.ID); err != nil {
		t.Fatalf("DeleteSprint: %v", err)
	}
	tasks, err := env.tasks.ListTasks(ctx, "owner-1", TaskQuery{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks lost with sprint: %d left", len(tasks))
	}
	for _, task := range tasks {
		if task.SprintID != nil {
			t.Errorf("task %s still in deleted sprint", task.Title)
		}
	}
}

func TestSprintDateOrder(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	if _, err := env.tasks.CreateSprint(ctx, "owner-1", SprintInput{Name: "S", StartDate: "2026-03-15", EndDate: "2026-03-01"}); !errors.Is(err, ErrValidation) {
		t.Errorf("reversed dates err = %v, want ErrValidation", err)
	}
	sprint, err := env.tasks.CreateSprint(ctx, "owner-1", SprintInput{Name: "S", StartDate: "2026-03-01", EndDate: "2026-03-01"})
	if err != nil {
		t.Fatalf("one-day sprint: %v", err)
	}
	early := "2026-02-01"
	if _, err := env.tasks.UpdateSprint(ctx, "owner-1", sprint.ID, SprintPatch{EndDate: &early}); !errors.Is(err, ErrValidation) {
		t.Errorf("end before start err = %v, want ErrValidation", err)
	}
}

func TestDeleteProjectKeepsTasks(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	project, err := env.tasks.CreateProject(ctx, "owner-1", ProjectInput{Name: "Old"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	task, err := env.tasks.CreateTask(ctx, "owner-1", TaskInput{Title: "t", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := env.tasks.DeleteProject(ctx, "owner-1", project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	got, err := env.tasks.GetTask(ctx, "owner-1", task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.ProjectID != nil {
		t.Errorf("ProjectID = %v, want nil", *got.ProjectID)
	}
	if _, err := env.tasks.GetProject(ctx, "owner-1", project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProject err = %v", err)
	}
}
