package db

import (
	"context"

	"github.com/JBE10/lifeops/models"
)

type TaskFilter struct {
	ProjectID string
	SprintID  string
	Status    string
	Priority  string
}

// priorityRank orders urgent first; the column holds words, not numbers.
const priorityRank = "CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC"

func (o *OwnerScope) CreateProject(ctx context.Context, project *models.Project) error {
	project.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(project).Error)
}

func (o *OwnerScope) FindProject(ctx context.Context, id string) (*models.Project, error) {
	return findOwned[models.Project](ctx, o, id)
}

// ListProjects returns projects newest first.
func (o *OwnerScope) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := o.query(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (o *OwnerScope) UpdateProject(ctx context.Context, project *models.Project) error {
	return updateOwned(ctx, o, project.ID, project, "name", "description", "status")
}

// DeleteProject leaves the project's tasks and sprints in place, detached.
func (o *OwnerScope) DeleteProject(ctx context.Context, id string) error {
	return o.Transaction(ctx, func(tx *OwnerScope) error {
		if err := deleteOwned[models.Project](ctx, tx, id); err != nil {
			return err
		}
		if err := tx.query(ctx).Model(&models.Task{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}
		return tx.query(ctx).Model(&models.Sprint{}).Where("project_id = ?", id).Update("project_id", nil).Error
	})
}

func (o *OwnerScope) CreateTask(ctx context.Context, task *models.Task) error {
	task.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(task).Error)
}

func (o *OwnerScope) FindTask(ctx context.Context, id string) (*models.Task, error) {
	return findOwned[models.Task](ctx, o, id)
}

// ListTasks returns matching tasks, most urgent first and newest first
// within a priority.
func (o *OwnerScope) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := o.query(ctx)
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.SprintID != "" {
		q = q.Where("sprint_id = ?", f.SprintID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}

	var tasks []models.Task
	err := q.Order(priorityRank).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (o *OwnerScope) UpdateTask(ctx context.Context, task *models.Task) error {
	return updateOwned(ctx, o, task.ID, task,
		"title", "description", "project_id", "sprint_id", "status", "priority", "due_date")
}

func (o *OwnerScope) DeleteTask(ctx context.Context, id string) error {
	return deleteOwned[models.Task](ctx, o, id)
}

func (o *OwnerScope) CreateSprint(ctx context.Context, sprint *models.Sprint) error {
	sprint.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(sprint).Error)
}

func (o *OwnerScope) FindSprint(ctx context.Context, id string) (*models.Sprint, error) {
	return findOwned[models.Sprint](ctx, o, id)
}

// ListSprints returns sprints latest start first, optionally by status.
func (o *OwnerScope) ListSprints(ctx context.Context, status string) ([]models.Sprint, error) {
	q := o.query(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var sprints []models.Sprint
	err := q.Order("start_date DESC").Order("created_at DESC").Find(&sprints).Error
	return sprints, err
}

// FindActiveSprint returns the active sprint that started last.
func (o *OwnerScope) FindActiveSprint(ctx context.Context) (*models.Sprint, error) {
	var sprint models.Sprint
	err := o.query(ctx).
		Where("status = ?", models.SprintActive).
		Order("start_date DESC").
		First(&sprint).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sprint, nil
}

func (o *OwnerScope) UpdateSprint(ctx context.Context, sprint *models.Sprint) error {
	return updateOwned(ctx, o, sprint.ID, sprint,
		"name", "goal", "project_id", "start_date", "end_date", "status")
}

// DeleteSprint moves the sprint's tasks back to no sprint before removing it.
func (o *OwnerScope) DeleteSprint(ctx context.Context, id string) error {
	return o.Transaction(ctx, func(tx *OwnerScope) error {
		if err := tx.query(ctx).Model(&models.Task{}).Where("sprint_id = ?", id).Update("sprint_id", nil).Error; err != nil {
			return err
		}
		return deleteOwned[models.Sprint](ctx, tx, id)
	})
}
