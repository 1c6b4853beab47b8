package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
	"github.com/JBE10/lifeops/utils"
)

type ProjectInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Status      string `json:"status" validate:"omitempty,oneof=active archived"`
}

type ProjectPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type TaskInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ProjectID   string `json:"project_id"`
	SprintID    string `json:"sprint_id"`
	Status      string `json:"status" validate:"omitempty,oneof=backlog todo in_progress done"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// TaskPatch carries a partial update. An empty ProjectID, SprintID or
// DueDate clears it.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ProjectID   *string `json:"project_id"`
	SprintID    *string `json:"sprint_id"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

type TaskQuery struct {
	ProjectID string `form:"project_id"`
	SprintID  string `form:"sprint_id"`
	Status    string `form:"status" validate:"omitempty,oneof=backlog todo in_progress done"`
	Priority  string `form:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type SprintInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Goal      string `json:"goal" validate:"max=500"`
	ProjectID string `json:"project_id"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=planning active completed"`
}

type SprintPatch struct {
	Name      *string `json:"name"`
	Goal      *string `json:"goal"`
	ProjectID *string `json:"project_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"`
}

// SprintBoard is a sprint with its tasks. Sprint is nil when there is no
// active sprint.
type SprintBoard struct {
	Sprint *models.Sprint `json:"sprint"`
	Tasks  []models.Task  `json:"tasks"`
}

// TaskService manages projects, the tasks inside them and the sprints that
// schedule those tasks.
type TaskService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
}

func NewTaskService(store *db.Store, c cache.Cache, logger *zap.Logger) *TaskService {
	return &TaskService{store: store, cache: c, logger: logger}
}

func (s *TaskService) CreateProject(ctx context.Context, ownerID string, in ProjectInput) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status == "" {
		in.Status = models.ProjectActive
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	project := &models.Project{Name: in.Name, Description: in.Description, Status: in.Status}
	if err := s.store.ForOwner(ownerID).CreateProject(ctx, project); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return project, nil
}

func (s *TaskService) GetProject(ctx context.Context, ownerID, id string) (*models.Project, error) {
	project, err := s.store.ForOwner(ownerID).FindProject(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return project, nil
}

func (s *TaskService) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	projects, err := s.store.ForOwner(ownerID).ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *TaskService) UpdateProject(ctx context.Context, ownerID, id string, patch ProjectPatch) (*models.Project, error) {
	scope := s.store.ForOwner(ownerID)
	project, err := scope.FindProject(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Name != nil {
		project.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		project.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if err := validateStruct(ProjectInput{Name: project.Name, Description: project.Description, Status: project.Status}); err != nil {
		return nil, err
	}
	if project.Status == "" {
		return nil, invalid("status is required")
	}

	if err := scope.UpdateProject(ctx, project); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return project, nil
}

// DeleteProject keeps the project's tasks and sprints, detached from it.
func (s *TaskService) DeleteProject(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteProject(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, in TaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status == "" {
		in.Status = models.TaskBacklog
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	scope := s.store.ForOwner(ownerID)
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   optional(in.ProjectID),
		SprintID:    optional(in.SprintID),
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     optional(in.DueDate),
	}
	if err := s.checkTaskLinks(ctx, scope, task); err != nil {
		return nil, err
	}
	if err := scope.CreateTask(ctx, task); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, id string) (*models.Task, error) {
	task, err := s.store.ForOwner(ownerID).FindTask(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return task, nil
}

// ListTasks returns tasks most urgent first.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, q TaskQuery) ([]models.Task, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}

	tasks, err := s.store.ForOwner(ownerID).ListTasks(ctx, db.TaskFilter{
		ProjectID: q.ProjectID,
		SprintID:  q.SprintID,
		Status:    q.Status,
		Priority:  q.Priority,
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id string, patch TaskPatch) (*models.Task, error) {
	scope := s.store.ForOwner(ownerID)
	task, err := scope.FindTask(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.ProjectID != nil {
		task.ProjectID = optional(*patch.ProjectID)
	}
	if patch.SprintID != nil {
		task.SprintID = optional(*patch.SprintID)
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = optional(*patch.DueDate)
	}

	if err := validateStruct(taskRecord{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     deref(task.DueDate),
	}); err != nil {
		return nil, err
	}
	if err := s.checkTaskLinks(ctx, scope, task); err != nil {
		return nil, err
	}

	if err := scope.UpdateTask(ctx, task); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

// SetTaskStatus moves a task across the board without touching other fields.
func (s *TaskService) SetTaskStatus(ctx context.Context, ownerID, id, status string) (*models.Task, error) {
	return s.UpdateTask(ctx, ownerID, id, TaskPatch{Status: &status})
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteTask(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

type taskRecord struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	Status      string `validate:"required,oneof=backlog todo in_progress done"`
	Priority    string `validate:"required,oneof=low medium high urgent"`
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
}

// checkTaskLinks rejects references to projects or sprints the owner does
// not have.
func (s *TaskService) checkTaskLinks(ctx context.Context, scope *db.OwnerScope, task *models.Task) error {
	if task.ProjectID != nil {
		if _, err := scope.FindProject(ctx, *task.ProjectID); err != nil {
			return linkError("project", err)
		}
	}
	if task.SprintID != nil {
		if _, err := scope.FindSprint(ctx, *task.SprintID); err != nil {
			return linkError("sprint", err)
		}
	}
	return nil
}

func linkError(kind string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return invalid("%s does not exist", kind)
	}
	return err
}

func (s *TaskService) CreateSprint(ctx context.Context, ownerID string, in SprintInput) (*models.Sprint, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Goal = strings.TrimSpace(in.Goal)
	if in.Status == "" {
		in.Status = models.SprintPlanning
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	sprint := &models.Sprint{
		Name:      in.Name,
		Goal:      in.Goal,
		ProjectID: optional(in.ProjectID),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    in.Status,
	}
	scope := s.store.ForOwner(ownerID)
	if err := checkSprint(ctx, scope, sprint); err != nil {
		return nil, err
	}
	if err := scope.CreateSprint(ctx, sprint); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return sprint, nil
}

// GetSprint returns the sprint with its tasks.
func (s *TaskService) GetSprint(ctx context.Context, ownerID, id string) (*SprintBoard, error) {
	scope := s.store.ForOwner(ownerID)
	sprint, err := scope.FindSprint(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return s.board(ctx, scope, sprint)
}

func (s *TaskService) ListSprints(ctx context.Context, ownerID, status string) ([]models.Sprint, error) {
	if err := validate.Var(status, "omitempty,oneof=planning active completed"); err != nil {
		return nil, invalid("status must be one of planning active completed")
	}

	sprints, err := s.store.ForOwner(ownerID).ListSprints(ctx, status)
	if err != nil {
		return nil, err
	}
	if sprints == nil {
		sprints = []models.Sprint{}
	}
	return sprints, nil
}

// ActiveSprint returns the most recently started active sprint and its
// tasks, or an empty board when none is active.
func (s *TaskService) ActiveSprint(ctx context.Context, ownerID string) (*SprintBoard, error) {
	scope := s.store.ForOwner(ownerID)
	sprint, err := scope.FindActiveSprint(ctx)
	if errors.Is(err, db.ErrNotFound) {
		return &SprintBoard{Tasks: []models.Task{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.board(ctx, scope, sprint)
}

func (s *TaskService) board(ctx context.Context, scope *db.OwnerScope, sprint *models.Sprint) (*SprintBoard, error) {
	tasks, err := scope.ListTasks(ctx, db.TaskFilter{SprintID: sprint.ID})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return &SprintBoard{Sprint: sprint, Tasks: tasks}, nil
}

func (s *TaskService) UpdateSprint(ctx context.Context, ownerID, id string, patch SprintPatch) (*models.Sprint, error) {
	scope := s.store.ForOwner(ownerID)
	sprint, err := scope.FindSprint(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Name != nil {
		sprint.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Goal != nil {
		sprint.Goal = strings.TrimSpace(*patch.Goal)
	}
	if patch.ProjectID != nil {
		sprint.ProjectID = optional(*patch.ProjectID)
	}
	if patch.StartDate != nil {
		sprint.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		sprint.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		sprint.Status = *patch.Status
	}

	if err := validateStruct(SprintInput{
		Name:      sprint.Name,
		Goal:      sprint.Goal,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		Status:    sprint.Status,
	}); err != nil {
		return nil, err
	}
	if sprint.Status == "" {
		return nil, invalid("status is required")
	}
	if err := checkSprint(ctx, scope, sprint); err != nil {
		return nil, err
	}

	if err := scope.UpdateSprint(ctx, sprint); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return sprint, nil
}

// DeleteSprint returns the sprint's tasks to the backlog of no sprint.
func (s *TaskService) DeleteSprint(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteSprint(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	s.logger.Info("sprint_deleted", zap.String("sprint_id", id), zap.String("owner_id", ownerID))
	return nil
}

// checkSprint needs dates already validated as YYYY-MM-DD.
func checkSprint(ctx context.Context, scope *db.OwnerScope, sprint *models.Sprint) error {
	start, _ := utils.ParseDay(sprint.StartDate)
	end, _ := utils.ParseDay(sprint.EndDate)
	if end.Before(start) {
		return invalid("end_date must not be before start_date")
	}
	if sprint.ProjectID != nil {
		if _, err := scope.FindProject(ctx, *sprint.ProjectID); err != nil {
			return linkError("project", err)
		}
	}
	return nil
}

func (s *TaskService) invalidate(ctx context.Context, ownerID string) {
	for _, prefix := range []string{"/api/projects", "/api/tasks", "/api/sprints"} {
		if err := s.cache.DeletePattern(ctx, cache.ResponsePattern(ownerID, prefix)); err != nil {
			s.logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
