package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

// TaskHandler serves projects, tasks and sprints.
type TaskHandler struct {
	tasks   *services.TaskService
	logger  *zap.Logger
	metrics *utils.Metrics
}

func NewTaskHandler(tasks *services.TaskService, logger *zap.Logger, metrics *utils.Metrics) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger, metrics: metrics}
}

func (h *TaskHandler) GetProjects(c *gin.Context) {
	projects, err := h.tasks.ListProjects(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_projects", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *TaskHandler) GetProject(c *gin.Context) {
	project, err := h.tasks.GetProject(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *TaskHandler) CreateProject(c *gin.Context) {
	var input services.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_project", "invalid request body")
		return
	}

	project, err := h.tasks.CreateProject(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_project", err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *TaskHandler) UpdateProject(c *gin.Context) {
	var patch services.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_project", "invalid request body")
		return
	}

	project, err := h.tasks.UpdateProject(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *TaskHandler) DeleteProject(c *gin.Context) {
	if err := h.tasks.DeleteProject(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// GetTasks lists tasks with optional ?project_id, ?sprint_id, ?status and
// ?priority.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	var q services.TaskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.metrics, "get_tasks", "invalid query parameters")
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.tasks.GetTask(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_task", "invalid request body")
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var patch services.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_task", "invalid request body")
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus takes {"status": ...} and nothing else.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var body struct {
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == nil {
		badRequest(c, h.metrics, "update_task_status", "status is required")
		return
	}

	task, err := h.tasks.SetTaskStatus(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), *body.Status)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_task_status", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.tasks.DeleteTask(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func (h *TaskHandler) GetSprints(c *gin.Context) {
	sprints, err := h.tasks.ListSprints(c.Request.Context(), middleware.OwnerID(c), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_sprints", err)
		return
	}
	c.JSON(http.StatusOK, sprints)
}

func (h *TaskHandler) GetActiveSprint(c *gin.Context) {
	board, err := h.tasks.ActiveSprint(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_active_sprint", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *TaskHandler) GetSprint(c *gin.Context) {
	board, err := h.tasks.GetSprint(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_sprint", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *TaskHandler) CreateSprint(c *gin.Context) {
	var input services.SprintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_sprint", "invalid request body")
		return
	}

	sprint, err := h.tasks.CreateSprint(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_sprint", err)
		return
	}
	c.JSON(http.StatusCreated, sprint)
}

func (h *TaskHandler) UpdateSprint(c *gin.Context) {
	var patch services.SprintPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_sprint", "invalid request body")
		return
	}

	sprint, err := h.tasks.UpdateSprint(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_sprint", err)
		return
	}
	c.JSON(http.StatusOK, sprint)
}

func (h *TaskHandler) DeleteSprint(c *gin.Context) {
	if err := h.tasks.DeleteSprint(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_sprint", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sprint deleted"})
}
