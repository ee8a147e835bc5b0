package handler

import (
	"net/http"
	"strconv"

	"oneflow/internal/middleware"
	"oneflow/internal/model"
	"oneflow/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct{ tasks *service.TaskService }

func NewTaskHandler(tasks *service.TaskService) *TaskHandler { return &TaskHandler{tasks: tasks} }

// GET /api/tasks?project_id=&status=
func (h *TaskHandler) List(c *gin.Context) {
	projectID, _ := strconv.Atoi(c.Query("project_id"))
	f := service.TaskFilter{ProjectID: projectID, Status: c.Query("status")}
	tasks, err := h.tasks.List(c.Request.Context(), middleware.Caller(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	listOK(c, len(tasks), tasks)
}

// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, t)
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var t model.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.tasks.Create(c.Request.Context(), &t); err != nil {
		fail(c, err)
		return
	}
	ok(c, t)
}

// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var in model.Task
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.tasks.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, t)
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
