package handler

import (
	"net/http"
	"strconv"

	"oneflow/internal/middleware"
	"oneflow/internal/model"
	"oneflow/internal/service"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects *service.ProjectService
	finance  *service.FinanceService
}

func NewProjectHandler(projects *service.ProjectService, finance *service.FinanceService) *ProjectHandler {
	return &ProjectHandler{projects: projects, finance: finance}
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	listOK(c, len(projects), projects)
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var p model.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.projects.Create(c.Request.Context(), &p); err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var in model.Project
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, err := h.projects.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/projects/:id/financials
func (h *ProjectHandler) Financials(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	f, err := h.finance.Rollup(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, f)
}

// GET /api/projects/:id/team
func (h *ProjectHandler) ListTeam(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	team, err := h.projects.ListTeam(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if team == nil {
		team = []model.ProjectTeam{}
	}
	listOK(c, len(team), team)
}

// POST /api/projects/:id/team  body: {"user_id": 3}
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	m, err := h.projects.AddMember(c.Request.Context(), id, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, m)
}

// DELETE /api/projects/:id/team/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.projects.RemoveMember(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// pathID parses :id and writes the 400 itself on garbage input.
func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return id, nil
}
