package handler

import (
	"net/http"
	"strconv"

	"oneflow/internal/middleware"
	"oneflow/internal/model"
	"oneflow/internal/service"

	"github.com/gin-gonic/gin"
)

type TimesheetHandler struct{ timesheets *service.TimesheetService }

func NewTimesheetHandler(ts *service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheets: ts}
}

// GET /api/timesheets?project_id=&from=&to=
func (h *TimesheetHandler) List(c *gin.Context) {
	projectID, _ := strconv.Atoi(c.Query("project_id"))
	f := service.TimesheetFilter{
		ProjectID: projectID,
		From:      c.Query("from"),
		To:        c.Query("to"),
	}
	entries, err := h.timesheets.List(c.Request.Context(), middleware.Caller(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	if entries == nil {
		entries = []model.Timesheet{}
	}
	listOK(c, len(entries), entries)
}

// POST /api/timesheets
func (h *TimesheetHandler) Create(c *gin.Context) {
	var ts model.Timesheet
	if err := c.ShouldBindJSON(&ts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.timesheets.Create(c.Request.Context(), middleware.Caller(c), &ts); err != nil {
		fail(c, err)
		return
	}
	ok(c, ts)
}

// PUT /api/timesheets/:id
func (h *TimesheetHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var req struct {
		Date     string   `json:"date"`
		Hours    *float64 `json:"hours"`
		Billable *bool    `json:"billable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	patch := service.TimesheetPatch{Date: req.Date, Hours: req.Hours, Billable: req.Billable}
	ts, err := h.timesheets.Update(c.Request.Context(), middleware.Caller(c), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ts)
}

// PUT /api/timesheets/:id/status
func (h *TimesheetHandler) Transition(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var req model.TimesheetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ts, err := h.timesheets.Transition(c.Request.Context(), middleware.Caller(c), id, req.Status, req.Hours)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ts)
}

// DELETE /api/timesheets/:id
func (h *TimesheetHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.timesheets.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/timesheets/summary?from=&to=
func (h *TimesheetHandler) Summary(c *gin.Context) {
	sum, err := h.timesheets.Summary(c.Request.Context(), middleware.Caller(c), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, sum)
}
