package handler

import (
	"errors"
	"net/http"

	"oneflow/internal/model"
	"oneflow/internal/service"

	"github.com/gin-gonic/gin"
)

// fail maps service errors onto the response codes the API promises:
// 404 unknown ids, 403 role violations, 400 bad input, 500 the rest.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalid):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func listOK(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, model.ListResponse{Success: true, Count: count, Data: data})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
