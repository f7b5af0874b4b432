package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

// TasksController reports on enqueued bulk batches.
type TasksController struct {
	status TaskStatusReader
}

func NewTasksController(status TaskStatusReader) *TasksController {
	return &TasksController{status: status}
}

// TaskInfo represents basic information about a task.
type TaskInfo struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GetTaskStatus handles GET /api/v1/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.status.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondError(c, http.StatusNotFound, "task_not_found", "task not found")
		return
	}

	c.JSON(http.StatusOK, TaskInfo{ID: taskID, Status: tasks.StatusName(status)})
}
