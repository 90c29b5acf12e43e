package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/tasks"
)

// TaskQueue enqueues tasks and reports their status. Implemented by
// *tasks.Client.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue              TaskQueue
	auditRetentionDays int
}

func NewTasksController(queue TaskQueue, auditRetentionDays int) *TasksController {
	return &TasksController{queue: queue, auditRetentionDays: auditRetentionDays}
}

// ListTaskTypes returns the task types that can be triggered.
// GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"task_types": tasks.TaskTypes(),
	})
}

// GetTaskStatus returns the status of a specific task.
// GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}

// RunTask enqueues a task of the given type with default arguments.
// POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	task, err := tasks.NewTask(taskType, tc.auditRetentionDays)
	if err != nil {
		if errors.Is(err, tasks.ErrUnknownTaskType) {
			respondBadRequest(c, "unknown task type: "+taskType)
			return
		}
		respondInternalError(c, err, "run task")
		return
	}

	id, err := tc.queue.Enqueue(c.Request.Context(), task)
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": id,
		"type":    taskType,
	})
}
