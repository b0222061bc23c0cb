package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evolvetodo/todo-api/internal/dto"
	apierrors "github.com/evolvetodo/todo-api/internal/errors"
	"github.com/evolvetodo/todo-api/internal/events"
	"github.com/evolvetodo/todo-api/internal/middleware"
	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/recurrence"
	"github.com/evolvetodo/todo-api/internal/repository"
	"github.com/evolvetodo/todo-api/internal/services"
	"github.com/evolvetodo/todo-api/internal/utils"
)

// TaskHandler exposes the task domain service over HTTP.
type TaskHandler struct {
	taskService *services.TaskService
	publisher   *events.Publisher
}

// NewTaskHandler creates a new TaskHandler. publisher may be nil.
func NewTaskHandler(taskService *services.TaskService, publisher *events.Publisher) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		publisher:   publisher,
	}
}

// ListTasks returns the caller's tasks with filtering, sorting and pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{
		Search: c.Query("search"),
		SortBy: repository.TaskSort(c.DefaultQuery("sort", string(repository.SortByCreatedAt))),
	}

	if v := c.Query("is_complete"); v != "" {
		isComplete, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid is_complete")
			return
		}
		input.IsComplete = &isComplete
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		if !priority.Valid() {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		input.Priority = &priority
	}
	if v := c.Query("tag_id"); v != "" {
		tagID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid tag_id")
			return
		}
		input.TagID = &tagID
	}

	params := utils.GetPaginationParams(c)
	input.Limit = params.Limit
	input.Offset = params.Offset

	tasks, total, err := h.taskService.List(userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, total, params.Limit, params.Offset))
}

// CreateTask creates a new task owned by the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		DueAt       *time.Time          `json:"due_at"`
		RemindAt    *time.Time          `json:"remind_at"`
		Recurrence  *recurrence.Rule    `json:"recurrence"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueAt:       req.DueAt,
		RemindAt:    req.RemindAt,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.publisher.PublishTask(events.TaskCreated, task, userID)

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns one of the caller's tasks.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask partially updates one of the caller's tasks. The raw body is
// inspected so an explicit null can clear an optional field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, verr := buildUpdateInput(rawReq)
	if verr != nil {
		apierrors.BadRequestWithDetails(c, verr.Message, verr)
		return
	}

	task, err := h.taskService.Update(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.publisher.PublishTask(events.TaskUpdated, task, userID)

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CompleteTask sets the task's completion flag. Setting the same value twice
// still succeeds.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CompleteRequest struct {
		IsComplete *bool `json:"is_complete" binding:"required"`
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.SetComplete(userID, taskID, *req.IsComplete)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	eventType := events.TaskReopened
	if task.IsComplete {
		eventType = events.TaskCompleted
	}
	h.publisher.PublishTask(eventType, task, userID)

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes one of the caller's tasks.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	if err := h.taskService.Delete(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	h.publisher.PublishTask(events.TaskDeleted, task, userID)

	c.Status(http.StatusNoContent)
}

// AttachTag links a tag to a task; both must belong to the caller.
func (h *TaskHandler) AttachTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	if err := h.taskService.AttachTag(userID, taskID, tagID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DetachTag removes a tag link from a task.
func (h *TaskHandler) DetachTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	if err := h.taskService.DetachTag(userID, taskID, tagID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// buildUpdateInput turns a raw PATCH body into an UpdateTaskInput, keeping the
// absent / present / explicit-null distinction for optional fields.
func buildUpdateInput(rawReq map[string]any) (services.UpdateTaskInput, *services.ValidationError) {
	var input services.UpdateTaskInput

	if v, ok := rawReq["title"]; ok {
		s, ok := v.(string)
		if !ok {
			return input, &services.ValidationError{Field: "title", Message: "title must be a string"}
		}
		input.Title = &s
	}
	if v, ok := rawReq["description"]; ok {
		s, ok := v.(string)
		if !ok {
			return input, &services.ValidationError{Field: "description", Message: "description must be a string"}
		}
		input.Description = &s
	}
	if v, ok := rawReq["priority"]; ok {
		s, ok := v.(string)
		if !ok {
			return input, &services.ValidationError{Field: "priority", Message: "priority must be a string"}
		}
		priority := models.TaskPriority(s)
		input.Priority = &priority
	}
	if v, ok := rawReq["due_at"]; ok {
		t, clear, verr := parseTimeField("due_at", v)
		if verr != nil {
			return input, verr
		}
		input.DueAt = t
		input.ClearDueAt = clear
	}
	if v, ok := rawReq["remind_at"]; ok {
		t, clear, verr := parseTimeField("remind_at", v)
		if verr != nil {
			return input, verr
		}
		input.RemindAt = t
		input.ClearRemindAt = clear
	}
	if v, ok := rawReq["recurrence"]; ok {
		if v == nil {
			input.ClearRecurrence = true
		} else {
			rule, verr := parseRecurrenceField(v)
			if verr != nil {
				return input, verr
			}
			input.Recurrence = rule
		}
	}

	return input, nil
}

func parseTimeField(field string, v any) (*time.Time, bool, *services.ValidationError) {
	if v == nil {
		return nil, true, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, false, &services.ValidationError{Field: field, Message: field + " must be an RFC3339 timestamp or null"}
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false, &services.ValidationError{Field: field, Message: field + " must be an RFC3339 timestamp"}
	}
	return &parsed, false, nil
}

func parseRecurrenceField(v any) (*recurrence.Rule, *services.ValidationError) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &services.ValidationError{Field: "recurrence", Message: "recurrence must be an object or null"}
	}

	var rule recurrence.Rule
	if s, ok := obj["frequency"].(string); ok {
		rule.Frequency = recurrence.Frequency(s)
	}
	if n, ok := obj["interval"].(float64); ok {
		rule.Interval = int(n)
	}
	if days, ok := obj["days_of_week"].([]any); ok {
		for _, d := range days {
			n, ok := d.(float64)
			if !ok {
				return nil, &services.ValidationError{Field: "recurrence", Message: "days_of_week must be numbers"}
			}
			rule.DaysOfWeek = append(rule.DaysOfWeek, time.Weekday(int(n)))
		}
	}
	if s, ok := obj["until"].(string); ok {
		until, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, &services.ValidationError{Field: "recurrence", Message: "until must be an RFC3339 timestamp"}
		}
		rule.Until = &until
	}

	return &rule, nil
}

// respondTaskError maps domain errors to HTTP statuses 1:1.
func respondTaskError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, verr.Message, verr)
	case errors.Is(err, services.ErrTaskForbidden),
		errors.Is(err, services.ErrTagForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTagNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
