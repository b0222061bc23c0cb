package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evolvetodo/todo-api/internal/dto"
	apierrors "github.com/evolvetodo/todo-api/internal/errors"
	"github.com/evolvetodo/todo-api/internal/middleware"
	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/recurrence"
	"github.com/evolvetodo/todo-api/internal/services"
)

// TemplateHandler exposes recurring-template CRUD over HTTP.
type TemplateHandler struct {
	templateService *services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// ListTemplates returns the caller's recurring templates.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	templates, err := h.templateService.List(userID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	items := make([]dto.TemplateDTO, len(templates))
	for i, tmpl := range templates {
		items[i] = dto.ToTemplateDTO(tmpl)
	}

	c.JSON(http.StatusOK, gin.H{"templates": items})
}

// CreateTemplate creates a new recurring template owned by the caller.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTemplateRequest struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		Recurrence  recurrence.Rule     `json:"recurrence"`
		NextDueAt   time.Time           `json:"next_due_at"`
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.Create(userID, services.CreateTemplateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Recurrence:  req.Recurrence,
		NextDueAt:   req.NextDueAt,
	})
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTemplateDTO(*tmpl))
}

// GetTemplate returns one of the caller's templates.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tmpl, err := h.templateService.Get(userID, templateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTO(*tmpl))
}

// UpdateTemplate partially updates one of the caller's templates.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTemplateRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Priority    *models.TaskPriority `json:"priority"`
		Recurrence  *recurrence.Rule     `json:"recurrence"`
		NextDueAt   *time.Time           `json:"next_due_at"`
		IsActive    *bool                `json:"is_active"`
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.Update(userID, templateID, services.UpdateTemplateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Recurrence:  req.Recurrence,
		NextDueAt:   req.NextDueAt,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTO(*tmpl))
}

// DeleteTemplate removes one of the caller's templates.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(userID, templateID); err != nil {
		respondTemplateError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTemplateError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, verr.Message, verr)
	case errors.Is(err, services.ErrTemplateForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrTemplateNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
