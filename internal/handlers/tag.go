package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evolvetodo/todo-api/internal/dto"
	apierrors "github.com/evolvetodo/todo-api/internal/errors"
	"github.com/evolvetodo/todo-api/internal/middleware"
	"github.com/evolvetodo/todo-api/internal/services"
)

// TagHandler exposes the tag service over HTTP.
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// ListTags returns the caller's tags.
func (h *TagHandler) ListTags(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tags, err := h.tagService.List(userID)
	if err != nil {
		respondTagError(c, err)
		return
	}

	items := make([]dto.TagDTO, len(tags))
	for i, tag := range tags {
		items[i] = dto.ToTagDTO(tag)
	}

	c.JSON(http.StatusOK, gin.H{"tags": items})
}

// CreateTag creates a new tag owned by the caller.
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTagRequest struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.Create(userID, services.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}

// UpdateTag renames or recolors one of the caller's tags.
func (h *TagHandler) UpdateTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTagRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.Update(userID, tagID, services.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTO(*tag))
}

// DeleteTag removes one of the caller's tags.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.Delete(userID, tagID); err != nil {
		respondTagError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTagError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, verr.Message, verr)
	case errors.Is(err, services.ErrTagNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTagForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrTagNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
