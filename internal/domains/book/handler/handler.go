package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

// Handler - book HTTP endpoints
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateBook - POST /api/v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// GetBook - GET /api/v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, book)
}

// ListBooks - GET /api/v1/books?author_id=&page=&per_page=
func (h *Handler) ListBooks(c *gin.Context) {
	var authorID *uuid.UUID
	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid author_id")
			return
		}
		authorID = &id
	}
	page, perPage := utils.ParsePagination(c, model.DefaultPerPage, model.MaxPerPage)

	books, total, err := h.service.ListBooks(c.Request.Context(), authorID, page, perPage)
	if model.HandleBookError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, response.NewMeta(page, perPage, total))
}

// UpdateBook - PUT /api/v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook - DELETE /api/v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	if model.HandleBookError(c, h.service.DeleteBook(c.Request.Context(), id)) {
		return
	}

	c.Status(http.StatusNoContent)
}
