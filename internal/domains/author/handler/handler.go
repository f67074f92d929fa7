package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/author/model"
	"bookreview-backend/internal/domains/author/service"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

// maxUploadBytes caps the multipart file read; the image processor enforces its own limit.
const maxUploadBytes = 8 << 20

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(s service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: s}
}

// CreateAuthor
// POST /api/v1/authors
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	author, err := h.service.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		respondAuthorError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, author)
}

// GetAuthor
// GET /api/v1/authors/:id
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	author, err := h.service.GetAuthor(c.Request.Context(), id)
	if err != nil {
		respondAuthorError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

// ListAuthors
// GET /api/v1/authors?page=&per_page=
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	page, perPage := utils.ParsePagination(c, model.DefaultPerPage, model.MaxPerPage)

	result, err := h.service.ListAuthors(c.Request.Context(), page, perPage)
	if err != nil {
		respondAuthorError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Authors, response.NewMeta(page, perPage, result.Total))
}

// UpdateAuthor
// PUT /api/v1/authors/:id
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	author, err := h.service.UpdateAuthor(c.Request.Context(), id, req)
	if err != nil {
		respondAuthorError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

// DeleteAuthor removes the author with all books, reviews and sales
// DELETE /api/v1/authors/:id
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAuthor(c.Request.Context(), id); err != nil {
		respondAuthorError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage expects a multipart field named "image"
// POST /api/v1/authors/:id/image
func (h *AuthorHandler) UploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "missing image file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unreadable image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.BadRequest(c, "unreadable image file")
		return
	}

	author, err := h.service.UploadImage(c.Request.Context(), id, data)
	if err != nil {
		respondAuthorError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid author ID")
		return uuid.Nil, false
	}
	return id, true
}

func respondAuthorError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return
	}

	var authorErr *model.AuthorError
	if errors.As(err, &authorErr) {
		switch authorErr.Code {
		case model.ErrCodeAuthorNotFound:
			response.ErrorResponse(c, http.StatusNotFound, authorErr.Code, authorErr.Message)
			return
		case model.ErrCodeInvalidInput, model.ErrCodeInvalidImage:
			response.ErrorResponse(c, http.StatusBadRequest, authorErr.Code, authorErr.Message)
			return
		case model.ErrCodeStorageUnavailable:
			response.ErrorResponse(c, http.StatusServiceUnavailable, authorErr.Code, authorErr.Message)
			return
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("author request failed")
	response.InternalServerError(c, "Internal server error")
}
