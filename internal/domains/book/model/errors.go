package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/shared/response"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrInvalidDate    = errors.New("invalid publication date")
	ErrBookInUse      = errors.New("book still has reviews or sales")
)

var bookErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Message: "Book not found",
	},
	ErrAuthorNotFound: {
		Status:  http.StatusBadRequest,
		Code:    "AUTHOR_NOT_FOUND",
		Message: "The specified author does not exist",
	},
	ErrInvalidDate: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_DATE",
		Message: "publication_date must be YYYY-MM-DD",
	},
	ErrBookInUse: {
		Status:  http.StatusConflict,
		Code:    "BOOK_IN_USE",
		Message: "Book gained reviews or sales while being deleted, retry the request",
	},
}

// HandleBookError writes the response for err and reports whether it did.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for target, mapped := range bookErrorMap {
		if errors.Is(err, target) {
			response.ErrorResponse(c, mapped.Status, mapped.Code, mapped.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("book request failed")
	response.InternalServerError(c, "Internal server error")
	return true
}
