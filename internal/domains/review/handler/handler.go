package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview creates new review
// POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Call service
	review, err := h.reviewService.CreateReview(c.Request.Context(), req)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	// Step 3: Return success
	response.Success(c, http.StatusCreated, review)
}

// GetReview gets review by ID
// GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// UpdateReview updates review
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	// Step 1: Parse review ID
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	// Step 2: Bind request body
	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Call service
	review, err := h.reviewService.UpdateReview(c.Request.Context(), reviewID, req)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// DeleteReview deletes review
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID); err != nil {
		respondReviewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBookReviews lists reviews of a book
// GET /api/v1/books/:id/reviews
func (h *ReviewHandler) GetBookReviews(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}
	page, perPage := utils.ParsePagination(c, model.DefaultPerPage, model.MaxPerPage)

	reviews, total, err := h.reviewService.ListBookReviews(c.Request.Context(), bookID, page, perPage)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, response.NewMeta(page, perPage, total))
}

// respondReviewError maps review error to HTTP status code
func respondReviewError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return
	}

	var reviewErr *model.ReviewError
	if errors.As(err, &reviewErr) {
		switch reviewErr.Code {
		case model.ErrCodeReviewNotFound:
			response.ErrorResponse(c, http.StatusNotFound, reviewErr.Code, reviewErr.Message)
			return
		case model.ErrCodeBookNotFound, model.ErrCodeInvalidScore:
			response.ErrorResponse(c, http.StatusBadRequest, reviewErr.Code, reviewErr.Message)
			return
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("review request failed")
	response.InternalServerError(c, "Internal server error")
}
