package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/report/model"
	"bookreview-backend/internal/domains/report/service"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ServiceInterface
}

func NewReportHandler(s service.ServiceInterface) *ReportHandler {
	return &ReportHandler{service: s}
}

// AuthorsSummary GET /api/v1/reports/authors-summary
func (h *ReportHandler) AuthorsSummary(c *gin.Context) {
	summary, err := h.service.AuthorsSummary(c.Request.Context())
	if err != nil {
		h.internalError(c, "authors summary", err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// TopRated GET /api/v1/reports/top-rated
func (h *ReportHandler) TopRated(c *gin.Context) {
	books, err := h.service.TopRatedBooks(c.Request.Context())
	if err != nil {
		h.internalError(c, "top rated", err)
		return
	}
	response.Success(c, http.StatusOK, books)
}

// TopSelling GET /api/v1/reports/top-selling
func (h *ReportHandler) TopSelling(c *gin.Context) {
	books, err := h.service.TopSellingBooks(c.Request.Context())
	if err != nil {
		h.internalError(c, "top selling", err)
		return
	}
	response.Success(c, http.StatusOK, books)
}

// ExportTopSelling GET /api/v1/reports/top-selling/export
func (h *ReportHandler) ExportTopSelling(c *gin.Context) {
	export, err := h.service.ExportTopSelling(c.Request.Context())
	if err != nil {
		h.internalError(c, "top selling export", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	c.Data(http.StatusOK, xlsxContentType, export.Content)
}

// SearchBooks GET /api/v1/search/books?q=&page=&per_page=
func (h *ReportHandler) SearchBooks(c *gin.Context) {
	page, perPage := utils.ParsePagination(c, model.DefaultSearchPerPage, model.MaxSearchPerPage)

	results, err := h.service.SearchBooks(c.Request.Context(), c.Query("q"), page, perPage)
	if err != nil {
		h.internalError(c, "search", err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// IndexSearch GET /api/v1/search/index?q=&limit=
func (h *ReportHandler) IndexSearch(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	hits, err := h.service.IndexSearch(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.internalError(c, "index search", err)
		return
	}
	response.Success(c, http.StatusOK, hits)
}

// BookAverageScore GET /api/v1/books/:id/avg
func (h *ReportHandler) BookAverageScore(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	score, err := h.service.BookAverageScore(c.Request.Context(), bookID)
	if err != nil {
		if service.IsNotFound(err) {
			response.NotFound(c, "Book not found")
			return
		}
		h.internalError(c, "book average score", err)
		return
	}
	response.Success(c, http.StatusOK, score)
}

func (h *ReportHandler) internalError(c *gin.Context, view string, err error) {
	log.Error().Err(err).Str("view", view).Msg("report failed")
	response.InternalServerError(c, "Failed to compute "+view)
}
