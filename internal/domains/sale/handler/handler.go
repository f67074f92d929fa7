package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/sale/model"
	"bookreview-backend/internal/domains/sale/service"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

type SaleHandler struct {
	saleService service.ServiceInterface
}

func NewSaleHandler(saleService service.ServiceInterface) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateSale - POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req model.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), req)
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sale)
}

// GetSale - GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// GetBookSales - GET /api/v1/books/:id/sales
func (h *SaleHandler) GetBookSales(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}
	page, perPage := utils.ParsePagination(c, model.DefaultPerPage, model.MaxPerPage)

	sales, total, err := h.saleService.ListBookSales(c.Request.Context(), bookID, page, perPage)
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, sales, response.NewMeta(page, perPage, total))
}

// UpdateSale - PUT /api/v1/sales/:id
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req model.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), id, req)
	if err != nil {
		respondSaleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale)
}

// DeleteSale - DELETE /api/v1/sales/:id
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		respondSaleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondSaleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return
	}

	var saleErr *model.SaleError
	if errors.As(err, &saleErr) {
		switch saleErr.Code {
		case model.ErrCodeSaleNotFound:
			response.ErrorResponse(c, http.StatusNotFound, saleErr.Code, saleErr.Message)
			return
		case model.ErrCodeBookNotFound:
			response.ErrorResponse(c, http.StatusBadRequest, saleErr.Code, saleErr.Message)
			return
		case model.ErrCodeDuplicateSale:
			response.ErrorResponse(c, http.StatusConflict, saleErr.Code, saleErr.Message)
			return
		case model.ErrCodeRecompute:
			log.Error().Err(err).Msg("sale saved without total recompute")
			response.ErrorResponse(c, http.StatusInternalServerError, saleErr.Code, saleErr.Message)
			return
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("sale request failed")
	response.InternalServerError(c, "Internal server error")
}
