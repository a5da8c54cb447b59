package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apprental "github.com/xiebiao/dvdrental/internal/application/rental"
	"github.com/xiebiao/dvdrental/internal/domain/paging"
	"github.com/xiebiao/dvdrental/internal/interface/http/dto"
	"github.com/xiebiao/dvdrental/pkg/response"
)

// RentalHandler serves the rental lifecycle.
type RentalHandler struct {
	create  *apprental.CreateRentalUseCase
	ret     *apprental.ReturnRentalUseCase
	cancel  *apprental.CancelRentalUseCase
	queries *apprental.QueryRentalsUseCase
}

func NewRentalHandler(
	create *apprental.CreateRentalUseCase,
	ret *apprental.ReturnRentalUseCase,
	cancel *apprental.CancelRentalUseCase,
	queries *apprental.QueryRentalsUseCase,
) *RentalHandler {
	return &RentalHandler{create: create, ret: ret, cancel: cancel, queries: queries}
}

// Create opens a rental for an inventory unit.
// @Summary      Create rental
// @Description  Rents an inventory unit to a customer. Fails when the unit already has an open rental.
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay protection key"
// @Param        request body dto.CreateRentalRequest true "Rental"
// @Success      201 {object} response.Response{data=dto.RentalCreatedResponse}
// @Failure      400 {object} response.Response "Missing fields or unit already rented"
// @Failure      500 {object} response.Response "Unknown customer, staff or unit"
// @Router       /api/rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	var req dto.CreateRentalRequest
	// An empty body falls through to the missing-fields check.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, bindError(err))
		return
	}

	detail, err := h.create.Execute(c.Request.Context(), apprental.CreateRentalRequest{
		CustomerID:  req.CustomerID,
		InventoryID: req.InventoryID,
		StaffID:     req.StaffID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Rental created successfully", dto.NewRentalCreatedResponse(detail))
}

// List pages through rentals, newest first.
// @Summary      List rentals
// @Tags         rentals
// @Produce      json
// @Param        page   query int    false "Page (1-based)" default(1)
// @Param        limit  query int    false "Page size, max 100" default(20)
// @Param        status query string false "active or returned" Enums(active, returned)
// @Success      200 {object} response.Response{data=[]dto.RentalListItem}
// @Failure      400 {object} response.Response
// @Router       /api/rentals [get]
func (h *RentalHandler) List(c *gin.Context) {
	var q dto.ListRentalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	page, pr, err := h.queries.List(c.Request.Context(), apprental.ListRentalsRequest{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: q.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewRentalList(page.Items), pagination(pr, page.Total))
}

// Get returns one rental with customer, film and staff details.
// @Summary      Get rental
// @Tags         rentals
// @Produce      json
// @Param        id path int true "Rental id"
// @Success      200 {object} response.Response{data=dto.RentalDetailResponse}
// @Failure      404 {object} response.Response
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.queries.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewRentalDetailResponse(detail))
}

// Return closes a rental and records its payment.
// @Summary      Return rental
// @Description  Sets the return date and bills the film's rental rate once. payment is null when the rental was already billed.
// @Tags         rentals
// @Produce      json
// @Param        Idempotency-Key header string false "Replay protection key"
// @Param        id path int true "Rental id"
// @Success      200 {object} response.Response{data=dto.ReturnResponse}
// @Failure      400 {object} response.Response "Already returned"
// @Failure      404 {object} response.Response
// @Router       /api/rentals/{id}/return [put]
func (h *RentalHandler) Return(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.ret.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "DVD returned successfully", dto.NewReturnResponse(result))
}

// Cancel deletes a rental together with its payments.
// @Summary      Cancel rental
// @Tags         rentals
// @Produce      json
// @Param        Idempotency-Key header string false "Replay protection key"
// @Param        id path int true "Rental id"
// @Success      200 {object} response.Response{data=dto.CancelResponse}
// @Failure      404 {object} response.Response
// @Router       /api/rentals/{id} [delete]
func (h *RentalHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.cancel.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Rental cancelled successfully", dto.CancelResponse{
		RentalID:    result.RentalID,
		CancelledAt: result.CancelledAt,
	})
}

// ByCustomer lists every rental of one customer, newest first.
// @Summary      Rentals of a customer
// @Tags         rentals
// @Produce      json
// @Param        customer_id path int true "Customer id"
// @Success      200 {object} response.Response{data=[]dto.CustomerRentalItem}
// @Router       /api/rentals/customer/{customer_id} [get]
func (h *RentalHandler) ByCustomer(c *gin.Context) {
	id, err := pathID(c, "customer_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.queries.ByCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithTotal(c, dto.NewCustomerRentalList(items), len(items))
}

func pagination(pr paging.Request, total int64) *response.Pagination {
	return response.NewPagination(pr.Page, pr.Limit, total)
}
