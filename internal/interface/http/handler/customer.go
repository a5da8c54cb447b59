package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/xiebiao/dvdrental/internal/application/customer"
	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/interface/http/dto"
	"github.com/xiebiao/dvdrental/pkg/response"
)

type CustomerHandler struct {
	customers *appcustomer.CustomerQueriesUseCase
}

func NewCustomerHandler(customers *appcustomer.CustomerQueriesUseCase) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List pages through customers ordered by last name.
// @Summary      List customers
// @Description  active=true lists active customers; any other value lists inactive ones.
// @Tags         customers
// @Produce      json
// @Param        page   query int    false "Page (1-based)" default(1)
// @Param        limit  query int    false "Page size, max 100" default(20)
// @Param        active query string false "Active flag"
// @Success      200 {object} response.Response{data=[]dto.CustomerItem}
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var q dto.ListCustomersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}
	raw, present := c.GetQuery("active")

	page, pr, err := h.customers.List(c.Request.Context(), appcustomer.ListCustomersRequest{
		Page:   q.Page,
		Limit:  q.Limit,
		Active: customer.ParseActive(raw, present),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewCustomerList(page.Items), pagination(pr, page.Total))
}

// Get returns a customer with address, rental counts and total spent.
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer id"
// @Success      200 {object} response.Response{data=dto.CustomerDetailResponse}
// @Failure      404 {object} response.Response
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	d, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCustomerDetailResponse(d))
}

// Search matches first name, last name or email.
// @Summary      Search customers
// @Tags         customers
// @Produce      json
// @Param        q query string true "Text to match"
// @Success      200 {object} response.Response{data=[]dto.CustomerMatch}
// @Failure      400 {object} response.Response "Missing q"
// @Router       /api/customers/search/query [get]
func (h *CustomerHandler) Search(c *gin.Context) {
	matches, term, err := h.customers.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessSearch(c, term, dto.NewCustomerMatches(matches), len(matches))
}
