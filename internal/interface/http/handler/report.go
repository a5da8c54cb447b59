package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/dvdrental/internal/application/report"
	"github.com/xiebiao/dvdrental/internal/interface/http/dto"
	"github.com/xiebiao/dvdrental/pkg/response"
)

// ReportHandler serves the read-only reports. Report bodies carry their
// sections at the top level instead of under "data".
type ReportHandler struct {
	reports *appreport.ReportsUseCase
}

func NewReportHandler(reports *appreport.ReportsUseCase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// CustomerRentals reports a customer's rental history with payments.
// @Summary      Customer rental history
// @Tags         reports
// @Produce      json
// @Param        id     path  int    true  "Customer id"
// @Param        status query string false "active or returned" Enums(active, returned)
// @Param        sort   query string false "Rental date order" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.CustomerRentalsReport
// @Failure      404 {object} response.Response
// @Router       /api/reports/customer/{id}/rentals [get]
func (h *ReportHandler) CustomerRentals(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	r, err := h.reports.CustomerRentals(c.Request.Context(), appreport.CustomerRentalsRequest{
		CustomerID: id,
		Status:     c.Query("status"),
		Sort:       c.Query("sort"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCustomerRentalsReport(r))
}

// Unreturned lists open rentals with urgency tiers.
// @Summary      Unreturned DVDs
// @Tags         reports
// @Produce      json
// @Param        days_overdue query int    false "Only rentals out at least this many days"
// @Param        sort_by      query string false "Ordering" Enums(days, customer) default(days)
// @Success      200 {object} dto.OverdueReport
// @Failure      400 {object} response.Response
// @Router       /api/reports/unreturned [get]
func (h *ReportHandler) Unreturned(c *gin.Context) {
	r, err := h.reports.Overdue(c.Request.Context(), appreport.OverdueRequest{
		DaysOverdue: c.Query("days_overdue"),
		SortBy:      c.Query("sort_by"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOverdueReport(r))
}

// TopFilms ranks films by rental count.
// @Summary      Most rented films
// @Tags         reports
// @Produce      json
// @Param        limit       query int    false "Max rows, capped at 100" default(10)
// @Param        category    query string false "Category name"
// @Param        min_rentals query int    false "Minimum rental count"
// @Success      200 {object} dto.TopFilmsReport
// @Failure      400 {object} response.Response
// @Router       /api/reports/top-films [get]
func (h *ReportHandler) TopFilms(c *gin.Context) {
	r, err := h.reports.TopFilms(c.Request.Context(), appreport.TopFilmsRequest{
		Limit:      c.Query("limit"),
		Category:   c.Query("category"),
		MinRentals: c.Query("min_rentals"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTopFilmsReport(r))
}

// StaffEarnings aggregates rentals and payments per staff member.
// @Summary      Staff earnings
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD or RFC 3339"
// @Param        end_date   query string false "YYYY-MM-DD (inclusive) or RFC 3339"
// @Param        store_id   query int    false "Store id"
// @Success      200 {object} dto.StaffEarningsReport
// @Failure      400 {object} response.Response
// @Router       /api/reports/staff-earnings [get]
func (h *ReportHandler) StaffEarnings(c *gin.Context) {
	r, err := h.reports.StaffEarnings(c.Request.Context(), appreport.StaffEarningsRequest{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		StoreID:   c.Query("store_id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStaffEarningsReport(r))
}

// Summary is the dashboard snapshot.
// @Summary      System summary
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.SummaryReport
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	r, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryReport(r))
}
