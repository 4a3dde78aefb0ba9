package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/middleware"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/payment"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/store"
)

type PaymentHandler struct {
	payments *payment.Service
	stores   *store.Stores
	clk      clock.Clock
}

func NewPaymentHandler(payments *payment.Service, stores *store.Stores, clk clock.Clock) *PaymentHandler {
	return &PaymentHandler{payments: payments, stores: stores, clk: clk}
}

type recordPaymentRequest struct {
	AmountPaid  float64 `json:"amountPaid" binding:"required"`
	PaymentDate string  `json:"paymentDate"`
}

// Record adds money against a payment.
func (h *PaymentHandler) Record(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var paymentDate *time.Time
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, use YYYY-MM-DD"})
			return
		}
		paymentDate = &parsed
	}

	updated, err := h.payments.RecordPayment(c.Request.Context(), id, middleware.UserID(c), req.AmountPaid, paymentDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListByLease returns every payment on a lease, oldest first. Visible only
// to the lease's tenant and manager.
func (h *PaymentHandler) ListByLease(c *gin.Context) {
	leaseID, ok := parseID(c, "leaseId")
	if !ok {
		return
	}
	payments, err := h.payments.ListByLease(c.Request.Context(), leaseID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListByProperty returns every payment across a property's leases, for the
// property's manager.
func (h *PaymentHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}
	payments, err := h.payments.ListByProperty(c.Request.Context(), propertyID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// CurrentStatus reports the obligation currently in force for a lease.
func (h *PaymentHandler) CurrentStatus(c *gin.Context) {
	leaseID, ok := parseID(c, "leaseId")
	if !ok {
		return
	}
	status, err := h.payments.CurrentStatus(c.Request.Context(), leaseID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// CheckOverdue triggers the overdue sweep manually. The sweep itself is
// idempotent, so a manager mashing the button is harmless.
func (h *PaymentHandler) CheckOverdue(c *gin.Context) {
	transitioned, err := h.payments.SweepOverdue(c.Request.Context(), h.clk.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("%d payments marked overdue", len(transitioned)),
		"overduePayments": transitioned,
	})
}

// Export writes all payments to an Excel workbook.
func (h *PaymentHandler) Export(c *gin.Context) {
	payments, err := h.stores.Payments.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Payments"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Payment ID", "Lease ID", "Property ID", "Amount Due", "Amount Paid", "Due Date", "Payment Date", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, p := range payments {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.LeaseID)
		if p.Lease != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Lease.PropertyID)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.AmountDue)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.AmountPaid)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.DueDate.Format("2006-01-02"))
		if p.PaymentDate != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.PaymentDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), p.PaymentStatus)
	}

	fileName := fmt.Sprintf("payments_%s.xlsx", h.clk.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
