package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/middleware"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/termination"
)

type TerminationHandler struct {
	workflow *termination.Workflow
}

func NewTerminationHandler(workflow *termination.Workflow) *TerminationHandler {
	return &TerminationHandler{workflow: workflow}
}

type submitRequest struct {
	LeaseID          uint   `json:"leaseId" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
	RequestedEndDate string `json:"requestedEndDate" binding:"required"`
}

// Submit files a termination request for one of the caller's active leases.
func (h *TerminationHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	requestedEnd, err := time.Parse("2006-01-02", req.RequestedEndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requestedEndDate, use YYYY-MM-DD"})
		return
	}

	created, err := h.workflow.Submit(c.Request.Context(), req.LeaseID, middleware.UserID(c), req.Reason, requestedEnd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns the caller's requests: a tenant sees their own submissions, a
// manager sees the queue for their properties.
func (h *TerminationHandler) List(c *gin.Context) {
	requests, err := h.workflow.ListForUser(c.Request.Context(), middleware.UserID(c), c.GetString(middleware.CtxRole))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *TerminationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, err := h.workflow.GetForUser(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type decideRequest struct {
	Status          string  `json:"status" binding:"required"`
	ManagerResponse string  `json:"managerResponse"`
	FinalPenaltyFee float64 `json:"finalPenaltyFee"`
	ApprovedEndDate string  `json:"approvedEndDate"`
}

// Decide records the manager's approval or rejection, exactly once.
func (h *TerminationHandler) Decide(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var approvedEnd *time.Time
	if req.ApprovedEndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ApprovedEndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid approvedEndDate, use YYYY-MM-DD"})
			return
		}
		approvedEnd = &parsed
	}

	decided, err := h.workflow.Decide(c.Request.Context(), id, middleware.UserID(c), req.Status, req.ManagerResponse, req.FinalPenaltyFee, approvedEnd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decided)
}

// Withdraw deletes the caller's own still-pending request.
func (h *TerminationHandler) Withdraw(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.workflow.Withdraw(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request withdrawn"})
}
