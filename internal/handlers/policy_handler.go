package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/policy"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/store"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type PolicyHandler struct {
	stores *store.Stores
	clk    clock.Clock
}

func NewPolicyHandler(stores *store.Stores, clk clock.Clock) *PolicyHandler {
	return &PolicyHandler{stores: stores, clk: clk}
}

// List returns policies, optionally filtered by property and active flag.
// Asking for the active policy of a property that has none provisions the
// system default first, so callers always get a usable policy back.
func (h *PolicyHandler) List(c *gin.Context) {
	propertyID := uint(0)
	if v := c.Query("propertyId"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid propertyId"})
			return
		}
		propertyID = uint(parsed)
	}
	activeOnly := c.Query("active") == "true"

	if activeOnly && propertyID != 0 {
		active, err := h.stores.Policies.EnsureActive(c.Request.Context(), propertyID, func() *models.TerminationPolicy {
			return policy.Default(propertyID)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []models.TerminationPolicy{*active})
		return
	}

	policies, err := h.stores.Policies.List(c.Request.Context(), propertyID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	if policies == nil {
		policies = make([]models.TerminationPolicy, 0)
	}
	c.JSON(http.StatusOK, policies)
}

type policyRequest struct {
	PropertyID           uint                   `json:"propertyId"`
	MinimumNoticeDays    int                    `json:"minimumNoticeDays"`
	PenaltyRules         models.PenaltyRuleList `json:"penaltyRules" binding:"required"`
	AllowEmergencyWaiver bool                   `json:"allowEmergencyWaiver"`
	EmergencyCategories  models.StringList      `json:"emergencyCategories"`
	GracePeriodDays      int                    `json:"gracePeriodDays"`
}

// Create inserts a new active policy, deactivating the prior one.
func (h *PolicyHandler) Create(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.PropertyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId is required"})
		return
	}

	p := &models.TerminationPolicy{
		PropertyID:           req.PropertyID,
		MinimumNoticeDays:    req.MinimumNoticeDays,
		PenaltyRules:         req.PenaltyRules,
		AllowEmergencyWaiver: req.AllowEmergencyWaiver,
		EmergencyCategories:  req.EmergencyCategories,
		GracePeriodDays:      req.GracePeriodDays,
	}
	if err := h.stores.Policies.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update replaces a property's policy wholesale: the edit becomes a new
// active version and the old row stays behind as history.
func (h *PolicyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	prior, err := h.stores.Policies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	p := &models.TerminationPolicy{
		PropertyID:           prior.PropertyID,
		MinimumNoticeDays:    req.MinimumNoticeDays,
		PenaltyRules:         req.PenaltyRules,
		AllowEmergencyWaiver: req.AllowEmergencyWaiver,
		EmergencyCategories:  req.EmergencyCategories,
		GracePeriodDays:      req.GracePeriodDays,
	}
	if err := h.stores.Policies.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PolicyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.stores.Policies.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy deleted"})
}

type calculateRequest struct {
	PropertyID       uint    `json:"propertyId" binding:"required"`
	LeaseID          uint    `json:"leaseId" binding:"required"`
	RequestedEndDate string  `json:"requestedEndDate" binding:"required"`
	MonthlyRent      float64 `json:"monthlyRent"`
}

// Calculate quotes the early-termination penalty for a lease using the
// property's active policy, provisioning the default when none exists.
func (h *PolicyHandler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	requestedEnd, err := time.Parse("2006-01-02", req.RequestedEndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requestedEndDate, use YYYY-MM-DD"})
		return
	}

	lease, err := h.stores.Leases.Get(c.Request.Context(), req.LeaseID)
	if err != nil {
		respondError(c, err)
		return
	}
	if lease.PropertyID != req.PropertyID {
		// Quoting lease X against property Y's policy would apply the wrong
		// tariff.
		c.JSON(http.StatusBadRequest, gin.H{"error": "leaseId does not belong to propertyId"})
		return
	}
	rent := req.MonthlyRent
	if rent == 0 {
		rent = lease.MonthlyRent
	}

	active, err := h.stores.Policies.EnsureActive(c.Request.Context(), req.PropertyID, func() *models.TerminationPolicy {
		return policy.Default(req.PropertyID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	calc := policy.Calculate(active, lease, requestedEnd, rent, h.clk.Now())
	c.JSON(http.StatusOK, calc)
}
