package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/notify"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/payment"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/store"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

func newPaymentRouter(t *testing.T, userID uint, role string) (*gin.Engine, *payment.Service, *store.Stores) {
	gin.SetMode(gin.TestMode)
	stores := store.New(setupTestDB(t))
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.Fixed{T: now}
	svc := payment.NewService(stores, notify.Discard{}, clk)
	h := NewPaymentHandler(svc, stores, clk)

	r := gin.New()
	api := r.Group("/api", asUser(userID, role))
	api.POST("/payments/:id/record", h.Record)
	api.GET("/payments/lease/:leaseId", h.ListByLease)
	api.GET("/payments/lease/:leaseId/current-status", h.CurrentStatus)
	return r, svc, stores
}

func seedPaymentFor(t *testing.T, svc *payment.Service, leaseID uint) *models.Payment {
	p, _, err := svc.CreateMonthlyPayment(context.Background(), leaseID, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestRecordEndpointOwnership(t *testing.T) {
	// User 99 is an authenticated tenant with no relation to the lease.
	stranger, svc, stores := newPaymentRouter(t, 99, models.RoleTenant)
	lease := seedActiveLease(t, stores, 10)
	p := seedPaymentFor(t, svc, lease.ID)

	w := doJSON(stranger, http.MethodPost, fmt.Sprintf("/api/payments/%d/record", p.ID), gin.H{"amountPaid": 1500.0})
	assert.Equal(t, http.StatusNotFound, w.Code)

	fresh, err := stores.Payments.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, fresh.PaymentStatus)
	assert.Zero(t, fresh.AmountPaid)

	w = doJSON(stranger, http.MethodGet, fmt.Sprintf("/api/payments/lease/%d", lease.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(stranger, http.MethodGet, fmt.Sprintf("/api/payments/lease/%d/current-status", lease.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordEndpointTenant(t *testing.T) {
	r, svc, stores := newPaymentRouter(t, 10, models.RoleTenant)
	lease := seedActiveLease(t, stores, 10)
	p := seedPaymentFor(t, svc, lease.ID)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/payments/%d/record", p.ID), gin.H{
		"amountPaid":  1000.0,
		"paymentDate": "2024-06-02",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentDate)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/payments/lease/%d", lease.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// Bad inputs stay 400s.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/payments/%d/record", p.ID), gin.H{"amountPaid": 100.0, "paymentDate": "06/02/2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/payments/%d/record", p.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
