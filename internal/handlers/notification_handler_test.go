package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/notify"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

func newNotificationRouter(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	h := NewNotificationHandler(db)

	r := gin.New()
	api := r.Group("/api", asUser(userID, models.RoleTenant))
	api.GET("/notifications", h.List)
	api.POST("/notifications/:id/read", h.MarkRead)
	return r, db
}

func TestNotificationList(t *testing.T) {
	r, db := newNotificationRouter(t, 10)
	sink := notify.NewStoreSink(db)
	for i := 0; i < 25; i++ {
		sink.Notify(10, notify.EventPaymentReminder, map[string]interface{}{"n": i})
	}
	sink.Notify(99, notify.EventPaymentDue, nil)

	w := doJSON(r, http.MethodGet, "/api/notifications?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(25), resp.TotalRows)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 10, resp.PageSize)
	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 10)

	// Last page carries the remainder.
	w = doJSON(r, http.MethodGet, "/api/notifications?page=3&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	rows, ok = resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 5)

	// Oversized and junk parameters clamp; scope and response stay in step.
	w = doJSON(r, http.MethodGet, "/api/notifications?page=-2&pageSize=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MaxPageSize, resp.PageSize)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 1, resp.TotalPages)
	rows, ok = resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 25)
}

func TestNotificationListEmpty(t *testing.T) {
	r, _ := newNotificationRouter(t, 10)
	w := doJSON(r, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.TotalRows)
	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Empty(t, rows)
}

func TestNotificationMarkRead(t *testing.T) {
	r, db := newNotificationRouter(t, 10)
	sink := notify.NewStoreSink(db)
	sink.Notify(10, notify.EventPaymentDue, nil)

	var n models.Notification
	require.NoError(t, db.First(&n).Error)
	require.Nil(t, n.ReadAt)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", n.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&n, n.ID).Error)
	assert.NotNil(t, n.ReadAt)

	// Another user's notification is invisible.
	sink.Notify(99, notify.EventPaymentDue, nil)
	var other models.Notification
	require.NoError(t, db.Where("user_id = ?", 99).First(&other).Error)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", other.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/notifications/999999/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
