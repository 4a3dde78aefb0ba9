package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/middleware"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// List returns the caller's notifications, newest first, paginated.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		respondError(c, err)
		return
	}

	var notifications []models.Notification
	if err := query.Scopes(Paginate(c)).Find(&notifications).Error; err != nil {
		respondError(c, err)
		return
	}
	if notifications == nil {
		notifications = make([]models.Notification, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, notifications, totalRows))
}

// MarkRead stamps one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	now := time.Now()
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, middleware.UserID(c)).
		Update("read_at", now)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
