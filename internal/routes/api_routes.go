package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/handlers"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/middleware"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Payments      *handlers.PaymentHandler
	Policies      *handlers.PolicyHandler
	Terminations  *handlers.TerminationHandler
	Notifications *handlers.NotificationHandler
	AuthMW        *middleware.Auth
}

// Register wires all routes onto the engine.
func Register(r *gin.Engine, h Handlers) {
	r.POST("/auth/login", h.Auth.Login)

	api := r.Group("/api")
	api.Use(h.AuthMW.Handler())
	{
		payments := api.Group("/payments")
		{
			payments.POST("/:id/record", h.Payments.Record)
			payments.GET("/lease/:leaseId", h.Payments.ListByLease)
			payments.GET("/lease/:leaseId/current-status", h.Payments.CurrentStatus)
			payments.GET("/property/:propertyId", h.Payments.ListByProperty)
			payments.POST("/check-overdue", middleware.RequireRole(models.RoleManager), h.Payments.CheckOverdue)
			payments.GET("/export", middleware.RequireRole(models.RoleManager), h.Payments.Export)
		}

		policies := api.Group("/termination-policies")
		{
			policies.GET("", h.Policies.List)
			policies.POST("", middleware.RequireRole(models.RoleManager), h.Policies.Create)
			policies.PUT("/:id", middleware.RequireRole(models.RoleManager), h.Policies.Update)
			policies.DELETE("/:id", middleware.RequireRole(models.RoleManager), h.Policies.Delete)
			policies.POST("/calculate", h.Policies.Calculate)
		}

		terminations := api.Group("/termination-requests")
		{
			terminations.POST("", middleware.RequireRole(models.RoleTenant), h.Terminations.Submit)
			terminations.GET("", h.Terminations.List)
			terminations.GET("/:id", h.Terminations.Get)
			terminations.PUT("/:id", middleware.RequireRole(models.RoleManager), h.Terminations.Decide)
			terminations.DELETE("/:id", middleware.RequireRole(models.RoleTenant), h.Terminations.Withdraw)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.Notifications.List)
			notifications.POST("/:id/read", h.Notifications.MarkRead)
		}
	}
}
