package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, managerMiddleware gin.HandlerFunc) {
	group := g.Group("/availability")
	group.Use(authMiddleware)
	{
		group.GET("/slots", h.FindSlots)
		group.GET("/:entityType/:entityId/calendar", h.Calendar)
	}

	managed := group.Group("")
	managed.Use(managerMiddleware)
	{
		managed.POST("/generate", h.Generate)
		managed.POST("/block", h.Block)
	}
}
