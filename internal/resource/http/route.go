package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, managerMiddleware gin.HandlerFunc) {
	group := g.Group("/resources")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	managed := group.Group("")
	managed.Use(managerMiddleware)
	{
		managed.POST("", h.Create)
		managed.PATCH("/:id", h.Update)
	}
}
