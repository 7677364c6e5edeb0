package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, managerMiddleware gin.HandlerFunc) {
	group := g.Group("/organization")

	group.POST("", h.Create)

	group.Use(authMiddleware)
	{
		group.GET("", h.Get)
		group.GET("/configuration", h.GetConfiguration)
	}

	managed := group.Group("")
	managed.Use(managerMiddleware)
	{
		managed.PATCH("", h.Update)
		managed.PUT("/configuration", h.SetConfiguration)
	}
}
