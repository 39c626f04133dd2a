package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterParticipantRoutes(r *gin.Engine, handler *ParticipantHandler, status *StatusHandler) {
	r.GET("/", handler.Home)
	r.POST("/guardar", handler.Register)
	r.GET("/obtener", handler.List)
	r.GET("/generar-excel", handler.Export)
	r.POST("/eliminar-todos", handler.DeleteAll)
	r.GET("/estado", status.Status)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
