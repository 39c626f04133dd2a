package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendSuccess responde 200 con {success: true, message} más los campos extra.
func SendSuccess(c *gin.Context, message string, extra gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// SendError envía {error: message} con el código indicado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": message,
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// SendServerError devuelve 500 con el mensaje del error original.
func SendServerError(c *gin.Context, err error) {
	SendError(c, http.StatusInternalServerError, "Error del servidor: "+err.Error())
}
