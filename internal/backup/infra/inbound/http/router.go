package http

import "github.com/gin-gonic/gin"

func RegisterBackupRoutes(r *gin.Engine, handler *BackupHandler) {
	r.GET("/descargar-backup", handler.DownloadLive)
	r.GET("/descargar-backup/:name", handler.DownloadSnapshot)
	r.POST("/forzar-backup-diario", handler.ForceDaily)
	r.POST("/limpiar-backups", handler.Prune)
}
