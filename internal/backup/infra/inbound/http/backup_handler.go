package http

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/backup/application"
	"github.com/davicafu/participantes/internal/backup/domain"
	"github.com/davicafu/participantes/pkg/utils"
)

// BackupHandler expone la descarga y el mantenimiento de backups.
type BackupHandler struct {
	service *application.BackupService
	log     *zap.Logger
}

func NewBackupHandler(service *application.BackupService, log *zap.Logger) *BackupHandler {
	return &BackupHandler{service: service, log: log}
}

// DownloadLive endpoint GET /descargar-backup
func (h *BackupHandler) DownloadLive(c *gin.Context) {
	if !h.service.SourceExists() {
		utils.SendNotFound(c, "Archivo no encontrado")
		return
	}
	path := h.service.SourcePath()
	c.FileAttachment(path, filepath.Base(path))
}

// DownloadSnapshot endpoint GET /descargar-backup/:name
func (h *BackupHandler) DownloadSnapshot(c *gin.Context) {
	name := c.Param("name")

	path, err := h.service.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			utils.SendNotFound(c, err.Error())
			return
		}
		utils.SendServerError(c, err)
		return
	}
	c.FileAttachment(path, name)
}

// ForceDaily endpoint POST /forzar-backup-diario
func (h *BackupHandler) ForceDaily(c *gin.Context) {
	created, err := h.service.EnsureDaily(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to force daily backup", zap.Error(err))
		utils.SendServerError(c, err)
		return
	}

	message := "Ya existe un backup diario para hoy"
	switch {
	case created:
		message = "Backup diario creado"
	case !h.service.Enabled():
		message = "Backups deshabilitados para este almacén"
	case !h.service.SourceExists():
		message = "No hay archivo de datos para respaldar"
	}
	utils.SendSuccess(c, message, gin.H{"creado": created})
}

// Prune endpoint POST /limpiar-backups
func (h *BackupHandler) Prune(c *gin.Context) {
	var req struct {
		Dias *int `json:"dias"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendServerError(c, err)
		return
	}

	days := domain.DefaultRetainDays
	if req.Dias != nil {
		days = *req.Dias
	}
	if days < 0 {
		utils.SendBadRequest(c, "El campo dias no puede ser negativo")
		return
	}

	removed, err := h.service.Prune(c.Request.Context(), days)
	if err != nil {
		h.log.Error("Failed to prune backups", zap.Error(err))
		utils.SendServerError(c, err)
		return
	}

	utils.SendSuccess(c, fmt.Sprintf("Se eliminaron %d backups", len(removed)), gin.H{
		"eliminados": len(removed),
		"archivos":   removed,
	})
}
