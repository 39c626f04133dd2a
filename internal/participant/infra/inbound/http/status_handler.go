package http

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	backupDomain "github.com/davicafu/participantes/internal/backup/domain"
	"github.com/davicafu/participantes/internal/participant/application"
	"github.com/davicafu/participantes/internal/remotesync"
	"github.com/davicafu/participantes/pkg/utils"
)

// BackupInventory es lo que /estado necesita saber de los backups.
type BackupInventory interface {
	SourcePath() string
	SourceExists() bool
	List(ctx context.Context) ([]backupDomain.Snapshot, error)
}

// SyncStatusProvider resume la configuración de la sincronización remota.
type SyncStatusProvider interface {
	Status() remotesync.Status
}

// StatusHandler compone el estado del servicio para GET /estado.
type StatusHandler struct {
	service     *application.ParticipantService
	backups     BackupInventory
	sync        SyncStatusProvider
	storeDriver string
}

func NewStatusHandler(service *application.ParticipantService, backups BackupInventory, sync SyncStatusProvider, storeDriver string) *StatusHandler {
	return &StatusHandler{service: service, backups: backups, sync: sync, storeDriver: storeDriver}
}

// Status endpoint GET /estado
func (h *StatusHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.service.Count(ctx)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	snapshots, err := h.backups.List(ctx)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	archivo := ""
	if path := h.backups.SourcePath(); path != "" {
		archivo = filepath.Base(path)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"total_participantes": total,
		"store_driver":        h.storeDriver,
		"archivo_existe":      h.backups.SourceExists(),
		"archivo":             archivo,
		"backups": gin.H{
			"total":    len(snapshots),
			"archivos": snapshots,
		},
		"sync": h.sync.Status(),
	})
}
