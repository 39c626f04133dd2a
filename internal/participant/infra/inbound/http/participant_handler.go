package http

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/participant/application"
	"github.com/davicafu/participantes/internal/participant/domain"
	"github.com/davicafu/participantes/pkg/utils"
)

//go:embed web/index.html
var indexHTML []byte

// ParticipantHandler encapsula los endpoints de inscripción y exportación.
type ParticipantHandler struct {
	service *application.ParticipantService
	export  *application.ExportService
	log     *zap.Logger
}

func NewParticipantHandler(service *application.ParticipantService, export *application.ExportService, log *zap.Logger) *ParticipantHandler {
	return &ParticipantHandler{service: service, export: export, log: log}
}

// Home endpoint GET /
func (h *ParticipantHandler) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Register endpoint POST /guardar
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req struct {
		Nombre      string `json:"nombre"`
		Email       string `json:"email"`
		Telefono    string `json:"telefono"`
		Genero      string `json:"genero"`
		Empresa     string `json:"empresa"`
		Comentarios string `json:"comentarios"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendServerError(c, err)
		return
	}

	p, err := h.service.Register(c.Request.Context(), domain.RegisterInput{
		Nombre:      req.Nombre,
		Email:       req.Email,
		Telefono:    req.Telefono,
		Genero:      req.Genero,
		Empresa:     req.Empresa,
		Comentarios: req.Comentarios,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrMissingField):
			utils.SendBadRequest(c, err.Error())
		default:
			utils.SendServerError(c, err)
		}
		return
	}

	utils.SendSuccess(c, "Registro exitoso", gin.H{"id": p.ID})
}

// List endpoint GET /obtener
func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.SendServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// Export endpoint GET /generar-excel
func (h *ParticipantHandler) Export(c *gin.Context) {
	out, err := h.export.Export(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoDataToExport) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		utils.SendServerError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	c.Data(http.StatusOK, application.ExportContentType, out.Content)
}

// DeleteAll endpoint POST /eliminar-todos
func (h *ParticipantHandler) DeleteAll(c *gin.Context) {
	removed, err := h.service.DeleteAll(c.Request.Context())
	if err != nil {
		utils.SendServerError(c, err)
		return
	}
	utils.SendSuccess(c, "Todos los datos eliminados", gin.H{"eliminados": removed})
}
