package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	backupApp "github.com/davicafu/participantes/internal/backup/application"
	backupFS "github.com/davicafu/participantes/internal/backup/infra/outbound/filesystem"
	"github.com/davicafu/participantes/internal/mocks"
	"github.com/davicafu/participantes/internal/participant/application"
	"github.com/davicafu/participantes/internal/participant/domain"
	"github.com/davicafu/participantes/internal/participant/infra/outbound/filesystem"
	"github.com/davicafu/participantes/internal/remotesync"
)

type testServer struct {
	router *gin.Engine
}

func setupServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	root := t.TempDir()
	storePath := filepath.Join(root, "participantes.json")
	repo := filesystem.NewJSONParticipantStorage(storePath)

	snapshots, err := backupFS.NewSnapshotStorage(filepath.Join(root, "backups"))
	require.NoError(t, err)
	backups := backupApp.NewBackupService(snapshots, storePath, 7, log)

	service := application.NewParticipantService(repo, mocks.NewDummyCache(), backups, &mocks.RecordingBus{}, log)
	export := application.NewExportService(repo, true, log)
	sync := remotesync.NewGitHubClient(remotesync.Config{}, storePath, log)

	r := gin.New()
	RegisterParticipantRoutes(r,
		NewParticipantHandler(service, export, log),
		NewStatusHandler(service, backups, sync, "json"),
	)
	return &testServer{router: r}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, nombre, email string) *httptest.ResponseRecorder {
	body, err := json.Marshal(map[string]string{
		"nombre":   nombre,
		"email":    email,
		"telefono": "600000000",
		"genero":   "Femenino",
	})
	require.NoError(t, err)
	return s.do(http.MethodPost, "/guardar", string(body))
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHome(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/guardar")
}

func TestRegister(t *testing.T) {
	s := setupServer(t)

	w := s.register(t, "Ana", "Ana@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registro exitoso", body["message"])
	assert.Equal(t, float64(1), body["id"])

	w = s.register(t, "Bob", "bob@x.com")
	assert.Equal(t, float64(2), decodeMap(t, w)["id"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := setupServer(t)

	require.Equal(t, http.StatusOK, s.register(t, "Ana", "Ana@x.com").Code)

	w := s.register(t, "Ana", "ana@x.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email ya registrado", decodeMap(t, w)["error"])
}

func TestRegister_MissingField(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/guardar", `{"nombre":"Ana","email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Falta el campo requerido: telefono", decodeMap(t, w)["error"])
}

func TestRegister_MalformedBody(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/guardar", `{"nombre":`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(decodeMap(t, w)["error"].(string), "Error del servidor: "))
}

func TestList_NewestFirst(t *testing.T) {
	s := setupServer(t)
	s.register(t, "Ana", "a@x.com")
	s.register(t, "Bob", "b@x.com")

	w := s.do(http.MethodGet, "/obtener", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []domain.Participant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Bob", list[0].Nombre)
	assert.Equal(t, "Ana", list[1].Nombre)
}

func TestExport(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/generar-excel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No hay datos para exportar", decodeMap(t, w)["error"])

	s.register(t, "Ana", "a@x.com")
	s.register(t, "Bob", "b@x.com")

	w = s.do(http.MethodGet, "/generar-excel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, application.ExportContentType, w.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="participantes_\d{8}_\d{4}\.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(application.ExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestDeleteAll(t *testing.T) {
	s := setupServer(t)
	s.register(t, "Ana", "a@x.com")
	s.register(t, "Bob", "b@x.com")

	w := s.do(http.MethodPost, "/eliminar-todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, "Todos los datos eliminados", body["message"])
	assert.Equal(t, float64(2), body["eliminados"])

	w = s.do(http.MethodGet, "/obtener", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStatus_AfterThreeRegistrations(t *testing.T) {
	s := setupServer(t)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.Equal(t, http.StatusOK, s.register(t, "X", email).Code)
	}

	w := s.do(http.MethodGet, "/estado", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status             string `json:"status"`
		TotalParticipantes int    `json:"total_participantes"`
		StoreDriver        string `json:"store_driver"`
		ArchivoExiste      bool   `json:"archivo_existe"`
		Archivo            string `json:"archivo"`
		Backups            struct {
			Total int `json:"total"`
		} `json:"backups"`
		Sync remotesync.Status `json:"sync"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.TotalParticipantes)
	assert.Equal(t, "json", body.StoreDriver)
	assert.True(t, body.ArchivoExiste)
	assert.Equal(t, "participantes.json", body.Archivo)
	assert.Equal(t, 3, body.Backups.Total)
	assert.False(t, body.Sync.Configured)
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
