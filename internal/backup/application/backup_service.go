package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/backup/domain"
)

// BackupService crea copias diarias y por evento del fichero del almacén y
// aplica la retención sobre las diarias.
type BackupService struct {
	repo          domain.SnapshotRepository
	sourcePath    string
	retentionDays int
	log           *zap.Logger
	now           func() time.Time

	// writeMu serializa la elección del nombre y la copia.
	writeMu sync.Mutex
}

// NewBackupService devuelve un servicio deshabilitado si repo es nil o el
// almacén no vive en un fichero (sourcePath vacío).
func NewBackupService(repo domain.SnapshotRepository, sourcePath string, retentionDays int, log *zap.Logger) *BackupService {
	if retentionDays <= 0 {
		retentionDays = domain.DefaultRetainDays
	}
	return &BackupService{
		repo:          repo,
		sourcePath:    sourcePath,
		retentionDays: retentionDays,
		log:           log,
		now:           time.Now,
	}
}

func (s *BackupService) WithClock(now func() time.Time) *BackupService {
	s.now = now
	return s
}

func (s *BackupService) Enabled() bool {
	return s.repo != nil && s.sourcePath != ""
}

// SourcePath es la ruta del fichero del almacén, vacía si no hay fichero.
func (s *BackupService) SourcePath() string { return s.sourcePath }

// SourceExists indica si el fichero del almacén existe en disco.
func (s *BackupService) SourceExists() bool {
	if s.sourcePath == "" {
		return false
	}
	info, err := os.Stat(s.sourcePath)
	return err == nil && !info.IsDir()
}

// EnsureDaily crea la copia diaria si todavía no existe la de hoy y después
// aplica la retención. Devuelve true si se creó una copia.
func (s *BackupService) EnsureDaily(ctx context.Context) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	created, err := s.ensureDaily(ctx)
	if err != nil {
		return false, err
	}

	if _, err := s.Prune(ctx, s.retentionDays); err != nil {
		s.log.Warn("⚠️ Falló la limpieza de backups", zap.Error(err))
	}
	return created, nil
}

func (s *BackupService) ensureDaily(ctx context.Context) (bool, error) {
	if !s.SourceExists() {
		s.log.Info("Sin fichero de datos, se omite el backup diario", zap.String("source", s.sourcePath))
		return false, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	key := domain.DailyKey(now)
	name := domain.FileName(domain.KindDaily, key, filepath.Ext(s.sourcePath))

	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		s.log.Debug("Backup diario ya existe", zap.String("name", name))
		return false, nil
	}

	snap, err := s.repo.Save(ctx, s.sourcePath, domain.NewManifestEntry(name, domain.KindDaily, key, now, filepath.Base(s.sourcePath)))
	if err != nil {
		s.log.Error("Failed to create daily backup", zap.String("name", name), zap.Error(err))
		return false, err
	}

	s.log.Info("✅ Backup diario creado", zap.String("name", snap.Name), zap.Int64("size_bytes", snap.SizeBytes))
	return true, nil
}

// SnapshotEvent copia siempre el fichero actual con una clave fecha-hora.
// Si ya existe una copia en el mismo segundo se añade un sufijo numérico.
func (s *BackupService) SnapshotEvent(ctx context.Context) (*domain.Snapshot, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupDisabled
	}
	if !s.SourceExists() {
		return nil, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	ext := filepath.Ext(s.sourcePath)
	key := domain.EventKey(now)
	name := domain.FileName(domain.KindEvent, key, ext)
	for i := 2; ; i++ {
		exists, err := s.repo.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		key = fmt.Sprintf("%s_%d", domain.EventKey(now), i)
		name = domain.FileName(domain.KindEvent, key, ext)
	}

	snap, err := s.repo.Save(ctx, s.sourcePath, domain.NewManifestEntry(name, domain.KindEvent, key, now, filepath.Base(s.sourcePath)))
	if err != nil {
		return nil, err
	}

	s.log.Info("Backup por evento creado", zap.String("name", snap.Name))
	return snap, nil
}

// TakeEventSnapshot es SnapshotEvent para quien sólo necesita el error.
// Con backups deshabilitados no hace nada.
func (s *BackupService) TakeEventSnapshot(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	_, err := s.SnapshotEvent(ctx)
	return err
}

// Prune borra las copias diarias cuya fecha es anterior a now - days.
// Con days = 0 se borran todas las anteriores a ahora y con days < 0 se usa
// la retención configurada. Los nombres que no se pueden interpretar no se tocan.
func (s *BackupService) Prune(ctx context.Context, days int) ([]string, error) {
	if !s.Enabled() {
		return []string{}, nil
	}
	if days < 0 {
		days = s.retentionDays
	}
	cutoff := s.now().AddDate(0, 0, -days)

	snapshots, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	removed := []string{}
	for _, snap := range snapshots {
		if snap.Kind != domain.KindDaily || snap.Date.IsZero() {
			continue
		}
		if !snap.Date.Before(cutoff) {
			continue
		}
		if err := s.repo.Delete(ctx, snap.Name); err != nil {
			s.log.Warn("No se pudo borrar el backup", zap.String("name", snap.Name), zap.Error(err))
			continue
		}
		removed = append(removed, snap.Name)
		s.log.Info("🗑️ Backup antiguo eliminado", zap.String("name", snap.Name))
	}
	return removed, nil
}

// List devuelve todas las copias, la más reciente primero.
func (s *BackupService) List(ctx context.Context) ([]domain.Snapshot, error) {
	if !s.Enabled() {
		return []domain.Snapshot{}, nil
	}
	return s.repo.List(ctx)
}

// Open devuelve la ruta de una copia por su nombre.
func (s *BackupService) Open(ctx context.Context, name string) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrSnapshotNotFound
	}
	return s.repo.Resolve(ctx, name)
}
