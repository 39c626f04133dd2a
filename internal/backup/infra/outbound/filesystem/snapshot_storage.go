package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/davicafu/participantes/internal/backup/domain"
)

// SnapshotStorage guarda las copias en un directorio junto a un manifest.json
// con los metadatos de cada una.
type SnapshotStorage struct {
	dir string
	mu  sync.Mutex
}

var _ domain.SnapshotRepository = (*SnapshotStorage)(nil)

// NewSnapshotStorage crea el directorio si no existe.
func NewSnapshotStorage(dir string) (*SnapshotStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating backup dir: %w", err)
	}
	return &SnapshotStorage{dir: dir}, nil
}

func (s *SnapshotStorage) Dir() string { return s.dir }

func (s *SnapshotStorage) Save(ctx context.Context, sourcePath string, entry domain.ManifestEntry) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := filepath.Join(s.dir, entry.Name)
	if err := copyFile(sourcePath, dst); err != nil {
		return nil, err
	}

	manifest, err := s.loadManifest()
	if err != nil {
		return nil, err
	}
	manifest = append(manifest, entry)
	if err := s.saveManifest(manifest); err != nil {
		return nil, err
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, err
	}
	return toSnapshot(info, &entry), nil
}

func (s *SnapshotStorage) Exists(ctx context.Context, name string) (bool, error) {
	if !validName(name) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// List devuelve todas las copias del directorio. Las que no están en el
// manifiesto se describen a partir del nombre del fichero.
func (s *SnapshotStorage) List(ctx context.Context) ([]domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest, err := s.loadManifest()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.ManifestEntry, len(manifest))
	for i := range manifest {
		byName[manifest[i].Name] = &manifest[i]
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.Snapshot, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == domain.ManifestFile || filepath.Ext(e.Name()) == ".tmp" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, *toSnapshot(info, byName[e.Name()]))
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].ModTime.Equal(snapshots[j].ModTime) {
			return snapshots[i].Name > snapshots[j].Name
		}
		return snapshots[i].ModTime.After(snapshots[j].ModTime)
	})
	return snapshots, nil
}

func (s *SnapshotStorage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validName(name) {
		return domain.ErrSnapshotNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrSnapshotNotFound
		}
		return err
	}

	manifest, err := s.loadManifest()
	if err != nil {
		return err
	}
	kept := manifest[:0]
	for _, m := range manifest {
		if m.Name != name {
			kept = append(kept, m)
		}
	}
	return s.saveManifest(kept)
}

func (s *SnapshotStorage) Resolve(ctx context.Context, name string) (string, error) {
	if !validName(name) {
		return "", domain.ErrSnapshotNotFound
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", domain.ErrSnapshotNotFound
	}
	return filepath.Abs(path)
}

func (s *SnapshotStorage) loadManifest() ([]domain.ManifestEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, domain.ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ManifestEntry{}, nil
		}
		return nil, err
	}
	var manifest []domain.ManifestEntry
	if len(data) == 0 {
		return []domain.ManifestEntry{}, nil
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("reading %s: %w", domain.ManifestFile, err)
	}
	return manifest, nil
}

func (s *SnapshotStorage) saveManifest(manifest []domain.ManifestEntry) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, domain.ManifestFile), data, 0644)
}

func toSnapshot(info os.FileInfo, entry *domain.ManifestEntry) *domain.Snapshot {
	snap := &domain.Snapshot{
		Name:      info.Name(),
		SizeBytes: info.Size(),
		SizeMB:    domain.SizeInMB(info.Size()),
		ModTime:   info.ModTime(),
		CreatedAt: info.ModTime(),
	}
	if entry != nil {
		snap.Kind = entry.Kind
		snap.Key = entry.Key
		snap.CreatedAt = entry.CreatedAt
	} else if kind, key, ok := domain.ParseName(info.Name()); ok {
		snap.Kind = kind
		snap.Key = key
	}
	if snap.Kind != "" {
		if date, ok := domain.ParseKey(snap.Kind, snap.Key, time.Local); ok {
			snap.Date = date
		}
	}
	return snap
}

// validName rechaza rutas: sólo se aceptan nombres base dentro del directorio.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		name == filepath.Base(name) && name != domain.ManifestFile
}

// copyFile copia a un temporal y lo renombra para no dejar copias a medias.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

