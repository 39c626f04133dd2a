package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/participantes/internal/backup/domain"
)

func setup(t *testing.T) (*SnapshotStorage, string) {
	root := t.TempDir()
	src := filepath.Join(root, "participantes.db")
	require.NoError(t, os.WriteFile(src, []byte("contenido"), 0644))

	storage, err := NewSnapshotStorage(filepath.Join(root, "backups"))
	require.NoError(t, err)
	return storage, src
}

func TestSave_CopiesFileAndWritesManifest(t *testing.T) {
	storage, src := setup(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 17, 9, 0, 0, 0, time.Local)
	name := domain.FileName(domain.KindDaily, domain.DailyKey(at), ".db")

	snap, err := storage.Save(ctx, src, domain.NewManifestEntry(name, domain.KindDaily, domain.DailyKey(at), at, "participantes.db"))
	require.NoError(t, err)
	assert.Equal(t, name, snap.Name)
	assert.Equal(t, int64(len("contenido")), snap.SizeBytes)
	assert.Equal(t, domain.KindDaily, snap.Kind)

	copied, err := os.ReadFile(filepath.Join(storage.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(copied))

	raw, err := os.ReadFile(filepath.Join(storage.Dir(), domain.ManifestFile))
	require.NoError(t, err)
	var manifest []domain.ManifestEntry
	require.NoError(t, json.Unmarshal(raw, &manifest))
	require.Len(t, manifest, 1)
	assert.Equal(t, name, manifest[0].Name)
	assert.Equal(t, "participantes.db", manifest[0].Source)

	exists, err := storage.Exists(ctx, name)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSave_MissingSource(t *testing.T) {
	storage, _ := setup(t)

	_, err := storage.Save(context.Background(), "/no/existe.db",
		domain.NewManifestEntry("participantes_diario_2024-05-17.db", domain.KindDaily, "2024-05-17", time.Now(), "x"))
	assert.Error(t, err)
}

func TestList_FallsBackToFileName(t *testing.T) {
	storage, _ := setup(t)
	ctx := context.Background()

	old := filepath.Join(storage.Dir(), "participantes_diario_2024-05-01.db")
	require.NoError(t, os.WriteFile(old, []byte("a"), 0644))
	require.NoError(t, os.Chtimes(old, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))
	require.NoError(t, os.WriteFile(filepath.Join(storage.Dir(), "participantes_evento_2024-05-02_10-00-00.db"), []byte("bb"), 0644))

	list, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, domain.KindEvent, list[0].Kind)
	assert.Equal(t, domain.KindDaily, list[1].Kind)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), list[1].Date)
}

func TestDelete_RemovesFileAndManifestEntry(t *testing.T) {
	storage, src := setup(t)
	ctx := context.Background()
	name := "participantes_diario_2024-05-17.db"

	_, err := storage.Save(ctx, src, domain.NewManifestEntry(name, domain.KindDaily, "2024-05-17", time.Now(), "x"))
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, name))

	exists, err := storage.Exists(ctx, name)
	require.NoError(t, err)
	assert.False(t, exists)

	manifest, err := storage.loadManifest()
	require.NoError(t, err)
	assert.Empty(t, manifest)

	assert.ErrorIs(t, storage.Delete(ctx, name), domain.ErrSnapshotNotFound)
}

func TestResolve(t *testing.T) {
	storage, src := setup(t)
	ctx := context.Background()
	name := "participantes_evento_2024-05-17_10-00-00.db"

	_, err := storage.Save(ctx, src, domain.NewManifestEntry(name, domain.KindEvent, "2024-05-17_10-00-00", time.Now(), "x"))
	require.NoError(t, err)

	path, err := storage.Resolve(ctx, name)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	for _, bad := range []string{"no-existe.db", "../participantes.db", domain.ManifestFile, ""} {
		_, err := storage.Resolve(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, bad)
	}
}
