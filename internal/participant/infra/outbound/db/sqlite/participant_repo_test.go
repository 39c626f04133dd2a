package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/participant/domain"
	platformDB "github.com/davicafu/participantes/internal/shared/infra/platform/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	path := filepath.Join(t.TempDir(), "participantes.db")
	require.NoError(t, platformDB.RunMigrations(Migrations, MigrationsDir, platformDB.SQLiteURL(path), zap.NewNop()))

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newParticipant(nombre, email string) *domain.Participant {
	return &domain.Participant{
		Nombre:           nombre,
		Email:            email,
		Telefono:         "555",
		Genero:           "F",
		FechaInscripcion: "01/02/2024 10:00:00",
		Timestamp:        "2024-02-01T10:00:00.000000",
	}
}

func TestParticipantSQLite_CreateListCount(t *testing.T) {
	repo := NewParticipantRepoSQLite(setupTestDB(t))
	ctx := context.Background()

	ana := newParticipant("Ana", "ana@x.com")
	require.NoError(t, repo.Create(ctx, ana))
	bob := newParticipant("Bob", "bob@x.com")
	require.NoError(t, repo.Create(ctx, bob))

	assert.Equal(t, int64(1), ana.ID)
	assert.Equal(t, int64(2), bob.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bob", list[0].Nombre, "el más reciente primero")
	assert.Equal(t, "", list[1].Empresa)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestParticipantSQLite_DuplicateEmailIgnoresCase(t *testing.T) {
	repo := NewParticipantRepoSQLite(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newParticipant("Ana", "ana@x.com")))

	exists, err := repo.ExistsByEmail(ctx, "ANA@X.COM")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, newParticipant("Ana 2", "Ana@X.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestParticipantSQLite_DeleteAllKeepsSequence(t *testing.T) {
	repo := NewParticipantRepoSQLite(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newParticipant("Ana", "ana@x.com")))
	require.NoError(t, repo.Create(ctx, newParticipant("Bob", "bob@x.com")))

	removed, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	again := newParticipant("Ana", "ana@x.com")
	require.NoError(t, repo.Create(ctx, again))
	assert.Equal(t, int64(3), again.ID)
}
