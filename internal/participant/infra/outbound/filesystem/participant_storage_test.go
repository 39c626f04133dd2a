package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/participantes/internal/participant/domain"
)

func newStorage(t *testing.T) (*JSONParticipantStorage, string) {
	path := filepath.Join(t.TempDir(), "participantes.json")
	return NewJSONParticipantStorage(path), path
}

func TestJSONStorage_MissingFileIsEmpty(t *testing.T) {
	s, _ := newStorage(t)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJSONStorage_CreateAssignsIncreasingIDs(t *testing.T) {
	s, path := newStorage(t)
	ctx := context.Background()

	a := &domain.Participant{Nombre: "Ana", Email: "ana@x.com"}
	b := &domain.Participant{Nombre: "Bob", Email: "bob@x.com"}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fechaInscripcion"`)
}

func TestJSONStorage_DuplicateEmail(t *testing.T) {
	s, _ := newStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &domain.Participant{Email: "ana@x.com"}))
	err := s.Create(ctx, &domain.Participant{Email: "ANA@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestJSONStorage_CorruptFile(t *testing.T) {
	s, path := newStorage(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreCorrupt)

	err = s.Create(ctx, &domain.Participant{Email: "ana@x.com"})
	assert.ErrorIs(t, err, domain.ErrStoreCorrupt)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "{not json", string(data), "el fichero corrupto no se sobrescribe")
}

// Tras vaciar, la numeración vuelve a 1 (a diferencia de los almacenes relacionales).
func TestJSONStorage_DeleteAllResetsIDs(t *testing.T) {
	s, _ := newStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &domain.Participant{Email: "a@x.com"}))
	require.NoError(t, s.Create(ctx, &domain.Participant{Email: "b@x.com"}))

	removed, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	p := &domain.Participant{Email: "c@x.com"}
	require.NoError(t, s.Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)
}
