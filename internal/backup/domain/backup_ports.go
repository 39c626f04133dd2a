package domain

import (
	"context"
	"errors"
)

var (
	ErrSnapshotNotFound = errors.New("Backup no encontrado")
	ErrBackupDisabled   = errors.New("backups deshabilitados para este almacén")
)

// SnapshotRepository guarda las copias y su manifiesto.
type SnapshotRepository interface {
	// Save copia sourcePath como entry.Name y registra la entrada en el manifiesto.
	Save(ctx context.Context, sourcePath string, entry ManifestEntry) (*Snapshot, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]Snapshot, error)
	Delete(ctx context.Context, name string) error
	// Resolve devuelve la ruta absoluta de una copia o ErrSnapshotNotFound.
	Resolve(ctx context.Context, name string) (string, error)
}
