package domain

import (
	"context"
	"errors"
	"fmt"
)

// ---------- Errores de dominio ----------
var (
	ErrDuplicateEmail = errors.New("Email ya registrado")
	ErrNoDataToExport = errors.New("No hay datos para exportar")
	ErrMissingField   = errors.New("campo requerido")
	// ErrStoreCorrupt indica que el almacén existe pero no se puede interpretar.
	ErrStoreCorrupt = errors.New("store file is corrupt")
)

// MissingFieldError indica qué campo obligatorio faltó.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Falta el campo requerido: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// ---------- Interfaces (Ports) ----------

// ParticipantRepository define las operaciones persistentes para Participant.
type ParticipantRepository interface {
	// Create asigna el ID. Debe devolver ErrDuplicateEmail si el email ya existe.
	Create(ctx context.Context, p *Participant) error

	// ExistsByEmail compara sin distinguir mayúsculas.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List devuelve todos los participantes, el más reciente primero.
	List(ctx context.Context) ([]*Participant, error)

	Count(ctx context.Context) (int, error)

	// DeleteAll borra todos los registros y devuelve cuántos había.
	DeleteAll(ctx context.Context) (int, error)
}

// Snapshotter toma una copia del almacén tras cada mutación.
type Snapshotter interface {
	TakeEventSnapshot(ctx context.Context) error
}

// ---------- Helpers comunes (cache keys, etc.) ----------

// CacheKeyAll es la key bajo la que se cachea el listado completo.
const CacheKeyAll = "participantes:all"
