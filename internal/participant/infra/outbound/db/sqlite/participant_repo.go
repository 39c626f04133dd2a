package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/davicafu/participantes/internal/participant/domain"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir es el directorio dentro de Migrations.
const MigrationsDir = "migrations"

const selectColumns = `id, nombre, email, telefono, genero, empresa, comentarios, fecha_inscripcion, timestamp`

type ParticipantRepoSQLite struct {
	db *sql.DB
}

var _ domain.ParticipantRepository = (*ParticipantRepoSQLite)(nil)

func NewParticipantRepoSQLite(db *sql.DB) *ParticipantRepoSQLite {
	return &ParticipantRepoSQLite{db: db}
}

// Open abre el fichero SQLite (lo crea si no existe) con un único escritor.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite solo admite un escritor a la vez
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return db, nil
}

// ------------------ Métodos ------------------

// Create inserta el participante y le asigna el id autoincremental.
func (r *ParticipantRepoSQLite) Create(ctx context.Context, p *domain.Participant) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO participantes (nombre, email, telefono, genero, empresa, comentarios, fecha_inscripcion, timestamp)
		 VALUES (?,?,?,?,?,?,?,?)`,
		p.Nombre, p.Email, p.Telefono, p.Genero, p.Empresa, p.Comentarios, p.FechaInscripcion, p.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ParticipantRepoSQLite) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM participantes WHERE email = ? COLLATE NOCASE`, email,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ParticipantRepoSQLite) List(ctx context.Context) ([]*domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM participantes ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []*domain.Participant{}
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Email, &p.Telefono, &p.Genero,
			&p.Empresa, &p.Comentarios, &p.FechaInscripcion, &p.Timestamp); err != nil {
			return nil, err
		}
		participants = append(participants, &p)
	}

	return participants, rows.Err()
}

func (r *ParticipantRepoSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM participantes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteAll vacía la tabla. sqlite_sequence conserva el último id, así que
// los ids no se reutilizan.
func (r *ParticipantRepoSQLite) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participantes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete participants: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
