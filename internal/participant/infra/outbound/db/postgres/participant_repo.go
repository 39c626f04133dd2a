package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/davicafu/participantes/internal/participant/domain"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"

// SQLSTATE de violación de unicidad.
const uniqueViolation = "23505"

type ParticipantRepoPostgres struct {
	db *sql.DB
}

var _ domain.ParticipantRepository = (*ParticipantRepoPostgres)(nil)

func NewParticipantRepoPostgres(db *sql.DB) *ParticipantRepoPostgres {
	return &ParticipantRepoPostgres{db: db}
}

// Open conecta con Postgres usando el driver stdlib de pgx.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}
	return db, nil
}

func (r *ParticipantRepoPostgres) Create(ctx context.Context, p *domain.Participant) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO participantes (nombre, email, telefono, genero, empresa, comentarios, fecha_inscripcion, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.Nombre, p.Email, p.Telefono, p.Genero, p.Empresa, p.Comentarios, p.FechaInscripcion, p.Timestamp,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ParticipantRepoPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM participantes WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	return exists, err
}

func (r *ParticipantRepoPostgres) List(ctx context.Context) ([]*domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, email, telefono, genero, empresa, comentarios, fecha_inscripcion, timestamp
		 FROM participantes ORDER BY id DESC`)
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

func (r *ParticipantRepoPostgres) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participantes`).Scan(&n)
	return n, err
}

// DeleteAll usa DELETE y no TRUNCATE ... RESTART IDENTITY: la secuencia sigue avanzando.
func (r *ParticipantRepoPostgres) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participantes`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
