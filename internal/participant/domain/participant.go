package domain

import (
	"strings"
	"time"
)

// Formatos de fecha que se persisten junto al participante.
const (
	FechaInscripcionLayout = "02/01/2006 15:04:05"
	TimestampLayout        = "2006-01-02T15:04:05.000000"
)

// Participant representa una inscripción al evento. Es inmutable una vez creada.
type Participant struct {
	ID               int64  `json:"id"`
	Nombre           string `json:"nombre"`
	Email            string `json:"email"`
	Telefono         string `json:"telefono"`
	Genero           string `json:"genero"`
	Empresa          string `json:"empresa"`
	Comentarios      string `json:"comentarios"`
	FechaInscripcion string `json:"fechaInscripcion"`
	Timestamp        string `json:"timestamp"`
}

// RegisterInput son los datos que llegan desde el formulario.
type RegisterInput struct {
	Nombre      string
	Email       string
	Telefono    string
	Genero      string
	Empresa     string
	Comentarios string
}

// NewParticipant valida la entrada y sella las fechas de inscripción con now.
// El ID lo asigna el repositorio.
func NewParticipant(in RegisterInput, now time.Time) (*Participant, error) {
	p := &Participant{
		Nombre:      strings.TrimSpace(in.Nombre),
		Email:       NormalizeEmail(in.Email),
		Telefono:    strings.TrimSpace(in.Telefono),
		Genero:      strings.TrimSpace(in.Genero),
		Empresa:     strings.TrimSpace(in.Empresa),
		Comentarios: strings.TrimSpace(in.Comentarios),
	}

	required := []struct {
		field string
		value string
	}{
		{"nombre", p.Nombre},
		{"email", p.Email},
		{"telefono", p.Telefono},
		{"genero", p.Genero},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &MissingFieldError{Field: r.field}
		}
	}

	p.FechaInscripcion = now.Format(FechaInscripcionLayout)
	p.Timestamp = now.Format(TimestampLayout)
	return p, nil
}

// NormalizeEmail deja el email en la forma que se guarda y se compara.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
