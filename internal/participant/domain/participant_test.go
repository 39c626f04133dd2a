package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticipant(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 7, 3, 123456000, time.Local)

	p, err := NewParticipant(RegisterInput{
		Nombre:   " Ana ",
		Email:    " Ana@X.com ",
		Telefono: "555",
		Genero:   "F",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "Ana", p.Nombre)
	assert.Equal(t, "ana@x.com", p.Email)
	assert.Equal(t, "", p.Empresa)
	assert.Equal(t, "", p.Comentarios)
	assert.Equal(t, "05/03/2024 09:07:03", p.FechaInscripcion)
	assert.Equal(t, "2024-03-05T09:07:03.123456", p.Timestamp)
	assert.Zero(t, p.ID)
}

func TestNewParticipant_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"sin nombre", RegisterInput{Email: "a@x.com", Telefono: "1", Genero: "M"}, "nombre"},
		{"sin email", RegisterInput{Nombre: "A", Telefono: "1", Genero: "M"}, "email"},
		{"telefono en blanco", RegisterInput{Nombre: "A", Email: "a@x.com", Telefono: "  ", Genero: "M"}, "telefono"},
		{"sin genero", RegisterInput{Nombre: "A", Email: "a@x.com", Telefono: "1"}, "genero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParticipant(tt.in, time.Now())
			assert.ErrorIs(t, err, ErrMissingField)

			var mf *MissingFieldError
			require.True(t, errors.As(err, &mf))
			assert.Equal(t, tt.field, mf.Field)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@x.com", NormalizeEmail("  ANA@x.Com"))
}
