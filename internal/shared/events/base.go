package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/participantes/internal/shared/infra/platform/bus"
)

// Tipos de evento que emiten las mutaciones del almacén.
const (
	ParticipantRegistered = "participant.registered"
	ParticipantsCleared   = "participants.cleared"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

// PartitionKey agrupa por tipo para que Kafka conserve el orden de un mismo tipo.
func (e IntegrationEvent) PartitionKey() string {
	return e.Type
}

var _ sharedBus.PartitionKeyer = IntegrationEvent{}

// NewIntegrationEvent serializa data y sella el evento.
func NewIntegrationEvent(eventType string, data interface{}) (IntegrationEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Contratos de integración, planos para el intercambio.
type ParticipantRegisteredData struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type ParticipantsClearedData struct {
	Removed int `json:"removed"`
}
