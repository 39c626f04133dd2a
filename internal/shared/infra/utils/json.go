package utils

import (
	"encoding/json"

	"go.uber.org/zap"
)

// DecodeEventData decodifica el payload de un evento de integración en T.
// Un payload inválido se registra y devuelve ok=false.
func DecodeEventData[T any](log *zap.Logger, eventType string, data json.RawMessage) (T, bool) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn("Failed to unmarshal event data", zap.String("event_type", eventType), zap.Error(err))
		return evt, false
	}
	return evt, true
}
