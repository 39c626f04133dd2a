package remotesync

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/participantes/internal/shared/events"
	sharedUtils "github.com/davicafu/participantes/internal/shared/infra/utils"
)

const pushTimeout = time.Minute

// Pusher sube el estado actual del almacén.
type Pusher interface {
	Push(ctx context.Context) error
}

// Worker escucha los eventos de mutación del bus y lanza un push por cada
// uno. El resultado sólo se registra en el log.
type Worker struct {
	pusher Pusher
	events <-chan []byte
	log    *zap.Logger
}

func NewWorker(pusher Pusher, events <-chan []byte, log *zap.Logger) *Worker {
	return &Worker{pusher: pusher, events: events, log: log}
}

// Start arranca el bucle en una goroutine hasta que ctx se cancele.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("🔄 Worker de sincronización iniciado")

	go func() {
		for {
			select {
			case <-ctx.Done():
				w.log.Info("Worker de sincronización detenido")
				return
			case payload, ok := <-w.events:
				if !ok {
					return
				}
				w.HandleMessage(ctx, payload)
			}
		}
	}()
}

func (w *Worker) HandleMessage(ctx context.Context, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		w.log.Warn("Failed to unmarshal integration event", zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.ParticipantRegistered:
		if evt, ok := sharedUtils.DecodeEventData[sharedEvents.ParticipantRegisteredData](w.log, base.Type, base.Data); ok {
			w.push(ctx, base, zap.Int64("participant_id", evt.ID))
		}

	case sharedEvents.ParticipantsCleared:
		if evt, ok := sharedUtils.DecodeEventData[sharedEvents.ParticipantsClearedData](w.log, base.Type, base.Data); ok {
			w.push(ctx, base, zap.Int("removed", evt.Removed))
		}

	default:
		w.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func (w *Worker) push(ctx context.Context, evt sharedEvents.IntegrationEvent, detail zap.Field) {
	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if err := w.pusher.Push(pushCtx); err != nil {
		w.log.Warn("⚠️ Falló la sincronización con GitHub",
			zap.String("event_id", evt.ID.String()),
			zap.String("event_type", evt.Type),
			detail,
			zap.Error(err),
		)
		return
	}
	w.log.Info("☁️ Datos sincronizados con GitHub",
		zap.String("event_id", evt.ID.String()),
		zap.String("event_type", evt.Type),
		detail,
	)
}
