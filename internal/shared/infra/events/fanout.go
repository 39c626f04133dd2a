package events

import (
	"context"
	"errors"

	sharedBus "github.com/davicafu/participantes/internal/shared/infra/platform/bus"
)

// FanOut publica el mismo evento en varios buses. Un fallo en uno no impide
// publicar en los demás; los errores se devuelven juntos.
type FanOut struct {
	buses []sharedBus.Publisher
}

var _ sharedBus.Publisher = (*FanOut)(nil)

func NewFanOut(buses ...sharedBus.Publisher) *FanOut {
	return &FanOut{buses: buses}
}

func (f *FanOut) Publish(ctx context.Context, event interface{}) error {
	var errs []error
	for _, b := range f.buses {
		if b == nil {
			continue
		}
		if err := b.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
