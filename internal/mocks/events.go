package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	sharedEvents "github.com/davicafu/participantes/internal/shared/events"
)

// RecordingBus guarda los eventos publicados.
type RecordingBus struct {
	Published []sharedEvents.IntegrationEvent
	Err       error
	mu        sync.Mutex
}

func (b *RecordingBus) Publish(ctx context.Context, event interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	if ie, ok := event.(sharedEvents.IntegrationEvent); ok {
		b.Published = append(b.Published, ie)
	}
	return nil
}

func (b *RecordingBus) Types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.Published))
	for _, e := range b.Published {
		types = append(types, e.Type)
	}
	return types
}

// MockPublisher simula un publisher con expectativas de testify.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
