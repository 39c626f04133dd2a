package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/participantes/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte los eventos serializados entre los suscriptores
// del proceso. Nunca bloquea al publicador: si el buffer de un suscriptor
// está lleno, el evento se descarta para ese suscriptor y se registra.
type InMemoryEventBus struct {
	topic string
	log   *zap.Logger

	mu     sync.RWMutex
	subs   map[int]chan []byte
	nextID int
}

var _ sharedBus.Publisher = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(topic string, log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		topic: topic,
		log:   log,
		subs:  make(map[int]chan []byte),
	}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- payload:
		default:
			b.log.Warn("⚠️ Suscriptor saturado, evento descartado",
				zap.String("topic", b.topic),
				zap.Int("subscriber", id),
			)
		}
	}
	return nil
}

// Subscribe registra un suscriptor con el buffer indicado. La función
// devuelta lo da de baja y cierra su canal.
func (b *InMemoryEventBus) Subscribe(buffer int) (<-chan []byte, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan []byte, buffer)
	b.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

func (b *InMemoryEventBus) Topic() string {
	return b.topic
}
