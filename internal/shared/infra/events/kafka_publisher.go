package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/participantes/internal/shared/events"
	sharedBus "github.com/davicafu/participantes/internal/shared/infra/platform/bus"
)

const eventTypeHeader = "event-type"

// MessageWriter es la parte de *kafka.Writer que usa el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica los eventos de integración en el topic del writer,
// con la clave de partición del evento y su tipo en una cabecera.
type KafkaPublisher struct {
	writer MessageWriter
	log    *zap.Logger
}

var _ sharedBus.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(writer MessageWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encoding event: %w", err)
	}

	msg := kafka.Message{Value: value}
	if k, ok := event.(sharedBus.PartitionKeyer); ok {
		msg.Key = []byte(k.PartitionKey())
	}
	if ie, ok := event.(sharedEvents.IntegrationEvent); ok {
		msg.Headers = append(msg.Headers, kafka.Header{Key: eventTypeHeader, Value: []byte(ie.Type)})
		msg.Time = ie.Timestamp
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.Error(err))
		return err
	}
	p.log.Debug("Evento publicado en Kafka", zap.ByteString("key", msg.Key))
	return nil
}
