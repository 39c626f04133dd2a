package bus

import "context"

// PartitionKeyer lo implementan los eventos que quieren fijar la clave de
// partición al publicarse en un broker.
type PartitionKeyer interface {
	PartitionKey() string
}

// Publisher entrega un evento de integración a uno o varios destinos. Cada
// adapter decide cómo serializarlo.
type Publisher interface {
	Publish(ctx context.Context, event interface{}) error
}
