package cache

import (
	"context"
	"time"
)

// Cache guarda valores serializados en JSON bajo una clave con caducidad.
type Cache interface {
	// Get rellena dest (un puntero) si la clave existe y no ha caducado.
	// Devuelve (false, nil) en un miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda val. Con ttl <= 0 se usa la caducidad por defecto del adapter.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
