package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const setTimeout = 200 * time.Millisecond

// AsyncCacheSet actualiza la caché en segundo plano; un fallo sólo se registra.
func AsyncCacheSet(ctx context.Context, cache Cache, key string, value interface{}, ttl time.Duration, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), setTimeout)
		defer cancel()

		if err := cache.Set(cacheCtx, key, value, ttl); err != nil {
			log.Warn("Cache update failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// AsyncCacheSetIfCurrent es AsyncCacheSet para un valor leído con la
// generación seen. Si gen ya avanzó no se guarda nada, y si avanza mientras
// se guarda la clave se vuelve a borrar.
func AsyncCacheSetIfCurrent(ctx context.Context, cache Cache, gen *Generation, seen uint64, key string, value interface{}, ttl time.Duration, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		if gen.Current() != seen {
			return
		}

		cacheCtx, cancel := context.WithTimeout(context.Background(), setTimeout)
		defer cancel()

		if err := cache.Set(cacheCtx, key, value, ttl); err != nil {
			log.Warn("Cache update failed", zap.String("key", key), zap.Error(err))
			return
		}

		if gen.Current() != seen {
			delCtx, delCancel := context.WithTimeout(context.Background(), setTimeout)
			defer delCancel()
			if err := cache.Delete(delCtx, key); err != nil {
				log.Warn("Stale cache entry not removed", zap.String("key", key), zap.Error(err))
			}
		}
	}()
}

// SyncCacheDelete borra la clave antes de devolver el control, de modo que la
// siguiente lectura vuelve al almacén.
func SyncCacheDelete(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	if err := cache.Delete(ctx, key); err != nil {
		log.Warn("Cache deletion failed", zap.String("key", key), zap.Error(err))
	}
}
