package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	backupApp "github.com/davicafu/participantes/internal/backup/application"
	backupFS "github.com/davicafu/participantes/internal/backup/infra/outbound/filesystem"
	"github.com/davicafu/participantes/internal/config"
	"github.com/davicafu/participantes/internal/participant/domain"
	participantCache "github.com/davicafu/participantes/internal/participant/infra/outbound/cache"
	"github.com/davicafu/participantes/internal/participant/infra/outbound/db/postgres"
	"github.com/davicafu/participantes/internal/participant/infra/outbound/db/sqlite"
	"github.com/davicafu/participantes/internal/participant/infra/outbound/filesystem"
	"github.com/davicafu/participantes/internal/remotesync"
	infraEvents "github.com/davicafu/participantes/internal/shared/infra/events"
	sharedBus "github.com/davicafu/participantes/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/participantes/internal/shared/infra/platform/cache"
	platformDB "github.com/davicafu/participantes/internal/shared/infra/platform/db"
)

// openStore aplica las migraciones si hace falta y devuelve el repositorio
// del driver configurado junto a su función de cierre.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.ParticipantRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		if err := platformDB.RunMigrations(sqlite.Migrations, sqlite.MigrationsDir, platformDB.SQLiteURL(cfg.SQLitePath), log); err != nil {
			return nil, nil, err
		}
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("✅ Almacén SQLite listo", zap.String("path", cfg.SQLitePath))
		return sqlite.NewParticipantRepoSQLite(db), db.Close, nil

	case config.DriverPostgres:
		if err := platformDB.RunMigrations(postgres.Migrations, postgres.MigrationsDir, platformDB.PostgresURL(cfg.DatabaseURL), log); err != nil {
			return nil, nil, err
		}
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("✅ Almacén Postgres listo")
		return postgres.NewParticipantRepoPostgres(db), db.Close, nil

	case config.DriverJSON:
		log.Info("✅ Almacén JSON listo", zap.String("path", cfg.JSONPath))
		return filesystem.NewJSONParticipantStorage(cfg.JSONPath), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("store driver no soportado: %q", cfg.StoreDriver)
}

// newCache usa Redis si está configurado y responde; si no, caché en memoria.
func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedCache.Cache, func()) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rdb.Ping(pingCtx).Err()
		if err == nil {
			log.Info("✅ Redis conectado, cache habilitado", zap.String("addr", cfg.RedisAddr))
			return participantCache.NewRedisCache(rdb, cfg.CacheTTL), func() { _ = rdb.Close() }
		}
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		_ = rdb.Close()
	}
	mem := participantCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	return mem, mem.Stop
}

// newEventBus devuelve el bus en memoria (del que cuelga el worker de
// sincronización) y el publisher final, que añade Kafka si hay brokers.
func newEventBus(cfg *config.Config, log *zap.Logger) (*infraEvents.InMemoryEventBus, sharedBus.Publisher, func()) {
	inMemory := infraEvents.NewInMemoryEventBus(cfg.KafkaTopic, log)
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("⚡️ Usando bus de eventos en memoria")
		return inMemory, inMemory, func() {}
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	log.Info("🚀 Publicando eventos también en Kafka",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	publisher := infraEvents.NewFanOut(inMemory, infraEvents.NewKafkaPublisher(writer, log))
	return inMemory, publisher, func() { _ = writer.Close() }
}

// newBackupService crea el servicio de backups; queda deshabilitado si el
// almacén no es un fichero.
func newBackupService(cfg *config.Config, log *zap.Logger) (*backupApp.BackupService, error) {
	source := cfg.StorePath()
	if source == "" {
		log.Info("Backups deshabilitados: el almacén no es un fichero", zap.String("driver", cfg.StoreDriver))
		return backupApp.NewBackupService(nil, "", cfg.BackupRetentionDays, log), nil
	}

	storage, err := backupFS.NewSnapshotStorage(cfg.BackupDir)
	if err != nil {
		return nil, err
	}
	return backupApp.NewBackupService(storage, source, cfg.BackupRetentionDays, log), nil
}

func newGitHubClient(cfg *config.Config, log *zap.Logger) *remotesync.GitHubClient {
	return remotesync.NewGitHubClient(remotesync.Config{
		Token:    cfg.GitHubToken,
		Owner:    cfg.GitHubOwner,
		Repo:     cfg.GitHubRepo,
		Branch:   cfg.GitHubBranch,
		FilePath: cfg.GitHubFilePath,
		APIURL:   cfg.GitHubAPIURL,
		Timeout:  cfg.GitHubTimeout,
	}, cfg.StorePath(), log)
}
