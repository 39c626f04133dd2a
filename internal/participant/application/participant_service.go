package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/participant/domain"
	sharedEvents "github.com/davicafu/participantes/internal/shared/events"
	sharedBus "github.com/davicafu/participantes/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/participantes/internal/shared/infra/platform/cache"
)

// ParticipantService define los casos de uso de inscripción.
// Incorpora repositorio, caché, backups por evento, bus de eventos y logger.
type ParticipantService struct {
	repo      domain.ParticipantRepository
	cache     sharedCache.Cache
	snapshots domain.Snapshotter
	events    sharedBus.Publisher
	log       *zap.Logger
	now       func() time.Time

	// listGen avanza con cada escritura e invalida los rellenos en curso.
	listGen sharedCache.Generation
}

// NewParticipantService es el constructor. cache, snapshots y events pueden ser nil.
func NewParticipantService(
	repo domain.ParticipantRepository,
	cache sharedCache.Cache,
	snapshots domain.Snapshotter,
	events sharedBus.Publisher,
	log *zap.Logger,
) *ParticipantService {
	return &ParticipantService{
		repo:      repo,
		cache:     cache,
		snapshots: snapshots,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// WithClock sustituye el reloj, útil en tests.
func (s *ParticipantService) WithClock(now func() time.Time) *ParticipantService {
	s.now = now
	return s
}

// Register valida, comprueba el email y guarda el participante.
func (s *ParticipantService) Register(ctx context.Context, in domain.RegisterInput) (*domain.Participant, error) {
	p, err := domain.NewParticipant(in, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, p.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Error("Failed to create participant", zap.Error(err))
		}
		return nil, err
	}

	s.log.Info("Participante registrado", zap.Int64("id", p.ID), zap.String("email", p.Email))

	s.afterMutation(ctx, sharedEvents.ParticipantRegistered,
		sharedEvents.ParticipantRegisteredData{ID: p.ID, Email: p.Email})

	return p, nil
}

// List devuelve todos los participantes, el más reciente primero (cache-aside).
// Un almacén corrupto se registra y se trata como vacío.
func (s *ParticipantService) List(ctx context.Context) ([]*domain.Participant, error) {
	if s.cache != nil {
		var cached []*domain.Participant
		if hit, _ := s.cache.Get(ctx, domain.CacheKeyAll, &cached); hit {
			return cached, nil
		}
	}

	seen := s.listGen.Current()
	participants, err := s.repo.List(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStoreCorrupt) {
			s.log.Warn("⚠️ Almacén corrupto, se devuelve lista vacía", zap.Error(err))
			return []*domain.Participant{}, nil
		}
		return nil, err
	}

	sharedCache.AsyncCacheSetIfCurrent(ctx, s.cache, &s.listGen, seen, domain.CacheKeyAll, participants, 0, s.log)

	return participants, nil
}

func (s *ParticipantService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if errors.Is(err, domain.ErrStoreCorrupt) {
		s.log.Warn("⚠️ Almacén corrupto, se cuenta como vacío", zap.Error(err))
		return 0, nil
	}
	return n, err
}

// DeleteAll vacía el almacén.
func (s *ParticipantService) DeleteAll(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.log.Error("Failed to delete participants", zap.Error(err))
		return 0, err
	}

	s.log.Info("Participantes eliminados", zap.Int("eliminados", removed))

	s.afterMutation(ctx, sharedEvents.ParticipantsCleared,
		sharedEvents.ParticipantsClearedData{Removed: removed})

	return removed, nil
}

// afterMutation ejecuta los efectos secundarios de una escritura. Ninguno de
// ellos hace fallar la operación principal.
func (s *ParticipantService) afterMutation(ctx context.Context, eventType string, data interface{}) {
	s.listGen.Bump()
	sharedCache.SyncCacheDelete(ctx, s.cache, domain.CacheKeyAll, s.log)

	if s.snapshots != nil {
		if err := s.snapshots.TakeEventSnapshot(ctx); err != nil {
			s.log.Warn("⚠️ No se pudo crear el backup por evento", zap.String("event_type", eventType), zap.Error(err))
		}
	}

	if s.events != nil {
		evt, err := sharedEvents.NewIntegrationEvent(eventType, data)
		if err != nil {
			s.log.Warn("Failed to build integration event", zap.String("event_type", eventType), zap.Error(err))
			return
		}
		if err := s.events.Publish(ctx, evt); err != nil {
			s.log.Warn("⚠️ No se pudo publicar el evento", zap.String("event_type", eventType), zap.Error(err))
		}
	}
}
