package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/davicafu/participantes/internal/participant/domain"
)

// InMemoryParticipantRepo simula ParticipantRepository con ids autoincrementales
// que no se reutilizan tras DeleteAll.
type InMemoryParticipantRepo struct {
	Participants []*domain.Participant
	// Err, si no es nil, se devuelve en todas las operaciones.
	Err    error
	nextID int64
	mu     sync.Mutex
}

var _ domain.ParticipantRepository = (*InMemoryParticipantRepo)(nil)

func NewInMemoryParticipantRepo() *InMemoryParticipantRepo {
	return &InMemoryParticipantRepo{Participants: []*domain.Participant{}}
}

func (r *InMemoryParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.Participants {
		if domain.NormalizeEmail(existing.Email) == domain.NormalizeEmail(p.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.Participants = append(r.Participants, p)
	return nil
}

func (r *InMemoryParticipantRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	for _, p := range r.Participants {
		if domain.NormalizeEmail(p.Email) == domain.NormalizeEmail(email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryParticipantRepo) List(ctx context.Context) ([]*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	list := append([]*domain.Participant{}, r.Participants...)
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *InMemoryParticipantRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(r.Participants), nil
}

func (r *InMemoryParticipantRepo) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	n := len(r.Participants)
	r.Participants = []*domain.Participant{}
	return n, nil
}

// MockSnapshotter simula el servicio de backups por evento.
type MockSnapshotter struct {
	mock.Mock
}

func (m *MockSnapshotter) TakeEventSnapshot(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
