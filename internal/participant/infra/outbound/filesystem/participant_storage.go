package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/davicafu/participantes/internal/participant/domain"
)

// JSONParticipantStorage guarda los participantes como un array JSON en un
// fichero. Cada mutación reescribe el fichero completo.
type JSONParticipantStorage struct {
	filePath string
	mu       sync.Mutex
}

var _ domain.ParticipantRepository = (*JSONParticipantStorage)(nil)

func NewJSONParticipantStorage(filePath string) *JSONParticipantStorage {
	return &JSONParticipantStorage{filePath: filePath}
}

// Create añade el participante con id = max(id)+1. Tras un DeleteAll la
// numeración vuelve a empezar en 1.
func (s *JSONParticipantStorage) Create(ctx context.Context, p *domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.load()
	if err != nil {
		return err
	}

	var maxID int64
	for _, existing := range participants {
		if domain.NormalizeEmail(existing.Email) == domain.NormalizeEmail(p.Email) {
			return domain.ErrDuplicateEmail
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	p.ID = maxID + 1
	participants = append(participants, p)
	return s.write(participants)
}

func (s *JSONParticipantStorage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.load()
	if err != nil {
		return false, err
	}
	email = domain.NormalizeEmail(email)
	for _, p := range participants {
		if domain.NormalizeEmail(p.Email) == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *JSONParticipantStorage) List(ctx context.Context) ([]*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].ID > participants[j].ID
	})
	return participants, nil
}

func (s *JSONParticipantStorage) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(participants), nil
}

// DeleteAll deja un array vacío aunque el fichero estuviera corrupto.
func (s *JSONParticipantStorage) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.load()
	if err != nil {
		participants = nil
	}
	if err := s.write([]*domain.Participant{}); err != nil {
		return 0, err
	}
	return len(participants), nil
}

// load es el helper interno no concurrente. Fichero ausente o vacío es una
// lista vacía; contenido ilegible es ErrStoreCorrupt.
func (s *JSONParticipantStorage) load() ([]*domain.Participant, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Participant{}, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return []*domain.Participant{}, nil
	}

	var participants []*domain.Participant
	if err := json.Unmarshal(data, &participants); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStoreCorrupt, s.filePath, err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}

	return participants, nil
}

// write escribe a un temporal y lo renombra para no dejar el fichero a medias.
func (s *JSONParticipantStorage) write(participants []*domain.Participant) error {
	data, err := json.MarshalIndent(participants, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}
