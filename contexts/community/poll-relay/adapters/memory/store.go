package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"quorum/contexts/community/poll-relay/domain/entities"
	domainerrors "quorum/contexts/community/poll-relay/domain/errors"
	"quorum/contexts/community/poll-relay/ports"
)

type Store struct {
	mu sync.RWMutex

	polls     map[string]entities.TrackedPoll
	residents map[entities.UserID]entities.Resident
	admins    map[entities.UserID]bool
	offset    int64
}

func NewStore(seed []entities.TrackedPoll) *Store {
	polls := make(map[string]entities.TrackedPoll, len(seed))
	for _, poll := range seed {
		polls[poll.PollID] = copyTracked(poll)
	}
	return &Store{
		polls:     polls,
		residents: make(map[entities.UserID]entities.Resident),
		admins:    make(map[entities.UserID]bool),
	}
}

func (s *Store) SetResident(resident entities.Resident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.residents[resident.ID] = resident
}

func (s *Store) RemoveResident(userID entities.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.residents, userID)
}

func (s *Store) SetAdmin(userID entities.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[userID] = true
}

func (s *Store) CreateTrackedPoll(_ context.Context, poll entities.TrackedPoll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pollID := strings.TrimSpace(poll.PollID)
	if _, exists := s.polls[pollID]; exists {
		return domainerrors.ErrPollAlreadyTracked
	}
	poll.PollID = pollID
	poll.VotedUsers = entities.NormalizeRoster(poll.VotedUsers)
	s.polls[pollID] = poll
	return nil
}

func (s *Store) FindTrackedPoll(_ context.Context, pollID string) (entities.TrackedPoll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[strings.TrimSpace(pollID)]
	if !ok {
		return entities.TrackedPoll{}, domainerrors.ErrPollNotFound
	}
	return copyTracked(poll), nil
}

func (s *Store) ApplyVote(
	_ context.Context,
	pollID string,
	userID entities.UserID,
	retract bool,
) (entities.TrackedPoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	poll, ok := s.polls[strings.TrimSpace(pollID)]
	if !ok {
		return entities.TrackedPoll{}, domainerrors.ErrPollNotFound
	}
	updated := poll.WithVote(userID, retract)
	s.polls[updated.PollID] = updated
	return copyTracked(updated), nil
}

func (s *Store) ListResidents(_ context.Context) ([]entities.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Resident, 0, len(s.residents))
	for _, resident := range s.residents {
		items = append(items, resident)
	}
	sortResidentsByID(items)
	return items, nil
}

func (s *Store) ListNonVoters(_ context.Context, roster []entities.UserID) ([]entities.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voted := make(map[entities.UserID]bool, len(roster))
	for _, userID := range roster {
		voted[userID] = true
	}
	items := make([]entities.Resident, 0, len(s.residents))
	for _, resident := range s.residents {
		if voted[resident.ID] {
			continue
		}
		items = append(items, resident)
	}
	sortResidentsByID(items)
	return items, nil
}

func (s *Store) ResolveRole(_ context.Context, userID entities.UserID) (entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admins[userID] {
		return entities.RoleAdmin, nil
	}
	if _, ok := s.residents[userID]; ok {
		return entities.RoleResident, nil
	}
	return entities.RoleGuest, nil
}

func (s *Store) LoadOffset(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset, nil
}

func (s *Store) SaveOffset(_ context.Context, offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = offset
	return nil
}

func copyTracked(poll entities.TrackedPoll) entities.TrackedPoll {
	poll.VotedUsers = append([]entities.UserID(nil), poll.VotedUsers...)
	return poll
}

func sortResidentsByID(items []entities.Resident) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
}

var _ ports.TrackedPollRepository = (*Store)(nil)
var _ ports.ResidentDirectory = (*Store)(nil)
var _ ports.Authorizer = (*Store)(nil)
var _ ports.OffsetStore = (*Store)(nil)
