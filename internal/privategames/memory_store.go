package privategames

import (
	"context"
	"sort"
	"sync"
	"time"

	"gamehub/internal/db"
)

type memoryGame struct {
	status  db.GameStatus
	private *db.PrivateGame
}

// MemoryStore keeps private games in process memory. It backs the server
// when no database is configured and follows the same rules as GormStore.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	games  map[uint]*memoryGame
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		games:  make(map[uint]*memoryGame),
	}
}

func (s *MemoryStore) Create(ctx context.Context, game *db.PrivateGame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	now := time.Now().UTC()
	game.ID = id
	game.CurrentPlayers = 0
	game.CreatedAt = now
	game.UpdatedAt = now
	stored := *game
	s.games[id] = &memoryGame{status: db.GameStatusActive, private: &stored}
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]Summary, 0, len(s.games))
	for _, game := range s.games {
		if game.private == nil {
			continue
		}
		list = append(list, Summary{
			ID:             game.private.ID,
			MaxPlayers:     game.private.MaxPlayers,
			CurrentPlayers: game.private.CurrentPlayers,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *MemoryStore) FindByCredentials(ctx context.Context, id uint, passwd string) (*db.PrivateGame, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok || game.private == nil || game.private.Passwd != passwd {
		return nil, false, nil
	}
	found := *game.private
	return &found, true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uint, cascade bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok || game.private == nil {
		return 0, nil
	}
	if cascade {
		delete(s.games, id)
	} else {
		game.private = nil
	}
	return 1, nil
}

func (s *MemoryStore) Players(ctx context.Context, id uint) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok || game.private == nil {
		return 0, false, nil
	}
	return game.private.CurrentPlayers, true, nil
}

func (s *MemoryStore) AdjustPlayers(ctx context.Context, id uint, delta int) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok || game.private == nil {
		return 0, false, nil
	}
	pg := game.private
	next := pg.CurrentPlayers + delta
	if next > pg.MaxPlayers {
		return pg.CurrentPlayers, true, ErrGameFull
	}
	if next < 0 {
		return pg.CurrentPlayers, true, ErrNoSeatsTaken
	}
	pg.CurrentPlayers = next
	pg.UpdatedAt = time.Now().UTC()
	return next, true, nil
}

// GameStatus reports the status of the Game row behind id, which outlives
// its PrivateGame unless deletes cascade.
func (s *MemoryStore) GameStatus(id uint) (db.GameStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return "", false
	}
	return game.status, true
}
