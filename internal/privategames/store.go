package privategames

import (
	"context"

	"gamehub/internal/db"
)

// Summary is the listing view of a private game. It never carries the
// password or the link.
type Summary struct {
	ID             uint `json:"id"`
	MaxPlayers     int  `json:"maxPlayers"`
	CurrentPlayers int  `json:"currentPlayers"`
}

// Store persists the Game/PrivateGame pair. Lookups report a missing row
// with found == false and a nil error.
type Store interface {
	// Create inserts an ACTIVE Game and its PrivateGame atomically and sets
	// game.ID to the shared id.
	Create(ctx context.Context, game *db.PrivateGame) error
	List(ctx context.Context) ([]Summary, error)
	FindByCredentials(ctx context.Context, id uint, passwd string) (*db.PrivateGame, bool, error)
	// Delete removes the PrivateGame row, and the Game row too when
	// cascade is set. It returns the number of PrivateGame rows removed.
	Delete(ctx context.Context, id uint, cascade bool) (int64, error)
	Players(ctx context.Context, id uint) (int, bool, error)
	// AdjustPlayers moves currentPlayers by delta (+1 or -1) while keeping
	// it within [0, maxPlayers].
	AdjustPlayers(ctx context.Context, id uint, delta int) (int, bool, error)
}
