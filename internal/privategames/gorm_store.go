package privategames

import (
	"context"
	"errors"

	"gamehub/internal/db"

	"gorm.io/gorm"
)

// GormStore keeps private games in the relational database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(conn *gorm.DB) *GormStore {
	return &GormStore{db: conn}
}

func (s *GormStore) Create(ctx context.Context, game *db.PrivateGame) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := db.Game{Status: db.GameStatusActive}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		game.ID = record.ID
		game.CurrentPlayers = 0
		return tx.Create(game).Error
	})
	if err != nil {
		game.ID = 0
	}
	return err
}

func (s *GormStore) List(ctx context.Context) ([]Summary, error) {
	summaries := make([]Summary, 0)
	err := s.db.WithContext(ctx).
		Model(&db.PrivateGame{}).
		Select("id", "max_players", "current_players").
		Order("id asc").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *GormStore) FindByCredentials(ctx context.Context, id uint, passwd string) (*db.PrivateGame, bool, error) {
	var game db.PrivateGame
	err := s.db.WithContext(ctx).Where("id = ? AND passwd = ?", id, passwd).Take(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &game, true, nil
}

func (s *GormStore) Delete(ctx context.Context, id uint, cascade bool) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&db.PrivateGame{}, id)
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		if cascade && removed > 0 {
			return tx.Delete(&db.Game{}, id).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *GormStore) Players(ctx context.Context, id uint) (int, bool, error) {
	var game db.PrivateGame
	err := s.db.WithContext(ctx).Select("id", "current_players").Where("id = ?", id).Take(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return game.CurrentPlayers, true, nil
}

// AdjustPlayers applies delta with a single guarded UPDATE so concurrent
// claims can never push the counter past maxPlayers or below zero.
func (s *GormStore) AdjustPlayers(ctx context.Context, id uint, delta int) (int, bool, error) {
	var (
		players int
		found   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&db.PrivateGame{}).Where("id = ?", id)
		if delta > 0 {
			query = query.Where("current_players + ? <= max_players", delta)
		} else {
			query = query.Where("current_players + ? >= 0", delta)
		}
		result := query.Update("current_players", gorm.Expr("current_players + ?", delta))
		if result.Error != nil {
			return result.Error
		}

		var game db.PrivateGame
		err := tx.Select("id", "current_players").Where("id = ?", id).Take(&game).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		players = game.CurrentPlayers
		if result.RowsAffected == 0 {
			if delta > 0 {
				return ErrGameFull
			}
			return ErrNoSeatsTaken
		}
		return nil
	})
	return players, found, err
}
