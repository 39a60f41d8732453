package db

import "time"

type GameStatus string

const (
	GameStatusActive GameStatus = "ACTIVE"
)

type Game struct {
	ID        uint       `gorm:"primaryKey"`
	Status    GameStatus `gorm:"size:16;not null;index"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`

	// Private is never loaded; it declares private_games.id -> games.id.
	Private *PrivateGame `gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// PrivateGame shares its primary key with the Game row it belongs to.
// Passwd is stored as given; joins compare it verbatim.
type PrivateGame struct {
	ID             uint      `gorm:"primaryKey;autoIncrement:false"`
	Passwd         string    `gorm:"size:128;not null"`
	Link           string    `gorm:"size:512;not null"`
	MaxPlayers     int       `gorm:"not null;check:chk_private_games_max_players,max_players >= 0"`
	CurrentPlayers int       `gorm:"not null;check:chk_private_games_current_players,current_players >= 0 AND current_players <= max_players"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}
