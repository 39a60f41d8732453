package db

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;not null;uniqueIndex"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	Level        int       `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type Level struct {
	ID         uint      `gorm:"primaryKey"`
	Number     int       `gorm:"not null;uniqueIndex"`
	Name       string    `gorm:"size:64;not null"`
	XPRequired int       `gorm:"not null;check:chk_levels_xp_required,xp_required >= 0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type Achievement struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:128;not null;uniqueIndex"`
	Description string    `gorm:"size:512"`
	Points      int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type UserAchievement struct {
	UserID        uint      `gorm:"primaryKey;autoIncrement:false"`
	AchievementID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	UnlockedAt    time.Time `gorm:"not null"`

	User        *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE"`
}

type Item struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"size:128;not null;uniqueIndex"`
	Description string         `gorm:"size:512"`
	Price       int            `gorm:"not null;check:chk_items_price,price >= 0"`
	Rarity      string         `gorm:"size:32;not null"`
	Attributes  datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}
