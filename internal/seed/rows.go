package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamehub/internal/db"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

func (l *Loader) userRows(t *table) ([]db.User, error) {
	if err := t.require("username", "email", "password"); err != nil {
		return nil, err
	}
	rows := make([]db.User, 0, len(t.records))
	for _, rec := range t.records {
		id, err := rec.id("id")
		if err != nil {
			return nil, err
		}
		username, err := rec.required("username")
		if err != nil {
			return nil, err
		}
		email, err := rec.required("email")
		if err != nil {
			return nil, err
		}
		if !strings.Contains(email, "@") {
			return nil, rec.fail("email", fmt.Errorf("invalid email %q", email))
		}
		password, err := rec.required("password")
		if err != nil {
			return nil, err
		}
		hash, err := l.hashPassword(password)
		if err != nil {
			return nil, rec.fail("password", err)
		}
		level, err := rec.integer("level", 1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, db.User{
			ID:           id,
			Username:     username,
			Email:        strings.ToLower(email),
			PasswordHash: hash,
			Level:        level,
		})
	}
	return rows, nil
}

func (l *Loader) levelRows(t *table) ([]db.Level, error) {
	if err := t.require("number", "name", "xp_required"); err != nil {
		return nil, err
	}
	rows := make([]db.Level, 0, len(t.records))
	for _, rec := range t.records {
		id, err := rec.id("id")
		if err != nil {
			return nil, err
		}
		number, err := rec.requiredInteger("number")
		if err != nil {
			return nil, err
		}
		name, err := rec.required("name")
		if err != nil {
			return nil, err
		}
		xp, err := rec.requiredInteger("xp_required")
		if err != nil {
			return nil, err
		}
		if xp < 0 {
			return nil, rec.fail("xp_required", errors.New("must not be negative"))
		}
		rows = append(rows, db.Level{ID: id, Number: number, Name: name, XPRequired: xp})
	}
	return rows, nil
}

func (l *Loader) achievementRows(t *table) ([]db.Achievement, error) {
	if err := t.require("name"); err != nil {
		return nil, err
	}
	rows := make([]db.Achievement, 0, len(t.records))
	for _, rec := range t.records {
		id, err := rec.id("id")
		if err != nil {
			return nil, err
		}
		name, err := rec.required("name")
		if err != nil {
			return nil, err
		}
		points, err := rec.integer("points", 0)
		if err != nil {
			return nil, err
		}
		rows = append(rows, db.Achievement{
			ID:          id,
			Name:        name,
			Description: rec.text("description"),
			Points:      points,
		})
	}
	return rows, nil
}

func (l *Loader) userAchievementRows(t *table) ([]db.UserAchievement, error) {
	if err := t.require("user_id", "achievement_id"); err != nil {
		return nil, err
	}
	now := l.now()
	rows := make([]db.UserAchievement, 0, len(t.records))
	for _, rec := range t.records {
		userID, err := rec.requiredID("user_id")
		if err != nil {
			return nil, err
		}
		achievementID, err := rec.requiredID("achievement_id")
		if err != nil {
			return nil, err
		}
		unlockedAt, err := rec.timestamp("unlocked_at", now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, db.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
			UnlockedAt:    unlockedAt,
		})
	}
	return rows, nil
}

func (l *Loader) itemRows(t *table) ([]db.Item, error) {
	if err := t.require("name"); err != nil {
		return nil, err
	}
	rows := make([]db.Item, 0, len(t.records))
	for _, rec := range t.records {
		id, err := rec.id("id")
		if err != nil {
			return nil, err
		}
		name, err := rec.required("name")
		if err != nil {
			return nil, err
		}
		price, err := rec.integer("price", 0)
		if err != nil {
			return nil, err
		}
		if price < 0 {
			return nil, rec.fail("price", errors.New("must not be negative"))
		}
		rarity := strings.ToLower(rec.text("rarity"))
		if rarity == "" {
			rarity = "common"
		}
		attrs, err := parseAttributes(rec.text("attributes"))
		if err != nil {
			return nil, rec.fail("attributes", err)
		}
		rows = append(rows, db.Item{
			ID:          id,
			Name:        name,
			Description: rec.text("description"),
			Price:       price,
			Rarity:      rarity,
			Attributes:  attrs,
		})
	}
	return rows, nil
}

func parseAttributes(raw string) (datatypes.JSON, error) {
	if raw == "" {
		return datatypes.JSON("{}"), nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil || attrs == nil {
		return nil, errors.New("attributes must be a JSON object")
	}
	normalized, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(normalized), nil
}

func (l *Loader) hashPassword(password string) (string, error) {
	if isBcryptHash(password) {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isBcryptHash(value string) bool {
	if len(value) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(value, prefix) {
			_, err := bcrypt.Cost([]byte(value))
			return err == nil
		}
	}
	return false
}

func defaultNow() time.Time {
	return time.Now().UTC()
}
