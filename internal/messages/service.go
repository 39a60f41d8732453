// Package messages stores direct messages between users.
package messages

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"gamehub/internal/db"
	"gamehub/internal/logging"

	"gorm.io/gorm"
)

const (
	MaxContentLength  = 2000
	maxPerPage        = 100
	maxPageNumber     = 1_000_000
	inboxOrder        = "created_at desc, id desc"
	conversationOrder = "created_at asc, id asc"
)

var (
	ErrUnavailable    = errors.New("messaging requires a database")
	ErrEmptyContent   = errors.New("content is required")
	ErrContentTooLong = errors.New("content must be 2000 characters or fewer")
	ErrSelfMessage    = errors.New("sender and receiver must differ")
	ErrMissingUser    = errors.New("senderId and receiverId are required")
	ErrUnknownUser    = errors.New("sender or receiver does not exist")
)

var defaultPage = Page{Number: 1, PerPage: 20}

// Page selects a 1-based slice of a listing.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) normalize() Page {
	if p.Number <= 0 {
		p.Number = defaultPage.Number
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultPage.PerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if p.Number > maxPageNumber {
		p.Number = maxPageNumber
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.PerPage
}

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewService(conn *gorm.DB, logger *slog.Logger) *Service {
	return &Service{
		db:     conn,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send stores a new message from sender to receiver.
func (s *Service) Send(ctx context.Context, senderID, receiverID uint, content string) (*db.Message, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	if senderID == 0 || receiverID == 0 {
		return nil, ErrMissingUser
	}
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}
	text, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	msg := db.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    text,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	logging.Info(logging.FromContext(ctx, s.logger), "message sent",
		logging.FieldMessageID, msg.ID, "sender_id", senderID, "receiver_id", receiverID)
	return &msg, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*db.Message, bool, error) {
	if s.db == nil {
		return nil, false, ErrUnavailable
	}
	var msg db.Message
	err := s.db.WithContext(ctx).Take(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &msg, true, nil
}

// Inbox lists messages received by userID, newest first.
func (s *Service) Inbox(ctx context.Context, userID uint, page Page) ([]db.Message, int64, error) {
	return s.list(ctx, page, inboxOrder, func(q *gorm.DB) *gorm.DB {
		return q.Where("receiver_id = ?", userID)
	})
}

// Sent lists messages sent by userID, newest first.
func (s *Service) Sent(ctx context.Context, userID uint, page Page) ([]db.Message, int64, error) {
	return s.list(ctx, page, inboxOrder, func(q *gorm.DB) *gorm.DB {
		return q.Where("sender_id = ?", userID)
	})
}

// Conversation lists messages exchanged between two users, oldest first.
func (s *Service) Conversation(ctx context.Context, userID, otherID uint, page Page) ([]db.Message, int64, error) {
	return s.list(ctx, page, conversationOrder, func(q *gorm.DB) *gorm.DB {
		return q.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID)
	})
}

// Edit replaces the content of a message.
func (s *Service) Edit(ctx context.Context, id uint, content string) (*db.Message, bool, error) {
	text, err := ValidateContent(content)
	if err != nil {
		return nil, false, err
	}
	return s.update(ctx, id, map[string]any{"content": text})
}

// MarkRead stamps the message as read. Already read messages keep their
// original timestamp, including under concurrent calls.
func (s *Service) MarkRead(ctx context.Context, id uint) (*db.Message, bool, error) {
	if s.db == nil {
		return nil, false, ErrUnavailable
	}
	err := s.db.WithContext(ctx).Model(&db.Message{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", s.now()).Error
	if err != nil {
		return nil, false, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	if s.db == nil {
		return false, ErrUnavailable
	}
	result := s.db.WithContext(ctx).Delete(&db.Message{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Service) update(ctx context.Context, id uint, updates map[string]any) (*db.Message, bool, error) {
	if s.db == nil {
		return nil, false, ErrUnavailable
	}
	result := s.db.WithContext(ctx).Model(&db.Message{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return s.Get(ctx, id)
}

func (s *Service) list(ctx context.Context, page Page, order string, scope func(*gorm.DB) *gorm.DB) ([]db.Message, int64, error) {
	if s.db == nil {
		return nil, 0, ErrUnavailable
	}
	page = page.normalize()
	var total int64
	if err := scope(s.db.WithContext(ctx).Model(&db.Message{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]db.Message, 0)
	err := scope(s.db.WithContext(ctx)).
		Order(order).
		Offset(page.offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ValidateContent trims the message body and checks its length.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return trimmed, nil
}
