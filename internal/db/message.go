package db

import "time"

type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   uint       `gorm:"index;not null" json:"senderId"`
	ReceiverID uint       `gorm:"index;not null;check:chk_messages_distinct_users,sender_id <> receiver_id" json:"receiverId"`
	Content    string     `gorm:"size:2000;not null" json:"content"`
	ReadAt     *time.Time `json:"readAt"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`

	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
}
