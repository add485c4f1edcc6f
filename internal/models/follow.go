package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed follower -> author edge. Self-follows are
// rejected in the service layer before any write.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follower_author" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follower_author" json:"author_id"`
}

func (Follow) TableName() string {
	return "follows"
}
