package models

import "time"

// Position is an electable office, e.g. President or Secretary.
type Position struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Order       int       `gorm:"column:display_order;not null;default:0;index" json:"order"` // lower numbers first
	IsActive    bool      `gorm:"not null" json:"is_active"`                                  // accepting votes
	CreatedAt   time.Time `json:"created_at"`

	Candidates []Candidate `gorm:"foreignKey:PositionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Candidate runs for exactly one Position. Names are unique within a position.
type Candidate struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PositionID uint      `gorm:"not null;uniqueIndex:idx_position_candidate_name" json:"position"`
	Name       string    `gorm:"size:100;not null;uniqueIndex:idx_position_candidate_name" json:"name"`
	Bio        string    `gorm:"type:text" json:"bio"`
	PhotoURL   string    `gorm:"size:500" json:"photo_url"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	Position Position `gorm:"foreignKey:PositionID" json:"-"`
}

// Vote is one user's immutable choice of candidate for a position.
// At most one vote exists per (user, position).
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_position" json:"-"`
	CandidateID uint      `gorm:"not null;index" json:"candidate"`
	PositionID  uint      `gorm:"not null;uniqueIndex:idx_user_position;index" json:"position"`
	Timestamp   time.Time `gorm:"autoCreateTime" json:"timestamp"`

	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Position  Position  `gorm:"foreignKey:PositionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
