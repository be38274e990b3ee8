package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's rating of one resource. There is at most one review
// per (ResourceID, UserID).
type Review struct {
	ID          string     `json:"id"`
	ResourceID  string     `json:"resourceId"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName"`
	UserCollege string     `json:"userCollege"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

type ReviewInput struct {
	ResourceID string
	Reviewer   Identity
	Rating     int
	Comment    string
}
