package models

import "time"

type WorkflowStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"not null" json:"name"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	Color     string    `gorm:"type:varchar(32);not null" json:"color"`
	IsDefault bool      `gorm:"not null" json:"is_default"`
	IsFinal   bool      `gorm:"not null" json:"is_final"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusKind is the closed set of workflow statuses the application
// attaches behaviour to. Any other slug is StatusCustom.
type StatusKind int

const (
	StatusCustom StatusKind = iota
	StatusPending
	StatusReviewing
	StatusApproved
	StatusCompleted
	StatusRejected
	StatusCancelled
)

const (
	SlugPending   = "pending"
	SlugReviewing = "reviewing"
	SlugApproved  = "approved"
	SlugCompleted = "completed"
	SlugRejected  = "rejected"
	SlugCancelled = "cancelled"
)

var statusKinds = map[string]StatusKind{
	SlugPending:   StatusPending,
	SlugReviewing: StatusReviewing,
	SlugApproved:  StatusApproved,
	SlugCompleted: StatusCompleted,
	SlugRejected:  StatusRejected,
	SlugCancelled: StatusCancelled,
}

func KindOf(slug string) StatusKind {
	if k, ok := statusKinds[slug]; ok {
		return k
	}
	return StatusCustom
}

func (s *WorkflowStatus) Kind() StatusKind {
	return KindOf(s.Slug)
}

func (k StatusKind) String() string {
	for slug, kind := range statusKinds {
		if kind == k {
			return slug
		}
	}
	return "custom"
}
