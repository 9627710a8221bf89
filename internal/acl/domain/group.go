package domain

import "time"

// Group is the pivot of the access model: clients are enrolled in groups and
// secret series are granted to groups. A group with no grants or no members
// confers nothing.
type Group struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	CreatedBy   string
	UpdatedAt   time.Time
	UpdatedBy   string
	Metadata    map[string]string
}
