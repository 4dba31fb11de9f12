package resumes

import "time"

// Resume is a user's single markdown resume. Each user has at most one;
// saving again replaces the content in place.
type Resume struct {
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImproveInput describes one resume section to rewrite.
type ImproveInput struct {
	Type    string `json:"type"`
	Current string `json:"current"`
}
