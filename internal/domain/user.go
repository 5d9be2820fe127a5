package domain

import "time"

// User conserva solo lo necesario para cuotas de generacion.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name,omitempty"`
	ResumesGenerated int       `json:"resumes_generated"`
	ResumeLimit      int       `json:"resume_limit"`
	CreatedAt        time.Time `json:"created_at"`
}
