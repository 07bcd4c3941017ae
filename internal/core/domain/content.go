package domain

import "time"

// Project is a portfolio entry shown on the landing page.
type Project struct {
	ID          string    `json:"_id"`
	Image       string    `json:"image"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Client is a testimonial: a project plus the author's designation.
type Client struct {
	ID          string    `json:"_id"`
	Image       string    `json:"image"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContactSubmission is immutable once stored.
type ContactSubmission struct {
	ID          string    `json:"_id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	City        string    `json:"city"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Subscriber is a newsletter subscription; Email is unique.
type Subscriber struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// StoredImage is what external storage hands back after an upload.
type StoredImage struct {
	URL        string
	ExternalID string
}
