package domain

import "time"

// Subscriber is a newsletter signup. Write-only: stored once per email,
// never read back by the application.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// ContactMessage is a message submitted through the contact form.
// Write-only, like Subscriber.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
