package models

import "time"

type Notification struct {
	ID          string    `db:"id"`
	RecipientID string    `db:"recipient_id"`
	Title       string    `db:"title"`
	Message     string    `db:"message"`
	Category    string    `db:"category"`
	Priority    Priority  `db:"priority"`
	Read        bool      `db:"is_read"`
	CreatedAt   time.Time `db:"created_at"`
}
