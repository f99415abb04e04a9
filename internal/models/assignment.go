package models

import "time"

type Assignment struct {
	DocumentID string    `db:"document_id"`
	UserID     string    `db:"user_id"`
	AssignedAt time.Time `db:"assigned_at"`
}
