package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"docportal/internal/models"
	"docportal/pkg/auth"
)

// SeedUser is one entry of the users file.
type SeedUser struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Active     *bool   `json:"active"`
}

// loadUsers reads the users file and hashes every password.
func loadUsers(path string, now time.Time) ([]*models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var entries []SeedUser
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	now = now.Truncate(time.Microsecond)
	users := make([]*models.User, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" || e.Email == "" || e.Password == "" {
			return nil, fmt.Errorf("user #%d: id, email and password are required", i+1)
		}
		role := models.Role(e.Role)
		if role != models.RoleAdmin && role != models.RoleEmployee {
			return nil, fmt.Errorf("user %s: unknown role %q", e.ID, e.Role)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("user %s listed twice", e.ID)
		}
		seen[e.ID] = true

		hash, err := auth.HashPassword(e.Password)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", e.ID, err)
		}

		active := true
		if e.Active != nil {
			active = *e.Active
		}

		users = append(users, &models.User{
			ID:           e.ID,
			Name:         e.Name,
			Email:        strings.ToLower(strings.TrimSpace(e.Email)),
			PasswordHash: hash,
			Role:         role,
			Department:   e.Department,
			Active:       active,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return users, nil
}

func firstAdmin(users []*models.User) string {
	for _, u := range users {
		if u.Role == models.RoleAdmin && u.Active {
			return u.ID
		}
	}
	return ""
}
