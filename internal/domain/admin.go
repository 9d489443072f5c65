package domain

import (
	"time"

	"github.com/spec-kit/portal-service/internal/token"
)

// Admin is an operator account allowed to manage portal content.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         token.Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
