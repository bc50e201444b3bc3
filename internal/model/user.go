package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleSupport Role = "SUPPORT"
	RoleUser    Role = "USER"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// Account is the identity record held by the credential store.
// PasswordHash never leaves the store boundary; handlers return AccountView.
type Account struct {
	ID           uuid.UUID
	Email        string
	Login        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Status       Status
	PhoneNumber  string
	Department   string
	Position     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

type AccountView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Login       string     `json:"login"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Department  string     `json:"department,omitempty"`
	Position    string     `json:"position,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (a *Account) View() AccountView {
	return AccountView{
		ID:          a.ID,
		Email:       a.Email,
		Login:       a.Login,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Role:        a.Role,
		Status:      a.Status,
		PhoneNumber: a.PhoneNumber,
		Department:  a.Department,
		Position:    a.Position,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}
