package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleGuardian = "guardian"
	RoleAdmin    = "admin"
)

type Guardian struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	StudentName  string    `json:"studentName"`
	StudentGrade string    `json:"studentGrade"`
	Role         string    `gorm:"index;default:guardian" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (g *Guardian) IsAdmin() bool {
	return g.Role == RoleAdmin
}
