package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
