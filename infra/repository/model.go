// Package repository contains the GORM implementations of the persistence
// contracts in pkg/repository, plus the unit of work that gives the services
// their atomic scope.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record in the database.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Username     string    `gorm:"uniqueIndex;not null;size:50"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
}

// Account represents an account record in the database. Balance is stored in
// cents; the check constraint backs up the engine's non-negative invariant.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Balance   int64     `gorm:"not null;default:0;check:balance >= 0"`
	CreatedAt time.Time
}

// Transaction represents a ledger record in the database. Rows are insert-only.
type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	FromAccount uuid.UUID `gorm:"type:uuid;index;not null"`
	ToAccount   uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount      int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
}
