// Package service holds the booking and professor services: input
// validation, the scheduling-conflict policy, and translation of store
// failures into the typed error taxonomy. Handlers talk to services,
// services talk to stores, stores talk to MySQL (or memory in tests).
package service

import (
	"context"
	"time"

	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/schedule"
)

// ReservationStore is the persistence contract the booking service
// depends on. Create and UpdateChecked must be atomic: the overlap
// probe and the write happen under one transaction (or lock), so that
// of two concurrent attempts on the same window exactly one commits and
// the other observes ErrSlotTaken.
type ReservationStore interface {
	FindOverlapping(ctx context.Context, labID uint64, date string, probe schedule.Window) ([]model.Reservation, error)
	Create(ctx context.Context, res *model.Reservation, probe schedule.Window) error
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	UpdateChecked(ctx context.Context, res *model.Reservation, probe schedule.Window) error
	Delete(ctx context.Context, id uint64) error
}

// ProfessorStore is the persistence contract for professor records.
type ProfessorStore interface {
	Create(ctx context.Context, p *model.Professor) error
	GetByID(ctx context.Context, id uint64) (model.Professor, error)
	GetByEmail(ctx context.Context, email string) (model.Professor, error)
	ListAll(ctx context.Context) ([]model.Professor, error)
	Update(ctx context.Context, p *model.Professor) error
	Delete(ctx context.Context, id uint64) error
}

// TokenStore is the persistence contract for refresh tokens.
type TokenStore interface {
	Store(ctx context.Context, professorID uint64, tokenHash string, exp time.Time) error
	Validate(ctx context.Context, tokenHash string) (uint64, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForProfessor(ctx context.Context, professorID uint64) error
}
