package service

import (
	"context"
	"errors"
	"time"

	"github.com/unilab/lab-reservation-api/internal/apperr"
	"github.com/unilab/lab-reservation-api/internal/metrics"
	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/repository"
	"github.com/unilab/lab-reservation-api/internal/schedule"
)

// SlotDuration is the mandatory length of every reservation. This is
// policy, not a default: requests with any other duration are rejected.
const SlotDuration = time.Hour

// DefaultBuffer is the turnover margin applied around each window when
// checking for conflicts, modeling the time students need to leave and
// enter between sessions.
const DefaultBuffer = 15 * time.Minute

const slotUnavailableMsg = "the requested time slot is not available"

// BookingService validates reservation requests and resolves scheduling
// conflicts. The overlap policy: a candidate window expanded by the
// buffer on both sides must not intersect any committed (unbuffered)
// window for the same lab and date, intervals compared half-open. The
// pre-check through FindOverlapping is a fast path only; the store's
// atomic Create/UpdateChecked is the authoritative arbiter under
// concurrency.
type BookingService struct {
	store  ReservationStore
	buffer time.Duration
}

// NewBookingService builds a BookingService. A non-positive buffer
// falls back to DefaultBuffer.
func NewBookingService(store ReservationStore, buffer time.Duration) *BookingService {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &BookingService{store: store, buffer: buffer}
}

// validate checks presence, shape and duration of a reservation request
// and returns the parsed window. All violations are InvalidOperation
// and happen before any store access.
func (s *BookingService) validate(labID, professorID uint64, date, start, end string) (schedule.Window, error) {
	if labID == 0 || professorID == 0 || date == "" || start == "" || end == "" {
		return schedule.Window{}, apperr.New(apperr.InvalidOperation, "all fields are required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return schedule.Window{}, apperr.New(apperr.InvalidOperation, "invalid date, expected YYYY-MM-DD")
	}
	win, err := schedule.NewWindow(start, end)
	if err != nil {
		return schedule.Window{}, apperr.New(apperr.InvalidOperation, err.Error())
	}
	if win.Duration() != SlotDuration {
		return schedule.Window{}, apperr.New(apperr.InvalidOperation, "each reservation must be exactly one hour long")
	}
	return win, nil
}

// Reserve attempts to commit a new reservation. On success the returned
// reservation carries the assigned ID and creation timestamp and its
// stored window equals the requested window exactly; the buffer only
// ever influences conflict detection.
func (s *BookingService) Reserve(ctx context.Context, labID, professorID uint64, date, start, end string) (model.Reservation, error) {
	win, err := s.validate(labID, professorID, date, start, end)
	if err != nil {
		return model.Reservation{}, err
	}
	probe := win.Buffered(s.buffer)

	// Fast path: report an occupied slot without opening a write
	// transaction. Not authoritative, the store re-checks on Create.
	existing, err := s.store.FindOverlapping(ctx, labID, date, probe)
	if err != nil {
		return model.Reservation{}, apperr.Wrap(apperr.DatabaseError, "failed to check slot availability", err)
	}
	if len(existing) > 0 {
		metrics.IncConflict()
		return model.Reservation{}, apperr.New(apperr.InvalidOperation, slotUnavailableMsg)
	}

	res := model.Reservation{
		LabID:       labID,
		ProfessorID: professorID,
		Date:        date,
		StartTime:   win.Start.Clock(),
		EndTime:     win.End.Clock(),
	}
	if err := s.store.Create(ctx, &res, probe); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			metrics.IncConflict()
			return model.Reservation{}, apperr.New(apperr.InvalidOperation, slotUnavailableMsg)
		}
		return model.Reservation{}, apperr.Wrap(apperr.DatabaseError, "failed to create reservation", err)
	}
	metrics.IncCreated()
	return res, nil
}

// List returns all committed reservations.
func (s *BookingService) List(ctx context.Context) ([]model.Reservation, error) {
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.DatabaseError, "failed to list reservations", err)
	}
	return out, nil
}

// Get fetches one reservation by id.
func (s *BookingService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Reservation{}, apperr.New(apperr.NotFound, "reservation not found")
		}
		return model.Reservation{}, apperr.Wrap(apperr.DatabaseError, "failed to load reservation", err)
	}
	return res, nil
}

// Update replaces a reservation's lab/professor/date/time fields. The
// replacement is subject to the same validation and overlap policy as
// Reserve, with the reservation's own row excluded from the check.
func (s *BookingService) Update(ctx context.Context, id, labID, professorID uint64, date, start, end string) (model.Reservation, error) {
	if id == 0 {
		return model.Reservation{}, apperr.New(apperr.InvalidOperation, "reservation id is required")
	}
	win, err := s.validate(labID, professorID, date, start, end)
	if err != nil {
		return model.Reservation{}, err
	}
	probe := win.Buffered(s.buffer)

	res := model.Reservation{
		ID:          id,
		LabID:       labID,
		ProfessorID: professorID,
		Date:        date,
		StartTime:   win.Start.Clock(),
		EndTime:     win.End.Clock(),
	}
	if err := s.store.UpdateChecked(ctx, &res, probe); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.Reservation{}, apperr.New(apperr.NotFound, "reservation not found")
		case errors.Is(err, repository.ErrSlotTaken):
			metrics.IncConflict()
			return model.Reservation{}, apperr.New(apperr.InvalidOperation, slotUnavailableMsg)
		}
		return model.Reservation{}, apperr.Wrap(apperr.DatabaseError, "failed to update reservation", err)
	}
	return res, nil
}

// Delete removes a reservation. Deleting an unknown id reports
// NotFound, never a silent no-op.
func (s *BookingService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "reservation not found")
		}
		return apperr.Wrap(apperr.DatabaseError, "failed to delete reservation", err)
	}
	metrics.IncCancelled()
	return nil
}
