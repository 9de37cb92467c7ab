package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/schedule"
)

// In-memory implementations of the store interfaces. They mirror the
// MySQL repositories' semantics (including atomic check-then-insert
// under a single lock) and back the unit tests and local runs without
// a database.

// MemoryReservationRepo is a mutex-serialized reservation store. The
// lock spans the whole of Create and UpdateChecked, giving the same
// "exactly one winner" guarantee the SQL transaction provides.
type MemoryReservationRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Reservation
}

// NewMemoryReservationRepo returns an empty in-memory store.
func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{rows: make(map[uint64]model.Reservation)}
}

// window parses a stored reservation's times. Stored rows always parse
// because they were validated before commit.
func storedWindow(r model.Reservation) schedule.Window {
	s, _ := schedule.ParseClock(r.StartTime)
	e, _ := schedule.ParseClock(r.EndTime)
	return schedule.Window{Start: s, End: e}
}

func (m *MemoryReservationRepo) overlapLocked(labID uint64, date string, probe schedule.Window, excludeID uint64) bool {
	for _, r := range m.rows {
		if r.ID == excludeID || r.LabID != labID || r.Date != date {
			continue
		}
		if probe.Overlaps(storedWindow(r)) {
			return true
		}
	}
	return false
}

// FindOverlapping returns reservations for (labID, date) intersecting probe.
func (m *MemoryReservationRepo) FindOverlapping(_ context.Context, labID uint64, date string, probe schedule.Window) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reservation
	for _, r := range m.rows {
		if r.LabID == labID && r.Date == date && probe.Overlaps(storedWindow(r)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Create commits the reservation unless probe overlaps a stored window.
func (m *MemoryReservationRepo) Create(_ context.Context, res *model.Reservation, probe schedule.Window) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlapLocked(res.LabID, res.Date, probe, 0) {
		return ErrSlotTaken
	}
	m.nextID++
	res.ID = m.nextID
	res.CreatedAt = time.Now().UTC()
	m.rows[res.ID] = *res
	return nil
}

// GetByID fetches a reservation or ErrNotFound.
func (m *MemoryReservationRepo) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return r, nil
}

// ListAll returns all reservations ordered by date then start time.
func (m *MemoryReservationRepo) ListAll(_ context.Context) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Reservation, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// UpdateChecked replaces a reservation's fields after re-running the
// overlap check, excluding the row itself.
func (m *MemoryReservationRepo) UpdateChecked(_ context.Context, res *model.Reservation, probe schedule.Window) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[res.ID]
	if !ok {
		return ErrNotFound
	}
	if m.overlapLocked(res.LabID, res.Date, probe, res.ID) {
		return ErrSlotTaken
	}
	res.CreatedAt = existing.CreatedAt
	m.rows[res.ID] = *res
	return nil
}

// Delete removes a reservation or reports ErrNotFound.
func (m *MemoryReservationRepo) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// MemoryProfessorRepo is an in-memory professor store.
type MemoryProfessorRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Professor
}

// NewMemoryProfessorRepo returns an empty in-memory professor store.
func NewMemoryProfessorRepo() *MemoryProfessorRepo {
	return &MemoryProfessorRepo{rows: make(map[uint64]model.Professor)}
}

func (m *MemoryProfessorRepo) Create(_ context.Context, p *model.Professor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	for _, existing := range m.rows {
		if existing.Email == p.Email {
			return ErrEmailExists
		}
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now().UTC()
	m.rows[p.ID] = *p
	return nil
}

func (m *MemoryProfessorRepo) GetByID(_ context.Context, id uint64) (model.Professor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return model.Professor{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryProfessorRepo) GetByEmail(_ context.Context, email string) (model.Professor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range m.rows {
		if p.Email == email {
			return p, nil
		}
	}
	return model.Professor{}, ErrNotFound
}

func (m *MemoryProfessorRepo) ListAll(_ context.Context) ([]model.Professor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Professor, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryProfessorRepo) Update(_ context.Context, p *model.Professor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	for _, other := range m.rows {
		if other.ID != p.ID && other.Email == p.Email {
			return ErrEmailExists
		}
	}
	p.CreatedAt = existing.CreatedAt
	m.rows[p.ID] = *p
	return nil
}

func (m *MemoryProfessorRepo) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// MemoryTokenRepo is an in-memory refresh token store.
type MemoryTokenRepo struct {
	mu   sync.Mutex
	rows map[string]model.RefreshToken // keyed by token hash
}

// NewMemoryTokenRepo returns an empty in-memory token store.
func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{rows: make(map[string]model.RefreshToken)}
}

func (m *MemoryTokenRepo) Store(_ context.Context, professorID uint64, tokenHash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[tokenHash] = model.RefreshToken{
		ProfessorID: professorID,
		TokenHash:   tokenHash,
		ExpiresAt:   exp,
		CreatedAt:   time.Now().UTC(),
	}
	return nil
}

func (m *MemoryTokenRepo) Validate(_ context.Context, tokenHash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[tokenHash]
	if !ok || t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return 0, ErrNotFound
	}
	return t.ProfessorID, nil
}

func (m *MemoryTokenRepo) Revoke(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.rows[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
		m.rows[tokenHash] = t
	}
	return nil
}

func (m *MemoryTokenRepo) RevokeAllForProfessor(_ context.Context, professorID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for hash, t := range m.rows {
		if t.ProfessorID == professorID && t.RevokedAt == nil {
			t.RevokedAt = &now
			m.rows[hash] = t
		}
	}
	return nil
}
