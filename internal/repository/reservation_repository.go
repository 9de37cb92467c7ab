package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/schedule"
)

// ReservationRepo provides CRUD operations for lab reservations. The
// overlap probe passed into Create and UpdateChecked is the buffered
// window computed by the booking service; the repository compares it
// against the unbuffered windows stored in the table using half-open
// semantics (hora_inicio < probe.End AND hora_fim > probe.Start).
//
// Create and UpdateChecked run the overlap read and the write in a
// single transaction. The read uses FOR UPDATE over the
// (id_laboratorio, data, hora_inicio) index so InnoDB's next-key locks
// serialize concurrent attempts on the same lab/date range; the unique
// key on that index is the final arbiter if two identical windows race
// past the read.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, id_laboratorio, id_professor, data, hora_inicio, hora_fim, criado_em"

// scanReservation reads one row into a model.Reservation, normalizing
// the DATE column to "2006-01-02" and TIME columns to strings.
func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		r    model.Reservation
		date time.Time
	)
	err := row.Scan(&r.ID, &r.LabID, &r.ProfessorID, &date, &r.StartTime, &r.EndTime, &r.CreatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	r.Date = date.Format("2006-01-02")
	return r, nil
}

// FindOverlapping returns committed reservations for (labID, date)
// whose stored window intersects the given probe window.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, labID uint64, date string, probe schedule.Window) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM agendamentos
		WHERE id_laboratorio = ? AND data = ? AND hora_inicio < ? AND hora_fim > ?`
	rows, err := r.db.QueryContext(ctx, q, labID, date, probe.End.Clock(), probe.Start.Clock())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Create commits a reservation. The overlap re-check and the insert
// share one transaction; a free-looking slot that loses the race
// surfaces as ErrSlotTaken either from the locked read or from the
// unique key (MySQL error 1062).
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, probe schedule.Window) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	taken, err := overlapExistsTx(ctx, tx, res.LabID, res.Date, probe, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	const ins = `INSERT INTO agendamentos (id_laboratorio, id_professor, data, hora_inicio, hora_fim)
		VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, res.LabID, res.ProfessorID, res.Date, res.StartTime, res.EndTime)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back criado_em so the caller sees the committed timestamp.
	if err := tx.QueryRowContext(ctx,
		"SELECT criado_em FROM agendamentos WHERE id = ?", res.ID).Scan(&res.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a single reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM agendamentos WHERE id = ? LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// ListAll returns every reservation ordered by date and start time.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM agendamentos ORDER BY data, hora_inicio`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// UpdateChecked replaces the lab/professor/date/time fields of an
// existing reservation, re-running the overlap check against every
// other reservation for the target lab/date. The row being updated is
// excluded from the probe so a reservation can keep (or move within)
// its own window.
func (r *ReservationRepo) UpdateChecked(ctx context.Context, res *model.Reservation, probe schedule.Window) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the target row first; a missing id is NotFound, not a conflict.
	var existing uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM agendamentos WHERE id = ? FOR UPDATE", res.ID).Scan(&existing)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	taken, err := overlapExistsTx(ctx, tx, res.LabID, res.Date, probe, res.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	const upd = `UPDATE agendamentos
		SET id_laboratorio = ?, id_professor = ?, data = ?, hora_inicio = ?, hora_fim = ?
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, res.LabID, res.ProfessorID, res.Date, res.StartTime, res.EndTime, res.ID); err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a reservation, reporting ErrNotFound when no row
// matched so callers never treat a missing id as success.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM agendamentos WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// overlapExistsTx performs the locking overlap read inside tx. excludeID
// skips one reservation (the row being updated); zero excludes nothing.
func overlapExistsTx(ctx context.Context, tx *sql.Tx, labID uint64, date string, probe schedule.Window, excludeID uint64) (bool, error) {
	const q = `SELECT id FROM agendamentos
		WHERE id_laboratorio = ? AND data = ? AND hora_inicio < ? AND hora_fim > ? AND id <> ?
		LIMIT 1 FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, labID, date, probe.End.Clock(), probe.Start.Clock(), excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
