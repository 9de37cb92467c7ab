package model

import "time"

// Reservation records one committed booking of a laboratory by a
// professor. Date and times are naive wall-clock values: the date is a
// calendar day ("2006-01-02") and the times are "HH:MM:SS" strings with
// no date component, mirroring the DATE and TIME columns they come from.
//
// Committed reservations for the same lab and date never overlap once
// each is extended by the scheduling buffer; that invariant is enforced
// by the booking service together with the store, never by direct
// inserts.
//
// Fields:
//  ID          – primary key, assigned on commit.
//  LabID       – laboratory being reserved.
//  ProfessorID – professor who owns the reservation.
//  Date        – calendar date of the booking.
//  StartTime   – wall-clock start, inclusive.
//  EndTime     – wall-clock end, exclusive.
//  CreatedAt   – assigned at commit, immutable.
type Reservation struct {
	ID          uint64    // agendamentos.id
	LabID       uint64    // agendamentos.id_laboratorio
	ProfessorID uint64    // agendamentos.id_professor
	Date        string    // agendamentos.data
	StartTime   string    // agendamentos.hora_inicio
	EndTime     string    // agendamentos.hora_fim
	CreatedAt   time.Time // agendamentos.criado_em
}
