// Package queue publishes and consumes booking events over RabbitMQ.
// Publishing is best effort: a broker outage never fails the booking
// request that triggered the event.
package queue

// BookingCreatedEvent is published when a reservation is committed. It
// carries enough for downstream consumers (audit log, notifications)
// without querying the primary database.
type BookingCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	LabID         uint64 `json:"lab_id"`
	ProfessorID   uint64 `json:"professor_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CreatedAt     string `json:"created_at"`
}

// BookingCancelledEvent is published when a reservation is deleted.
type BookingCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	CancelledAt   string `json:"cancelled_at"`
}
