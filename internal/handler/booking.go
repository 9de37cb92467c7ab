package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unilab/lab-reservation-api/internal/config"
	"github.com/unilab/lab-reservation-api/internal/middleware"
	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/queue"
	"github.com/unilab/lab-reservation-api/internal/service"
)

// BookingHandler exposes reservation CRUD on /agendamentos. The
// authenticated professor from the token owns every reservation created
// through it; the body never carries id_professor on writes.
type BookingHandler struct {
	Bookings *service.BookingService
	Log      zerolog.Logger
	Cache    config.CacheConfig
	Redis    *redis.Client
}

func NewBookingHandler(b *service.BookingService, log zerolog.Logger, cache config.CacheConfig, rdb *redis.Client) *BookingHandler {
	return &BookingHandler{Bookings: b, Log: log, Cache: cache, Redis: rdb}
}

type reservationReq struct {
	LabID     uint64 `json:"id_laboratorio"`
	Date      string `json:"data"`
	StartTime string `json:"hora_inicio"`
	EndTime   string `json:"hora_fim"`
}

type reservationResp struct {
	ID          uint64 `json:"id"`
	LabID       uint64 `json:"id_laboratorio"`
	ProfessorID uint64 `json:"id_professor"`
	Date        string `json:"data"`
	StartTime   string `json:"hora_inicio"`
	EndTime     string `json:"hora_fim"`
	CreatedAt   string `json:"criado_em"`
}

func toReservationResp(r model.Reservation) reservationResp {
	out := reservationResp{
		ID:          r.ID,
		LabID:       r.LabID,
		ProfessorID: r.ProfessorID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Create handles POST /agendamentos.
func (h *BookingHandler) Create(c echo.Context) error {
	pid, err := professorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Bookings.Reserve(ctx, req.LabID, pid, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}

	middleware.InvalidateCache(h.Cache, h.Redis, c)
	go h.publishCreated(res)

	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// List handles GET /agendamentos.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rs, err := h.Bookings.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]reservationResp, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /agendamentos/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Update handles PUT /agendamentos/:id. The replacement window is
// re-validated against the same conflict policy as Create.
func (h *BookingHandler) Update(c echo.Context) error {
	pid, err := professorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Bookings.Update(ctx, id, req.LabID, pid, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}

	middleware.InvalidateCache(h.Cache, h.Redis, c)
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Delete handles DELETE /agendamentos/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}

	middleware.InvalidateCache(h.Cache, h.Redis, c)
	go h.publishCancelled(id)

	return c.NoContent(http.StatusNoContent)
}

// publishCreated emits the booking.created event off the request path.
func (h *BookingHandler) publishCreated(res model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue.PublishBookingCreated(ctx, h.Log, queue.BookingCreatedEvent{
		ReservationID: res.ID,
		LabID:         res.LabID,
		ProfessorID:   res.ProfessorID,
		Date:          res.Date,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *BookingHandler) publishCancelled(id uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue.PublishBookingCancelled(ctx, h.Log, queue.BookingCancelledEvent{
		ReservationID: id,
		CancelledAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
