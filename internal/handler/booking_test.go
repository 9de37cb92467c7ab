package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilab/lab-reservation-api/internal/config"
	"github.com/unilab/lab-reservation-api/internal/repository"
	"github.com/unilab/lab-reservation-api/internal/service"
)

func newBookingHandler() *BookingHandler {
	svc := service.NewBookingService(repository.NewMemoryReservationRepo(), service.DefaultBuffer)
	return NewBookingHandler(svc, zerolog.Nop(), config.CacheConfig{}, nil)
}

// doJSON runs a handler against an in-memory request with the given
// authenticated professor, mimicking what the JWT middleware sets.
func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, professorID uint64, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if professorID != 0 {
		// JWT numeric claims arrive as float64
		c.Set("professor_id", float64(professorID))
	}
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, h(c))
	return rec
}

type errBody struct {
	Message   string `json:"message"`
	ErrorType string `json:"error_type"`
}

func TestCreateReservation(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 7, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got reservationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotZero(t, got.ID)
	assert.Equal(t, uint64(3), got.LabID)
	assert.Equal(t, uint64(7), got.ProfessorID, "owner comes from the token, not the body")
	assert.Equal(t, "10:00:00", got.StartTime)
	assert.Equal(t, "11:00:00", got.EndTime)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestCreateReservationConflict(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 1, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Within the turnover margin of the committed slot.
	rec = doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"11:10","hora_fim":"12:10"}`, 2, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_OPERATION", body.ErrorType)
	assert.Equal(t, "the requested time slot is not available", body.Message)
}

func TestCreateReservationBadDuration(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"10:30"}`, 1, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_OPERATION", body.ErrorType)
}

func TestCreateReservationUnauthenticated(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetReservation(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 1, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created reservationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h.Get, http.MethodGet, "/agendamentos/1", "", 1,
		map[string]string{"id": strconv.FormatUint(created.ID, 10)})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.Get, http.MethodGet, "/agendamentos/999", "", 1,
		map[string]string{"id": "999"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.ErrorType)
	assert.Equal(t, "reservation not found", body.Message)

	rec = doJSON(t, h.Get, http.MethodGet, "/agendamentos/abc", "", 1,
		map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReservations(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.List, http.MethodGet, "/agendamentos", "", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 1, nil)

	rec = doJSON(t, h.List, http.MethodGet, "/agendamentos", "", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []reservationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 1)
}

func TestUpdateReservation(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 1, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created reservationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := strconv.FormatUint(created.ID, 10)

	rec = doJSON(t, h.Update, http.MethodPut, "/agendamentos/"+id,
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"14:00","hora_fim":"15:00"}`, 1,
		map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated reservationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "14:00:00", updated.StartTime)

	rec = doJSON(t, h.Update, http.MethodPut, "/agendamentos/999",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"16:00","hora_fim":"17:00"}`, 1,
		map[string]string{"id": "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReservation(t *testing.T) {
	h := newBookingHandler()

	rec := doJSON(t, h.Create, http.MethodPost, "/agendamentos",
		`{"id_laboratorio":3,"data":"2024-05-10","hora_inicio":"10:00","hora_fim":"11:00"}`, 1, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created reservationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := strconv.FormatUint(created.ID, 10)

	rec = doJSON(t, h.Delete, http.MethodDelete, "/agendamentos/"+id, "", 1,
		map[string]string{"id": id})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.Delete, http.MethodDelete, "/agendamentos/"+id, "", 1,
		map[string]string{"id": id})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
