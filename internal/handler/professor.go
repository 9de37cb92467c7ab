package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/service"
)

// ProfessorHandler exposes professor CRUD. Registration is open;
// everything else sits behind the JWT middleware.
type ProfessorHandler struct {
	Professors *service.ProfessorService
}

func NewProfessorHandler(p *service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{Professors: p}
}

type professorReq struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type professorResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

func toProfessorResp(p model.Professor) professorResp {
	return professorResp{ID: p.ID, Name: p.Name, Email: p.Email}
}

// Create handles POST /professores.
func (h *ProfessorHandler) Create(c echo.Context) error {
	var req professorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Professors.Create(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toProfessorResp(p))
}

// List handles GET /professores.
func (h *ProfessorHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Professors.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]professorResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProfessorResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /professores/:id.
func (h *ProfessorHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Professors.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProfessorResp(p))
}

// Update handles PUT /professores/:id.
func (h *ProfessorHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req professorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Professors.Update(ctx, id, req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProfessorResp(p))
}

// Delete handles DELETE /professores/:id.
func (h *ProfessorHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Professors.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
