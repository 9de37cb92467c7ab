package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/unilab/lab-reservation-api/internal/apperr"
	"github.com/unilab/lab-reservation-api/internal/model"
	"github.com/unilab/lab-reservation-api/internal/repository"
	"github.com/unilab/lab-reservation-api/internal/utils"
)

var emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ProfessorService implements professor CRUD and credential
// verification. Passwords are bcrypt-hashed before they reach the
// store; the raw value is never persisted or logged.
type ProfessorService struct {
	store      ProfessorStore
	bcryptCost int
}

// NewProfessorService builds a ProfessorService with the given bcrypt cost.
func NewProfessorService(store ProfessorStore, bcryptCost int) *ProfessorService {
	return &ProfessorService{store: store, bcryptCost: bcryptCost}
}

// ValidateEmail checks the address against the accepted pattern.
func ValidateEmail(email string) error {
	if !emailRx.MatchString(email) {
		return apperr.New(apperr.InvalidEmail, "invalid email format")
	}
	return nil
}

// Create registers a new professor and returns the stored record.
func (s *ProfessorService) Create(ctx context.Context, name, email, password string) (model.Professor, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return model.Professor{}, apperr.New(apperr.InvalidOperation, "name, email and password are required")
	}
	if err := ValidateEmail(email); err != nil {
		return model.Professor{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.Professor{}, apperr.Wrap(apperr.DatabaseError, "failed to hash password", err)
	}
	p := model.Professor{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.Professor{}, apperr.New(apperr.InvalidOperation, "email already registered")
		}
		return model.Professor{}, apperr.Wrap(apperr.DatabaseError, "failed to create professor", err)
	}
	return p, nil
}

// Get fetches one professor by id.
func (s *ProfessorService) Get(ctx context.Context, id uint64) (model.Professor, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Professor{}, apperr.New(apperr.NotFound, "professor not found")
		}
		return model.Professor{}, apperr.Wrap(apperr.DatabaseError, "failed to load professor", err)
	}
	return p, nil
}

// List returns all professors.
func (s *ProfessorService) List(ctx context.Context) ([]model.Professor, error) {
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.DatabaseError, "failed to list professors", err)
	}
	return out, nil
}

// Update replaces a professor's name, email and password.
func (s *ProfessorService) Update(ctx context.Context, id uint64, name, email, password string) (model.Professor, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if id == 0 || name == "" || email == "" || password == "" {
		return model.Professor{}, apperr.New(apperr.InvalidOperation, "id, name, email and password are required")
	}
	if err := ValidateEmail(email); err != nil {
		return model.Professor{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.Professor{}, apperr.Wrap(apperr.DatabaseError, "failed to hash password", err)
	}
	p := model.Professor{ID: id, Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Update(ctx, &p); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.Professor{}, apperr.New(apperr.NotFound, "professor not found")
		case errors.Is(err, repository.ErrEmailExists):
			return model.Professor{}, apperr.New(apperr.InvalidOperation, "email already registered")
		}
		return model.Professor{}, apperr.Wrap(apperr.DatabaseError, "failed to update professor", err)
	}
	return p, nil
}

// Delete removes a professor.
func (s *ProfessorService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "professor not found")
		}
		return apperr.Wrap(apperr.DatabaseError, "failed to delete professor", err)
	}
	return nil
}

// Authenticate resolves an email/password pair to a professor. Both an
// unknown email and a wrong password yield the same InvalidCredentials
// error so the response does not reveal which part was wrong.
func (s *ProfessorService) Authenticate(ctx context.Context, email, password string) (model.Professor, error) {
	p, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Professor{}, apperr.New(apperr.InvalidCredentials, "invalid credentials")
		}
		return model.Professor{}, apperr.Wrap(apperr.DatabaseError, "failed to load professor", err)
	}
	if !utils.VerifyPassword(p.PasswordHash, password) {
		return model.Professor{}, apperr.New(apperr.InvalidCredentials, "invalid credentials")
	}
	return p, nil
}
