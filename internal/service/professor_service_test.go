package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilab/lab-reservation-api/internal/apperr"
	"github.com/unilab/lab-reservation-api/internal/repository"
)

// low cost keeps the bcrypt calls in tests fast
const testBcryptCost = 4

func newProfessorService() *ProfessorService {
	return NewProfessorService(repository.NewMemoryProfessorRepo(), testBcryptCost)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"ana@unilab.edu.br",
		"joao.silva+lab@example.com",
		"a_b%c@dept.example.org",
	}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{
		"",
		"ana",
		"ana@",
		"@unilab.edu.br",
		"ana@unilab",
		"ana @unilab.edu.br",
	}
	for _, e := range invalid {
		err := ValidateEmail(e)
		require.Error(t, err, e)
		assert.Equal(t, apperr.InvalidEmail, apperr.KindOf(err), e)
	}
}

func TestCreateProfessor(t *testing.T) {
	svc := newProfessorService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "Ana Souza", "Ana@Unilab.edu.br", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Ana Souza", p.Name)
	assert.Equal(t, "ana@unilab.edu.br", p.Email, "email is normalized to lowercase")
	assert.NotEqual(t, "s3cret", p.PasswordHash, "raw password is never stored")

	_, err = svc.Create(ctx, "Other", "ana@unilab.edu.br", "pw")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidOperation, apperr.KindOf(err))
	assert.Equal(t, "email already registered", apperr.MessageOf(err))

	_, err = svc.Create(ctx, "", "x@example.com", "pw")
	assert.Equal(t, apperr.InvalidOperation, apperr.KindOf(err))

	_, err = svc.Create(ctx, "Nome", "not-an-email", "pw")
	assert.Equal(t, apperr.InvalidEmail, apperr.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	svc := newProfessorService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Ana", "ana@unilab.edu.br", "s3cret")
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, "ana@unilab.edu.br", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)

	// Unknown email and wrong password produce the same error.
	_, errEmail := svc.Authenticate(ctx, "ghost@unilab.edu.br", "s3cret")
	_, errPass := svc.Authenticate(ctx, "ana@unilab.edu.br", "wrong")
	for _, err := range []error{errEmail, errPass} {
		require.Error(t, err)
		assert.Equal(t, apperr.InvalidCredentials, apperr.KindOf(err))
		assert.Equal(t, "invalid credentials", apperr.MessageOf(err))
	}
}

func TestUpdateProfessor(t *testing.T) {
	svc := newProfessorService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "Ana", "ana@unilab.edu.br", "pw1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Bia", "bia@unilab.edu.br", "pw2")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, "Ana Maria", "ana.maria@unilab.edu.br", "pw3")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)

	// Taking another professor's email is rejected.
	_, err = svc.Update(ctx, a.ID, "Ana", "bia@unilab.edu.br", "pw")
	assert.Equal(t, apperr.InvalidOperation, apperr.KindOf(err))

	_, err = svc.Update(ctx, 999, "Ghost", "ghost@unilab.edu.br", "pw")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteProfessor(t *testing.T) {
	svc := newProfessorService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "Ana", "ana@unilab.edu.br", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))

	err = svc.Delete(ctx, p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = svc.Get(ctx, p.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
