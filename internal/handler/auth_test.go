package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilab/lab-reservation-api/internal/config"
	"github.com/unilab/lab-reservation-api/internal/repository"
	"github.com/unilab/lab-reservation-api/internal/service"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *service.ProfessorService) {
	t.Helper()
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
	}
	professors := service.NewProfessorService(repository.NewMemoryProfessorRepo(), 4)
	return NewAuthHandler(cfg, professors, repository.NewMemoryTokenRepo()), professors
}

func registerProfessor(t *testing.T, professors *service.ProfessorService) uint64 {
	t.Helper()
	p, err := professors.Create(t.Context(), "Ana", "ana@unilab.edu.br", "s3cret")
	require.NoError(t, err)
	return p.ID
}

func TestLoginIssuesTokenPair(t *testing.T) {
	h, professors := newAuthHandler(t)
	registerProfessor(t, professors)

	rec := doJSON(t, h.Login, http.MethodPost, "/login",
		`{"email":"ana@unilab.edu.br","senha":"s3cret"}`, 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExp.After(pair.AccessExp), "refresh outlives access")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, professors := newAuthHandler(t)
	registerProfessor(t, professors)

	for _, body := range []string{
		`{"email":"ana@unilab.edu.br","senha":"wrong"}`,
		`{"email":"ghost@unilab.edu.br","senha":"s3cret"}`,
	} {
		rec := doJSON(t, h.Login, http.MethodPost, "/login", body, 0, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, body)
		var eb errBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
		assert.Equal(t, "INVALID_CREDENTIALS", eb.ErrorType)
		assert.Equal(t, "invalid credentials", eb.Message)
	}

	rec := doJSON(t, h.Login, http.MethodPost, "/login", `{"email":"","senha":""}`, 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	h, professors := newAuthHandler(t)
	registerProfessor(t, professors)

	rec := doJSON(t, h.Login, http.MethodPost, "/login",
		`{"email":"ana@unilab.edu.br","senha":"s3cret"}`, 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	body := fmt.Sprintf(`{"refresh_token":%q}`, first.RefreshToken)
	rec = doJSON(t, h.Refresh, http.MethodPost, "/refresh", body, 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var second tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old token was revoked by the rotation.
	rec = doJSON(t, h.Refresh, http.MethodPost, "/refresh", body, 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	h, professors := newAuthHandler(t)
	registerProfessor(t, professors)

	rec := doJSON(t, h.Login, http.MethodPost, "/login",
		`{"email":"ana@unilab.edu.br","senha":"s3cret"}`, 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	body := fmt.Sprintf(`{"refresh_token":%q}`, pair.RefreshToken)
	rec = doJSON(t, h.Logout, http.MethodPost, "/logout", body, 0, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.Refresh, http.MethodPost, "/refresh", body, 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out twice fails because the token is no longer valid.
	rec = doJSON(t, h.Logout, http.MethodPost, "/logout", body, 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	h, professors := newAuthHandler(t)
	id := registerProfessor(t, professors)

	rec := doJSON(t, h.Me, http.MethodGet, "/me", "", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p professorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "ana@unilab.edu.br", p.Email)
	assert.NotContains(t, rec.Body.String(), "senha", "no credential material in the response")

	rec = doJSON(t, h.Me, http.MethodGet, "/me", "", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
