package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/deynapp/collections-backend/internal/auth"
	"github.com/deynapp/collections-backend/internal/domain"
)

const testJWTSecret = "test-secret-key"

type mockAgentReader struct {
	agent *domain.Agent
	err   error
}

func (m *mockAgentReader) GetByEmail(_ context.Context, _ string) (*domain.Agent, error) {
	return m.agent, m.err
}

func activeAgent(t *testing.T, password string) *domain.Agent {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Agent{
		ID:           uuid.New(),
		Email:        "agent@deyn.app",
		Name:         "Agent One",
		PasswordHash: string(hash),
		Status:       domain.AgentStatusActive,
	}
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	h.Login(rec, r)
	return rec
}

func TestLogin(t *testing.T) {
	agent := activeAgent(t, "password123")

	t.Run("happy path returns a usable token", func(t *testing.T) {
		h := NewAuthHandler(&mockAgentReader{agent: agent}, testJWTSecret, time.Hour)

		rec := postLogin(h, `{"email":"agent@deyn.app","password":"password123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		token, _ := data["token"].(string)
		require.NotEmpty(t, token)

		sess, err := auth.ValidateToken(token, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, agent.ID, sess.AgentID)
		assert.Equal(t, agent.Email, sess.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		h := NewAuthHandler(&mockAgentReader{agent: agent}, testJWTSecret, time.Hour)

		rec := postLogin(h, `{"email":"agent@deyn.app","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, rec).Error.Code)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		h := NewAuthHandler(&mockAgentReader{err: domain.ErrNotFound}, testJWTSecret, time.Hour)

		rec := postLogin(h, `{"email":"nobody@deyn.app","password":"password123"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, rec).Error.Code)
	})

	t.Run("disabled agent", func(t *testing.T) {
		disabled := activeAgent(t, "password123")
		disabled.Status = domain.AgentStatusDisabled
		h := NewAuthHandler(&mockAgentReader{agent: disabled}, testJWTSecret, time.Hour)

		rec := postLogin(h, `{"email":"agent@deyn.app","password":"password123"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "AGENT_DISABLED", decodeResponse(t, rec).Error.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		h := NewAuthHandler(&mockAgentReader{agent: agent}, testJWTSecret, time.Hour)

		rec := postLogin(h, `{"email":"agent@deyn.app"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeResponse(t, rec).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewAuthHandler(&mockAgentReader{agent: agent}, testJWTSecret, time.Hour)

		rec := postLogin(h, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST", decodeResponse(t, rec).Error.Code)
	})
}
