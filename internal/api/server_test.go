package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/lifediary/lifediary-server/internal/auth"
	"github.com/lifediary/lifediary-server/internal/service"
	"github.com/lifediary/lifediary-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope with a typed data payload.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

// setupTestServer creates a test server backed by a tmpdir SQLite store.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	tokenService, err := auth.NewTokenService(strings.Repeat("0a", 32), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	tagService := service.NewTagService(st, logger)
	slotService := service.NewSlotService(st, tagService, logger)
	goalService := service.NewGoalService(st, tagService, logger)
	noteService := service.NewNoteService(st, logger)
	statsService := service.NewStatsService(st, service.DefaultExclusionPolicy(), logger)
	feedbackService := service.NewFeedbackService(statsService, goalService, service.DefaultFeedbackConfig(), logger)

	services := &Services{
		Auth:     authService,
		Session:  sessionService,
		Tag:      tagService,
		Slot:     slotService,
		Goal:     goalService,
		Note:     noteService,
		Stats:    statsService,
		Feedback: feedbackService,
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("LifeDiary API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(100, time.Minute, 50),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerTagRoutes()
	s.registerSlotRoutes()
	s.registerGoalRoutes()
	s.registerNoteRoutes()
	s.registerStatsRoutes()

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		tokenService: tokenService,
	}
}

// TestOpenAPI_BearerSecurity verifies the generated spec marks every route
// behind token auth with the bearer scheme. Auth endpoints authenticate by
// credentials or refresh token and /health is open, so they stay unmarked.
func TestOpenAPI_BearerSecurity(t *testing.T) {
	ts := setupTestServer(t)

	public := map[string]bool{
		"/health":               true,
		"/api/v1/auth/register": true,
		"/api/v1/auth/login":    true,
		"/api/v1/auth/refresh":  true,
		"/api/v1/auth/logout":   true,
	}

	oapi := ts.Server.api.OpenAPI()
	require.NotEmpty(t, oapi.Paths)

	for path, item := range oapi.Paths {
		for method, op := range map[string]*huma.Operation{
			http.MethodGet:    item.Get,
			http.MethodPost:   item.Post,
			http.MethodPut:    item.Put,
			http.MethodPatch:  item.Patch,
			http.MethodDelete: item.Delete,
		} {
			if op == nil {
				continue
			}
			if public[path] {
				require.Empty(t, op.Security, "%s %s should be public", method, path)
				continue
			}

			hasBearer := false
			for _, req := range op.Security {
				if _, ok := req["bearer"]; ok {
					hasBearer = true
				}
			}
			require.True(t, hasBearer, "%s %s missing bearer security", method, path)
		}
	}
}

// decodeEnvelope parses a response body as the versioned envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	err := json.Unmarshal(body, &envelope)
	require.NoError(t, err)
	return envelope
}

// registerTestUser registers a user and returns the access token and user ID.
func (ts *testServer) registerTestUser(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "TestPassword123!",
		"display_name": "Test User",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	envelope := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	require.True(t, envelope.Success)

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// createTestTag creates a personal tag and returns its ID.
func (ts *testServer) createTestTag(t *testing.T, token, name, color string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags",
		"Authorization: Bearer "+token,
		map[string]any{"name": name, "color": color},
	)
	require.Equal(t, http.StatusOK, resp.Code, "Create tag failed: %s", resp.Body.String())

	envelope := decodeEnvelope[TagResponse](t, resp.Body.Bytes())
	return envelope.Data.ID
}

// saveTestSlots assigns one tag to count consecutive slots on a date.
func (ts *testServer) saveTestSlots(t *testing.T, token, date, tagID string, startIndex, count int) {
	t.Helper()

	slots := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, map[string]any{
			"slot_index": startIndex + i,
			"tag_id":     tagID,
		})
	}

	resp := ts.api.Put("/api/v1/slots",
		"Authorization: Bearer "+token,
		map[string]any{"date": date, "slots": slots},
	)
	require.Equal(t, http.StatusOK, resp.Code, "Save slots failed: %s", resp.Body.String())
}
