package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/arogyamitra/internal/auth"
	"github.com/geocoder89/arogyamitra/internal/domain/report"
	"github.com/geocoder89/arogyamitra/internal/domain/user"
	"github.com/geocoder89/arogyamitra/internal/http/handlers"
	"github.com/geocoder89/arogyamitra/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementations of the handler dependencies

type fakeCredentials struct {
	registerFn     func(ctx context.Context, req user.RegisterRequest) (user.User, error)
	authenticateFn func(ctx context.Context, email, password string) (user.User, error)
}

func (f *fakeCredentials) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return user.User{}, nil
}

func (f *fakeCredentials) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(ctx, email, password)
	}
	return user.User{}, nil
}

type fakeReports struct {
	insertFn func(ctx context.Context, r report.Report) error
	listFn   func(ctx context.Context, userID string, limit int) ([]report.Report, error)
}

func (f *fakeReports) Insert(ctx context.Context, r report.Report) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, r)
	}
	return nil
}

func (f *fakeReports) ListForUser(ctx context.Context, userID string, limit int) ([]report.Report, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, limit)
	}
	return []report.Report{}, nil
}

type fakeDiagnoser struct {
	text       string
	lastPrompt string
}

func (f *fakeDiagnoser) Diagnose(_ context.Context, prompt string) string {
	f.lastPrompt = prompt
	return f.text
}

type fakeOwners struct {
	exists bool
	err    error
}

func (f fakeOwners) Exists(context.Context, string) (bool, error) {
	return f.exists, f.err
}

type fakeIssuer struct{}

func (fakeIssuer) GenerateAccessToken(userID, _ string) (string, error) {
	return "token-for-" + userID, nil
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	if token == "bad" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{UserID: token}, nil
}

// small helper which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, middlewares.NewAuthMiddleware(fakeVerifier{}).OptionalAuth(), h)

	return r
}

func doJSON(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body=%s", w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	h := handlers.NewHealthHandler(nil)
	r := setupRouter(http.MethodGet, "/api/health", h.Healthz)

	w := doJSON(r, http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ArogyaMitra API", body["service"])
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]handlers.Pinger
		wantStatus int
	}{
		{name: "no checks", wantStatus: http.StatusOK},
		{
			name: "healthy dependency",
			checks: map[string]handlers.Pinger{
				"postgres": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "failing dependency",
			checks: map[string]handlers.Pinger{
				"redis": func(context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.checks)
			r := setupRouter(http.MethodGet, "/readyz", h.Readyz)

			w := doJSON(r, http.MethodGet, "/readyz", "", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setup       func(*fakeCredentials)
		issuer      handlers.TokenIssuer
		wantStatus  int
		wantMessage string
		wantToken   bool
	}{
		{
			name: "success",
			body: `{"name":"Asha","email":"asha@example.org","password":"pw"}`,
			setup: func(f *fakeCredentials) {
				f.registerFn = func(_ context.Context, req user.RegisterRequest) (user.User, error) {
					return user.User{ID: "user-1", Name: req.Name, Email: req.Email}, nil
				}
			},
			wantStatus:  http.StatusOK,
			wantMessage: "User registered successfully",
		},
		{
			name: "success with token",
			body: `{"name":"Asha","email":"asha@example.org","password":"pw","phone":"+91"}`,
			setup: func(f *fakeCredentials) {
				f.registerFn = func(_ context.Context, req user.RegisterRequest) (user.User, error) {
					return user.User{ID: "user-1", Name: req.Name, Email: req.Email}, nil
				}
			},
			issuer:      fakeIssuer{},
			wantStatus:  http.StatusOK,
			wantMessage: "User registered successfully",
			wantToken:   true,
		},
		{
			name: "duplicate email",
			body: `{"name":"Asha","email":"asha@example.org","password":"pw"}`,
			setup: func(f *fakeCredentials) {
				f.registerFn = func(context.Context, user.RegisterRequest) (user.User, error) {
					return user.User{}, user.ErrDuplicateEmail
				}
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Email already registered",
		},
		{
			name:        "missing password",
			body:        `{"name":"Asha","email":"asha@example.org"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "storage failure",
			body: `{"name":"Asha","email":"asha@example.org","password":"pw"}`,
			setup: func(f *fakeCredentials) {
				f.registerFn = func(context.Context, user.RegisterRequest) (user.User, error) {
					return user.User{}, errors.New("db down")
				}
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Could not register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &fakeCredentials{}
			if tt.setup != nil {
				tt.setup(creds)
			}

			h := handlers.NewAuthHandler(creds, tt.issuer)
			r := setupRouter(http.MethodPost, "/api/register", h.Register)

			w := doJSON(r, http.MethodPost, "/api/register", tt.body, nil)

			require.Equal(t, tt.wantStatus, w.Code, "body=%s", w.Body.String())
			body := decode(t, w)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Equal(t, tt.wantStatus == http.StatusOK, body["success"])

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user-1", body["user_id"])
				assert.Equal(t, "Asha", body["name"])
			}

			_, hasToken := body["access_token"]
			assert.Equal(t, tt.wantToken, hasToken)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		authErr     error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success",
			body:        `{"email":"asha@example.org","password":"pw"}`,
			wantStatus:  http.StatusOK,
			wantMessage: "Login successful",
		},
		{
			name:        "invalid credentials",
			body:        `{"email":"asha@example.org","password":"nope"}`,
			authErr:     user.ErrInvalidCredentials,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "missing fields",
			body:        `{"email":"asha@example.org"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &fakeCredentials{
				authenticateFn: func(_ context.Context, email, _ string) (user.User, error) {
					if tt.authErr != nil {
						return user.User{}, tt.authErr
					}
					return user.User{ID: "user-1", Name: "Asha", Email: email}, nil
				},
			}

			h := handlers.NewAuthHandler(creds, nil)
			r := setupRouter(http.MethodPost, "/api/login", h.Login)

			w := doJSON(r, http.MethodPost, "/api/login", tt.body, nil)

			require.Equal(t, tt.wantStatus, w.Code, "body=%s", w.Body.String())
			body := decode(t, w)
			assert.Equal(t, tt.wantMessage, body["message"])

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "user-1", body["user_id"])
				assert.Equal(t, "Asha", body["name"])
				assert.Equal(t, "asha@example.org", body["email"])
			}
		})
	}
}

func TestAssessHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		headers     map[string]string
		diagnosis   string
		owners      handlers.UserChecker
		insertErr   error
		wantStatus  int
		wantUrgency string
	}{
		{
			name:        "urgent diagnosis is high",
			body:        `{"user_id":"u1","symptoms":"chest pain","age":54}`,
			diagnosis:   "This looks URGENT. Seek care now.",
			wantStatus:  http.StatusOK,
			wantUrgency: "High",
		},
		{
			name:        "low diagnosis",
			body:        `{"user_id":"u1","symptoms":"mild cold"}`,
			diagnosis:   "Urgency level: low. Rest and fluids.",
			wantStatus:  http.StatusOK,
			wantUrgency: "Low",
		},
		{
			name:        "no keyword is medium",
			body:        `{"user_id":"u1","symptoms":"headache"}`,
			diagnosis:   "Probably tension headache.",
			wantStatus:  http.StatusOK,
			wantUrgency: "Medium",
		},
		{
			name:       "missing symptoms",
			body:       `{"user_id":"u1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown owner when validated",
			body:       `{"user_id":"ghost","symptoms":"fever"}`,
			owners:     fakeOwners{exists: false},
			wantStatus: http.StatusNotFound,
		},
		{
			name:        "known owner when validated",
			body:        `{"user_id":"u1","symptoms":"fever"}`,
			owners:      fakeOwners{exists: true},
			diagnosis:   "fine",
			wantStatus:  http.StatusOK,
			wantUrgency: "Medium",
		},
		{
			name:       "store failure",
			body:       `{"user_id":"u1","symptoms":"fever"}`,
			diagnosis:  "fine",
			insertErr:  errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "token for another user",
			body:       `{"user_id":"u1","symptoms":"fever"}`,
			headers:    map[string]string{"Authorization": "Bearer u2"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid token",
			body:       `{"user_id":"u1","symptoms":"fever"}`,
			headers:    map[string]string{"Authorization": "Bearer bad"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "token for same user",
			body:        `{"user_id":"u1","symptoms":"fever"}`,
			headers:     map[string]string{"Authorization": "Bearer u1"},
			diagnosis:   "EMERGENCY",
			wantStatus:  http.StatusOK,
			wantUrgency: "High",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored []report.Report
			reports := &fakeReports{
				insertFn: func(_ context.Context, r report.Report) error {
					if tt.insertErr != nil {
						return tt.insertErr
					}
					stored = append(stored, r)
					return nil
				},
			}

			h := handlers.NewAssessmentHandler(&fakeDiagnoser{text: tt.diagnosis}, reports, tt.owners, nil)
			r := setupRouter(http.MethodPost, "/api/assess-symptoms", h.Assess)

			w := doJSON(r, http.MethodPost, "/api/assess-symptoms", tt.body, tt.headers)

			require.Equal(t, tt.wantStatus, w.Code, "body=%s", w.Body.String())
			body := decode(t, w)

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, false, body["success"])
				assert.Empty(t, stored)
				return
			}

			require.Len(t, stored, 1)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.wantUrgency, body["urgency_level"])
			assert.Equal(t, stored[0].ID, body["report_id"])
			assert.Equal(t, tt.diagnosis, body["preliminary_diagnosis"])
			assert.Equal(t, []interface{}{
				"Follow the guidance provided above",
				"Consult with a healthcare professional for proper diagnosis",
				"Keep monitoring your symptoms",
			}, body["recommendations"])

			createdAt, ok := body["created_at"].(string)
			require.True(t, ok)
			_, err := time.Parse("2006-01-02T15:04:05.000Z", createdAt)
			assert.NoError(t, err)
		})
	}
}

func TestAssessHandlerBuildsPromptFromRequest(t *testing.T) {
	diag := &fakeDiagnoser{text: "ok"}
	h := handlers.NewAssessmentHandler(diag, &fakeReports{}, nil, nil)
	r := setupRouter(http.MethodPost, "/api/assess-symptoms", h.Assess)

	w := doJSON(r, http.MethodPost, "/api/assess-symptoms",
		`{"user_id":"u1","symptoms":"fever and cough","age":30,"gender":"male"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, diag.lastPrompt, "fever and cough")
	assert.Contains(t, diag.lastPrompt, "30")
	assert.Contains(t, diag.lastPrompt, "male")
}

func TestListReportsHandler(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)
	age := 30

	tests := []struct {
		name       string
		listFn     func(ctx context.Context, userID string, limit int) ([]report.Report, error)
		wantStatus int
		wantCount  float64
	}{
		{
			name: "reports for user",
			listFn: func(_ context.Context, userID string, limit int) ([]report.Report, error) {
				if limit != report.DefaultListLimit {
					return nil, errors.New("unexpected limit")
				}
				return []report.Report{{
					ID:                   "r1",
					UserID:               userID,
					Symptoms:             "fever",
					Age:                  &age,
					PreliminaryDiagnosis: "rest",
					UrgencyLevel:         report.UrgencyLow,
					CreatedAt:            created,
					IsActive:             true,
				}}, nil
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:       "no reports",
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name: "store failure",
			listFn: func(context.Context, string, int) ([]report.Report, error) {
				return nil, errors.New("boom")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewReportsHandler(&fakeReports{listFn: tt.listFn})
			r := setupRouter(http.MethodGet, "/api/user-reports/:user_id", h.ListForUser)

			w := doJSON(r, http.MethodGet, "/api/user-reports/u1", "", nil)

			require.Equal(t, tt.wantStatus, w.Code, "body=%s", w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := decode(t, w)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.wantCount, body["count"])

			list, ok := body["reports"].([]interface{})
			require.True(t, ok, "reports must be a JSON array")
			require.Len(t, list, int(tt.wantCount))

			if len(list) == 1 {
				item := list[0].(map[string]interface{})
				assert.Equal(t, "r1", item["report_id"])
				assert.Equal(t, "2026-03-01T09:30:00.123Z", item["created_at"])
				assert.Equal(t, "Low", item["urgency_level"])
				assert.Equal(t, float64(30), item["age"])
				assert.Nil(t, item["gender"])
				assert.Equal(t, true, item["is_active"])
			}
		})
	}
}

func TestListReportsHandlerETag(t *testing.T) {
	h := handlers.NewReportsHandler(&fakeReports{})
	r := setupRouter(http.MethodGet, "/api/user-reports/:user_id", h.ListForUser)

	first := doJSON(r, http.MethodGet, "/api/user-reports/u1", "", nil)
	require.Equal(t, http.StatusOK, first.Code)

	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := doJSON(r, http.MethodGet, "/api/user-reports/u1", "", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, second.Code)
}

func TestListReportsHandlerRejectsOtherUsersToken(t *testing.T) {
	h := handlers.NewReportsHandler(&fakeReports{})
	r := setupRouter(http.MethodGet, "/api/user-reports/:user_id", h.ListForUser)

	w := doJSON(r, http.MethodGet, "/api/user-reports/u1", "", map[string]string{"Authorization": "Bearer u2"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNearbyFacilitiesHandler(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantSearched string
	}{
		{name: "free text location", query: "?location=Pune", wantSearched: "Pune"},
		{name: "coordinates", query: "?latitude=18.5&longitude=73.8", wantSearched: "Lat: 18.5, Lng: 73.8"},
		{name: "nothing", query: "", wantSearched: "Lat: undefined, Lng: undefined"},
		{name: "location wins", query: "?latitude=1&longitude=2&location=Delhi", wantSearched: "Delhi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewFacilitiesHandler()
			r := setupRouter(http.MethodGet, "/api/nearby-facilities", h.Nearby)

			w := doJSON(r, http.MethodGet, "/api/nearby-facilities"+tt.query, "", nil)

			require.Equal(t, http.StatusOK, w.Code)
			body := decode(t, w)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.wantSearched, body["location_searched"])

			list, ok := body["facilities"].([]interface{})
			require.True(t, ok)
			assert.Len(t, list, 3)
		})
	}
}
