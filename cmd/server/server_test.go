package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	config "example.com/socialmedia/internal/init"
	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//
// --- Helpers ---
//

// generate JWT token for test user
func makeTestJWT(userID string, roles ...string) string {
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": "tester",
		"email":    "tester@example.com",
		"roles":    roles,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return tokenStr
}

// create HTTP request with JWT token
func sendJSONRequest(t *testing.T, method, url string, body any, token string, expectedStatus int) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != expectedStatus {
		b, _ := io.ReadAll(resp.Body)
		defer resp.Body.Close()
		t.Fatalf("expected %d, got %d: %s", expectedStatus, resp.StatusCode, string(b))
	}
	return resp
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return v
}

//
// --- Setup test server ---
//

func setupTestServer(t *testing.T) (*store.MockStore, *httptest.Server) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")

	mockStore := store.NewMock()
	s := NewServer(mockStore, &config.Config{
		BcryptCost: bcrypt.MinCost,
		JWTTTL:     time.Hour,
	})

	return mockStore, httptest.NewServer(s.Routes())
}

// helper: seed a user straight into the mock store
func seedUser(t *testing.T, m *store.MockStore, username string, roles ...string) string {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	id := uuid.NewString()
	err := m.CreateUser(context.Background(), models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Created:  time.Now().UTC(),
		Updated:  time.Now().UTC(),
	}, roles)
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return id
}

//
// --- Auth tests ---
//

// signup then signin: token embeds the granted USER role
func TestSignupAndSignin(t *testing.T) {
	_, ts := setupTestServer(t)
	defer ts.Close()

	signup := map[string]any{"username": "almaz", "email": "almaz@example.com", "password": "secret1"}
	resp := sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signup", signup, "", http.StatusOK)
	msg := decodeResponse[map[string]string](t, resp)
	if msg["message"] != "User registered successfully!" {
		t.Fatalf("unexpected signup message: %q", msg["message"])
	}

	signin := map[string]any{"username": "almaz", "password": "secret1"}
	resp = sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signin", signin, "", http.StatusOK)
	body := decodeResponse[map[string]any](t, resp)

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected a token in signin response")
	}
	if body["username"] != "almaz" || body["email"] != "almaz@example.com" {
		t.Fatalf("unexpected identity in signin response: %v", body)
	}

	roles, _ := body["roles"].([]any)
	if len(roles) != 1 || roles[0] != models.RoleUser {
		t.Fatalf("expected roles [USER], got %v", body["roles"])
	}

	// The issued token must pass the middleware on a protected route.
	userID, _ := body["user_id"].(string)
	sendJSONRequest(t, http.MethodGet, ts.URL+"/api/users/"+userID, nil, token, http.StatusOK)
}

func TestSignupDuplicateUsername(t *testing.T) {
	_, ts := setupTestServer(t)
	defer ts.Close()

	signup := map[string]any{"username": "almaz", "email": "almaz@example.com", "password": "secret1"}
	sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signup", signup, "", http.StatusOK)

	dup := map[string]any{"username": "almaz", "email": "other@example.com", "password": "secret1"}
	resp := sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signup", dup, "", http.StatusBadRequest)
	msg := decodeResponse[map[string]string](t, resp)
	if msg["message"] != "Error: Username is already taken!" {
		t.Fatalf("unexpected message: %q", msg["message"])
	}

	dupEmail := map[string]any{"username": "nur", "email": "almaz@example.com", "password": "secret1"}
	resp = sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signup", dupEmail, "", http.StatusBadRequest)
	msg = decodeResponse[map[string]string](t, resp)
	if msg["message"] != "Error: Email is already in use!" {
		t.Fatalf("unexpected message: %q", msg["message"])
	}
}

// validation failures come back as a field -> message map
func TestSignupValidation(t *testing.T) {
	_, ts := setupTestServer(t)
	defer ts.Close()

	bad := map[string]any{"username": "", "email": "not-an-email", "password": "x"}
	resp := sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signup", bad, "", http.StatusBadRequest)
	fields := decodeResponse[map[string]string](t, resp)

	for _, f := range []string{"username", "email", "password"} {
		if fields[f] == "" {
			t.Fatalf("expected a message for field %q, got %v", f, fields)
		}
	}
}

func TestSigninBadCredentials(t *testing.T) {
	_, ts := setupTestServer(t)
	defer ts.Close()

	signup := map[string]any{"username": "almaz", "email": "almaz@example.com", "password": "secret1"}
	sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signup", signup, "", http.StatusOK)

	wrong := map[string]any{"username": "almaz", "password": "wrong"}
	sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signin", wrong, "", http.StatusUnauthorized)

	unknown := map[string]any{"username": "ghost", "password": "secret1"}
	sendJSONRequest(t, http.MethodPost, ts.URL+"/api/auth/signin", unknown, "", http.StatusUnauthorized)
}

//
// --- Authorization tests ---
//

// role check short-circuits before the service runs
func TestAdminOnlyRoutes(t *testing.T) {
	m, ts := setupTestServer(t)
	defer ts.Close()

	userID := seedUser(t, m, "almaz")
	adminID := seedUser(t, m, "root", models.RoleAdmin)

	// No token -> 401
	sendJSONRequest(t, http.MethodGet, ts.URL+"/api/users", nil, "", http.StatusUnauthorized)

	// Regular user -> 403
	sendJSONRequest(t, http.MethodGet, ts.URL+"/api/users", nil, makeTestJWT(userID), http.StatusForbidden)

	// Admin -> 200
	resp := sendJSONRequest(t, http.MethodGet, ts.URL+"/api/users", nil,
		makeTestJWT(adminID, models.RoleAdmin), http.StatusOK)
	users := decodeResponse[[]models.User](t, resp)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	// delete-user is admin-gated too
	sendJSONRequest(t, http.MethodDelete, ts.URL+"/api/users/"+userID, nil,
		makeTestJWT(userID), http.StatusForbidden)
	sendJSONRequest(t, http.MethodDelete, ts.URL+"/api/users/"+userID, nil,
		makeTestJWT(adminID, models.RoleAdmin), http.StatusOK)
}

func TestPublicEndpointsNeedNoToken(t *testing.T) {
	_, ts := setupTestServer(t)
	defer ts.Close()

	sendJSONRequest(t, http.MethodGet, ts.URL+"/api/posts", nil, "", http.StatusOK)
	sendJSONRequest(t, http.MethodGet, ts.URL+"/api/comments", nil, "", http.StatusOK)
}

// invalid JSON body on signup
func TestSignup_InvalidJSON(t *testing.T) {
	_, ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/auth/signup", "application/json",
		bytes.NewBufferString(`{"username":123}`))
	if err != nil {
		t.Fatalf("http.Post failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
