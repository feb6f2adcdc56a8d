// Package testutil hosts an in-process stand-in for the TaskFlow
// backend so the client packages can be tested against the real wire
// shapes, including the `_id` record identifiers the production backend
// emits.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

type userRecord struct {
	user     model.User
	password string
}

type todoRecord struct {
	task     model.Task
	ownerID  string
	archived bool
}

// Server holds all state in memory. It is not safe for concurrent
// mutation from multiple clients; the tests drive it sequentially, as
// the real client does.
type Server struct {
	t      *testing.T
	srv    *httptest.Server
	secret []byte
	users  map[string]*userRecord
	todos  []*todoRecord

	// Fail short-circuits every request with 500 when set; used to
	// simulate a backend outage.
	Fail bool
}

func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		t:      t,
		secret: []byte("testutil-secret"),
		users:  make(map[string]*userRecord),
	}

	router := mux.NewRouter()
	router.Use(s.failMiddleware)

	router.HandleFunc("/user/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/user/login", s.handleLogin).Methods(http.MethodPost)

	authed := router.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/user/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/user/profile", s.handleProfile).Methods(http.MethodGet)
	authed.HandleFunc("/user/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/user/change-password", s.handleChangePassword).Methods(http.MethodPut)
	authed.HandleFunc("/user/account", s.handleDeleteAccount).Methods(http.MethodDelete)

	authed.HandleFunc("/todos", s.handleList).Methods(http.MethodGet)
	authed.HandleFunc("/todos", s.handleCreate).Methods(http.MethodPost)
	authed.HandleFunc("/todos/stats/overview", s.handleStats).Methods(http.MethodGet)
	authed.HandleFunc("/todos/bulk", s.handleBulk).Methods(http.MethodPost)
	authed.HandleFunc("/todos/{id}", s.handleGet).Methods(http.MethodGet)
	authed.HandleFunc("/todos/{id}", s.handleUpdate).Methods(http.MethodPut)
	authed.HandleFunc("/todos/{id}", s.handleDelete).Methods(http.MethodDelete)
	authed.HandleFunc("/todos/{id}/toggle", s.handleToggle).Methods(http.MethodPatch)
	authed.HandleFunc("/todos/{id}/archive", s.handleArchive).Methods(http.MethodPatch)
	authed.HandleFunc("/todos/{id}/subtasks", s.handleAddSubtask).Methods(http.MethodPost)
	authed.HandleFunc("/todos/{id}/subtasks/{subtaskId}", s.handleToggleSubtask).Methods(http.MethodPatch)
	authed.HandleFunc("/todos/{id}/comments", s.handleAddComment).Methods(http.MethodPost)

	s.srv = httptest.NewServer(router)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// RegisterUser seeds an account directly and returns its record ID.
func (s *Server) RegisterUser(name, email, password string) model.User {
	user := model.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Preferences: model.Preferences{
			Theme:         "auto",
			DefaultView:   "list",
			Notifications: model.Notifications{Email: true, Push: true, Reminders: true},
		},
	}
	s.users[email] = &userRecord{user: user, password: password}
	return user
}

// TokenFor mints a valid bearer token for a seeded user.
func (s *Server) TokenFor(email string) string {
	record, ok := s.users[email]
	if !ok {
		s.t.Fatalf("no such user %q", email)
	}
	return s.mintToken(record.user.ID, time.Now().Add(time.Hour))
}

// ExpiredTokenFor mints a token whose exp claim is already in the past.
func (s *Server) ExpiredTokenFor(email string) string {
	record, ok := s.users[email]
	if !ok {
		s.t.Fatalf("no such user %q", email)
	}
	return s.mintToken(record.user.ID, time.Now().Add(-time.Hour))
}

// SeedTask inserts a task for the given owner and returns it with its
// assigned ID.
func (s *Server) SeedTask(ownerID string, task model.Task) model.Task {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	s.todos = append(s.todos, &todoRecord{task: task, ownerID: ownerID})
	return task
}

func (s *Server) mintToken(userID string, expiry time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (s *Server) failMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Fail {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || s.userByID(sub) == nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		r.Header.Set("X-User-ID", sub)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) userByID(id string) *userRecord {
	for _, record := range s.users {
		if record.user.ID == id {
			return record
		}
	}
	return nil
}

func (s *Server) currentUser(r *http.Request) *userRecord {
	return s.userByID(r.Header.Get("X-User-ID"))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if _, exists := s.users[body.Email]; exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	user := s.RegisterUser(body.Name, body.Email, body.Password)
	writeData(w, http.StatusCreated, map[string]any{
		"user":  wireUser(user),
		"token": s.mintToken(user.ID, time.Now().Add(time.Hour)),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, ok := s.users[body.Email]
	if !ok || record.password != body.Password {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"user":  wireUser(record.user),
		"token": s.mintToken(record.user.ID, time.Now().Add(time.Hour)),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	record := s.currentUser(r)
	writeData(w, http.StatusOK, wireUser(record.user))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	record := s.currentUser(r)

	var body struct {
		Name        *string            `json:"name"`
		Avatar      *string            `json:"avatar"`
		Preferences *model.Preferences `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.Name != nil {
		record.user.Name = *body.Name
	}
	if body.Avatar != nil {
		record.user.Avatar = *body.Avatar
	}
	if body.Preferences != nil {
		record.user.Preferences = *body.Preferences
	}

	writeData(w, http.StatusOK, wireUser(record.user))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	record := s.currentUser(r)

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.CurrentPassword != record.password {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	record.password = body.NewPassword
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	record := s.currentUser(r)

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Password != record.password {
		writeError(w, http.StatusBadRequest, "Password is incorrect")
		return
	}

	delete(s.users, record.user.Email)
	kept := s.todos[:0]
	for _, todo := range s.todos {
		if todo.ownerID != record.user.ID {
			kept = append(kept, todo)
		}
	}
	s.todos = kept
	writeData(w, http.StatusOK, nil)
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// wireUser emits the backend's native shape: `_id`, never `id`.
func wireUser(user model.User) map[string]any {
	return map[string]any{
		"_id":         user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"avatar":      user.Avatar,
		"preferences": user.Preferences,
	}
}
