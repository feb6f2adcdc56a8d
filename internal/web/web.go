package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/session"
	"github.com/rajeshprivate007/taskflow-frontend/internal/todo"
	"github.com/rajeshprivate007/taskflow-frontend/internal/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))
	taskTemplate  = template.Must(template.ParseFS(templateFS, "templates/task.tmpl"))
)

// Server exposes a read-only dashboard over the signed-in user's tasks.
// It renders whatever the stores currently hold; /refresh pulls a fresh
// snapshot from the backend before redirecting home.
type Server struct {
	sess  *session.Store
	todos *todo.Store
}

func NewServer(sess *session.Store, todos *todo.Store) *Server {
	return &Server{sess: sess, todos: todos}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/tasks/", s.taskHandler)
	mux.HandleFunc("/refresh", s.refreshHandler)
	mux.HandleFunc("/api/tasks", s.apiTasksHandler)
	mux.HandleFunc("/api/stats", s.apiStatsHandler)
	return mux
}

type indexData struct {
	UserName       string
	Tasks          []model.Task
	Stats          model.Stats
	CompletionRate int
	Week           []view.DayCount
	Search         string
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := indexData{
		UserName:       "guest",
		Tasks:          view.Sort(s.todos.Tasks()),
		Stats:          s.todos.Stats(),
		CompletionRate: view.CompletionRate(s.todos.Stats()),
		Week:           view.WeeklyProductivity(s.todos.Tasks(), time.Now()),
		Search:         s.todos.Filters().Search,
	}
	if user := s.sess.User(); user != nil {
		data.UserName = user.Name
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) taskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Path, "/tasks/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	task, ok := s.findTask(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %s not found", id))
		return
	}

	if err := taskTemplate.Execute(w, task); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.Load(r.Context(), model.FilterPatch{}); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if err := s.todos.RefreshStats(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, view.Sort(s.todos.Tasks()))
}

func (s *Server) apiStatsHandler(w http.ResponseWriter, _ *http.Request) {
	payload := struct {
		Stats          model.Stats     `json:"stats"`
		CompletionRate int             `json:"completionRate"`
		Week           []view.DayCount `json:"week"`
	}{
		Stats:          s.todos.Stats(),
		CompletionRate: view.CompletionRate(s.todos.Stats()),
		Week:           view.WeeklyProductivity(s.todos.Tasks(), time.Now()),
	}
	writeJSON(w, payload)
}

func (s *Server) findTask(id string) (model.Task, bool) {
	for _, task := range s.todos.Tasks() {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func parseID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("invalid path")
	}
	value := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if value == "" {
		return "", fmt.Errorf("missing id")
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
