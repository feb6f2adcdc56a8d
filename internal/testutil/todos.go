package testutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	query := r.URL.Query()

	matched := make([]model.Task, 0, len(s.todos))
	for _, record := range s.todos {
		if record.ownerID != userID || record.archived {
			continue
		}
		if !matchesFilters(record.task, query) {
			continue
		}
		matched = append(matched, record.task)
	}

	page := intParam(query.Get("page"), 1)
	limit := intParam(query.Get("limit"), 20)
	total := len(matched)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	todos := make([]map[string]any, 0, end-start)
	for _, task := range matched[start:end] {
		todos = append(todos, wireTask(task))
	}

	writeData(w, http.StatusOK, map[string]any{
		"todos": todos,
		"total": total,
		"page":  page,
		"pages": pages,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}
	writeData(w, http.StatusOK, wireTask(record.task))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input model.Task
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	input.ID = uuid.NewString()
	if input.Status == "" {
		input.Status = model.StatusPending
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	now := time.Now()
	input.CreatedAt = now
	input.UpdatedAt = now

	s.todos = append(s.todos, &todoRecord{task: input, ownerID: r.Header.Get("X-User-ID")})
	writeData(w, http.StatusCreated, wireTask(input))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	var patch struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Priority    *string    `json:"priority"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"dueDate"`
		DueTime     *string    `json:"dueTime"`
		Category    *string    `json:"category"`
		Starred     *bool      `json:"starred"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if patch.Title != nil {
		record.task.Title = *patch.Title
	}
	if patch.Description != nil {
		record.task.Description = *patch.Description
	}
	if patch.Priority != nil {
		record.task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		record.task.Status = *patch.Status
	}
	if patch.DueDate != nil {
		record.task.DueDate = patch.DueDate
	}
	if patch.DueTime != nil {
		record.task.DueTime = *patch.DueTime
	}
	if patch.Category != nil {
		record.task.Category = *patch.Category
	}
	if patch.Starred != nil {
		record.task.Starred = *patch.Starred
	}
	record.task.UpdatedAt = time.Now()

	writeData(w, http.StatusOK, wireTask(record.task))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	if record.task.Status == model.StatusCompleted {
		record.task.Status = model.StatusPending
	} else {
		record.task.Status = model.StatusCompleted
	}
	record.task.UpdatedAt = time.Now()

	writeData(w, http.StatusOK, wireTask(record.task))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	target := s.findTodo(r)
	if target == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	kept := s.todos[:0]
	for _, record := range s.todos {
		if record != target {
			kept = append(kept, record)
		}
	}
	s.todos = kept
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	record.archived = true
	record.task.UpdatedAt = time.Now()
	writeData(w, http.StatusOK, wireTask(record.task))
}

func (s *Server) handleAddSubtask(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "Subtask title is required")
		return
	}

	record.task.Subtasks = append(record.task.Subtasks, model.Subtask{
		ID:    uuid.NewString(),
		Title: body.Title,
	})
	record.task.UpdatedAt = time.Now()
	writeData(w, http.StatusOK, wireTask(record.task))
}

func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	subtaskID := mux.Vars(r)["subtaskId"]
	for i := range record.task.Subtasks {
		if record.task.Subtasks[i].ID == subtaskID {
			record.task.Subtasks[i].Completed = !record.task.Subtasks[i].Completed
			record.task.UpdatedAt = time.Now()
			writeData(w, http.StatusOK, wireTask(record.task))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Subtask not found")
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	record := s.findTodo(r)
	if record == nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	author := s.currentUser(r).user.Name
	record.task.Comments = append(record.task.Comments, model.Comment{
		ID:        uuid.NewString(),
		Text:      body.Text,
		Author:    author,
		CreatedAt: time.Now(),
	})
	record.task.UpdatedAt = time.Now()
	writeData(w, http.StatusOK, wireTask(record.task))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	stats := model.Stats{}
	today := time.Now()
	for _, record := range s.todos {
		if record.ownerID != userID || record.archived {
			continue
		}
		task := record.task
		stats.Total++
		switch task.Status {
		case model.StatusCompleted:
			stats.Completed++
		case model.StatusInProgress:
			stats.InProgress++
		default:
			stats.Pending++
		}
		if task.Priority == model.PriorityHigh {
			stats.HighPriority++
		}
		if task.DueDate != nil && task.DueDate.Before(today) && task.Status != model.StatusCompleted {
			stats.Overdue++
		}
	}

	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	var body struct {
		Action string   `json:"action"`
		IDs    []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wanted := make(map[string]struct{}, len(body.IDs))
	for _, id := range body.IDs {
		wanted[id] = struct{}{}
	}

	modified := 0
	kept := s.todos[:0]
	for _, record := range s.todos {
		_, targeted := wanted[record.task.ID]
		if record.ownerID != userID || !targeted {
			kept = append(kept, record)
			continue
		}

		switch body.Action {
		case "delete":
			modified++
			continue
		case "archive":
			record.archived = true
			modified++
		case "complete":
			record.task.Status = model.StatusCompleted
			record.task.UpdatedAt = time.Now()
			modified++
		default:
			writeError(w, http.StatusBadRequest, "Unknown bulk action")
			return
		}
		kept = append(kept, record)
	}
	s.todos = kept

	writeData(w, http.StatusOK, map[string]any{"modified": modified})
}

func (s *Server) findTodo(r *http.Request) *todoRecord {
	id := mux.Vars(r)["id"]
	userID := r.Header.Get("X-User-ID")
	for _, record := range s.todos {
		if record.task.ID == id && record.ownerID == userID {
			return record
		}
	}
	return nil
}

func matchesFilters(task model.Task, query map[string][]string) bool {
	get := func(key string) string {
		if values, ok := query[key]; ok && len(values) > 0 {
			return values[0]
		}
		return ""
	}

	if search := get("search"); search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			return false
		}
	}
	if status := get("status"); status != "" && status != "all" && task.Status != status {
		return false
	}
	if priority := get("priority"); priority != "" && priority != "all" && task.Priority != priority {
		return false
	}
	if category := get("category"); category != "" && category != "all" && task.Category != category {
		return false
	}
	if starred := get("starred"); starred != "" && starred != "all" {
		if starred == "true" != task.Starred {
			return false
		}
	}
	return true
}

func intParam(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// wireTask emits the backend's native shape: `_id` on the task and on
// every nested subtask and comment, never `id`.
func wireTask(task model.Task) map[string]any {
	raw, _ := json.Marshal(task)
	var wire map[string]any
	_ = json.Unmarshal(raw, &wire)

	wire["_id"] = task.ID
	delete(wire, "id")

	swapNestedIDs(wire, "subtasks")
	swapNestedIDs(wire, "comments")
	return wire
}

func swapNestedIDs(wire map[string]any, key string) {
	items, ok := wire[key].([]any)
	if !ok {
		return
	}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry["_id"] = entry["id"]
		delete(entry, "id")
	}
}
