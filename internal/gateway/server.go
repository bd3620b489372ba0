package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/events"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/gateway/ws"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// Server is the Antigravity gateway HTTP server. It exposes the task API,
// the WebSocket event bridge, and the offline asset proxy.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	store      *tasks.Store
	cache      *Cache
	locale     string
	host       string
	port       int
	started    time.Time
}

// Options configures a gateway server.
type Options struct {
	Store  *tasks.Store
	Bus    *events.Bus
	Cache  *Cache // optional; asset requests 404 without it
	Locale string
	Host   string
	Port   int
}

// NewServer creates a new gateway server.
func NewServer(opts Options) *Server {
	hub := ws.NewHub(opts.Bus)
	if opts.Cache != nil {
		hub.SetActivator(opts.Cache)
	}

	s := &Server{
		hub:     hub,
		bus:     opts.Bus,
		store:   opts.Store,
		cache:   opts.Cache,
		locale:  opts.Locale,
		host:    opts.Host,
		port:    opts.Port,
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ws", hub.ServeWS)
	r.Get("/api/events", s.handleEvents)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleCreateTask)
		r.Post("/reorder", s.handleReorder)
		r.Route("/{id}", func(r chi.Router) {
			r.Patch("/", s.handleUpdateTask)
			r.Delete("/", s.handleDeleteTask)
			r.Post("/toggle", s.handleToggleTask)
			r.Post("/archive", s.handleArchiveTask)
			r.Post("/restore", s.handleRestoreTask)
			r.Post("/subtasks", s.handleAddSubtask)
			r.Route("/subtasks/{subtaskID}", func(r chi.Router) {
				r.Patch("/", s.handleUpdateSubtask)
				r.Delete("/", s.handleDeleteSubtask)
				r.Post("/toggle", s.handleToggleSubtask)
			})
		})
	})

	r.Get("/api/archive", s.handleListArchive)
	r.Post("/api/archive/completed", s.handleArchiveCompleted)

	r.Get("/api/trash", s.handleListTrash)
	r.Delete("/api/trash", s.handleEmptyTrash)
	r.Delete("/api/trash/{id}", s.handlePurgeTask)

	r.Post("/api/undo", s.handleUndo)
	r.Get("/api/categories", s.handleCategories)
	r.Get("/api/counts", s.handleCounts)
	r.Get("/api/export", s.handleExport)
	r.Post("/api/import", s.handleImport)

	// Everything else is an asset request served through the offline cache.
	r.NotFound(s.handleAsset)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50
	if limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}

	history := s.bus.History(limit)

	type eventJSON struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		Timestamp string `json:"timestamp"`
		Payload   any    `json:"payload,omitempty"`
	}

	result := make([]eventJSON, len(history))
	for i, e := range history {
		result[i] = eventJSON{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Payload:   e.Payload,
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	spec := tasks.ViewSpec{
		Status:   tasks.StatusAll,
		Category: tasks.CategoryAll,
		Search:   q.Get("q"),
		Sort:     tasks.SortCreated,
		Locale:   s.locale,
	}
	if v := q.Get("status"); v != "" {
		spec.Status = tasks.StatusFilter(v)
	}
	if v := q.Get("category"); v != "" {
		spec.Category = v
	}
	if v := q.Get("sort"); v != "" {
		spec.Sort = tasks.SortKey(v)
	}

	writeJSON(w, http.StatusOK, tasks.View(s.store.Active(), spec))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var draft tasks.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	task, err := s.store.Create(draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch tasks.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	task, err := s.store.Update(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, _, err := s.store.SoftDelete(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.ToggleComplete(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleArchiveTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Archive(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleRestoreTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From tasks.Collection `json:"from"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	task, err := s.store.Restore(chi.URLParam(r, "id"), body.From)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID     string `json:"id"`
		Before string `json:"before"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := s.store.Reorder(body.ID, body.Before); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Active())
}

func (s *Server) handleAddSubtask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	sub, err := s.store.AddSubtask(chi.URLParam(r, "id"), body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleUpdateSubtask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	sub, err := s.store.UpdateSubtask(chi.URLParam(r, "id"), chi.URLParam(r, "subtaskID"), body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSubtask(chi.URLParam(r, "id"), chi.URLParam(r, "subtaskID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.ToggleSubtask(chi.URLParam(r, "id"), chi.URLParam(r, "subtaskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Archived())
}

func (s *Server) handleArchiveCompleted(w http.ResponseWriter, r *http.Request) {
	moved, err := s.store.BulkArchiveCompleted()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"archived": moved})
}

func (s *Server) handleListTrash(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Trashed())
}

func (s *Server) handleEmptyTrash(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.EmptyTrash()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handlePurgeTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PurgePermanently(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Undo()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	remaining, archived, trashed := s.store.Counts()
	writeJSON(w, http.StatusOK, map[string]int{
		"remaining": remaining,
		"archived":  archived,
		"trashed":   trashed,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.ExportJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="todos-export.json"`)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	added, err := s.store.Import(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		http.NotFound(w, r)
		return
	}
	s.cache.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
