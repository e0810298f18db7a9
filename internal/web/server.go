// Package web serves the read-only HTTP API over the repository.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pomodo/internal/core"
)

// Server exposes the current timer, the todo aggregate and the daily
// summaries as JSON. Repository access is serialized with a mutex: the
// store runs on a single connection shared with the CLI process.
type Server struct {
	repo core.Repository
	loc  *time.Location
	log  *slog.Logger

	mu sync.Mutex

	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func NewServer(repo core.Repository, loc *time.Location, log *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pomodo",
		Name:      "http_requests_total",
		Help:      "HTTP requests by path and status",
	}, []string{"path", "status"})
	registry.MustRegister(requests)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		repo:     repo,
		loc:      loc,
		log:      log,
		registry: registry,
		requests: requests,
	}
}

// Handler builds the route table wrapped in the logging, recovery and
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/current", s.handleCurrent)
	mux.HandleFunc("GET /api/todo", s.handleTodo)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return s.recoverPanics(s.observe(mux))
}

// Serve blocks until ctx is cancelled, then shuts the listener down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// --- Middleware ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.requests.WithLabelValues(r.URL.Path, fmt.Sprintf("%d", rec.status)).Inc()
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type currentResponse struct {
	Kind        string        `json:"kind"`
	Label       string        `json:"label"`
	StartedAt   time.Time     `json:"started_at"`
	EndsAt      time.Time     `json:"ends_at"`
	DurationMin int64         `json:"duration_minutes"`
	Task        *taskResponse `json:"task,omitempty"`
}

type taskResponse struct {
	ID       int64  `json:"id"`
	Summary  string `json:"summary"`
	Estimate int64  `json:"estimate"`
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cur, err := core.Current(s.repo)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cur == nil {
		writeError(w, http.StatusNotFound, "no timer running")
		return
	}

	resp := currentResponse{
		Kind:        cur.Kind.String(),
		Label:       cur.Label,
		StartedAt:   cur.StartedAt,
		EndsAt:      cur.End(),
		DurationMin: cur.DurationMin,
	}
	if cur.Task != nil {
		resp.Task = &taskResponse{ID: cur.Task.ID, Summary: cur.Task.Summary, Estimate: cur.Task.Estimate}
	}
	writeJSON(w, http.StatusOK, resp)
}

type todoResponse struct {
	Date      string             `json:"date"`
	Estimate  int64              `json:"estimate"`
	Actual    int64              `json:"actual"`
	Remaining int64              `json:"remaining"`
	Tasks     []todoTaskResponse `json:"tasks"`
}

type todoTaskResponse struct {
	ID       int64  `json:"id"`
	Summary  string `json:"summary"`
	Estimate int64  `json:"estimate"`
	Actual   int64  `json:"actual"`
}

func (s *Server) handleTodo(w http.ResponseWriter, r *http.Request) {
	date := core.Today(s.loc)
	if q := r.URL.Query().Get("date"); q != "" {
		var err error
		date, err = core.ParseDate(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	s.mu.Lock()
	tasks, err := core.ListTodoTasks(s.repo, date, s.loc)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := core.SummarizeTodo(date, tasks)
	resp := todoResponse{
		Date:      date.String(),
		Estimate:  summary.Estimate,
		Actual:    summary.Actual,
		Remaining: summary.Remaining,
		Tasks:     []todoTaskResponse{},
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, todoTaskResponse{
			ID: t.TaskID, Summary: t.Summary, Estimate: t.Estimate, Actual: t.Actual,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type summaryRow struct {
	Day           string `json:"day"`
	TaskID        int64  `json:"task_id"`
	Pomodoros     int64  `json:"pomodoros"`
	Interruptions int64  `json:"interruptions"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)

	if q := r.URL.Query().Get("start"); q != "" {
		t, err := time.Parse(time.RFC3339, q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start must be RFC3339")
			return
		}
		start = t
	}
	if q := r.URL.Query().Get("end"); q != "" {
		t, err := time.Parse(time.RFC3339, q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end must be RFC3339")
			return
		}
		end = t
	}

	s.mu.Lock()
	summaries, err := core.DailySummaries(s.repo, core.SummaryRange{Start: start, End: end}, s.loc)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows := []summaryRow{}
	for _, sum := range summaries {
		rows = append(rows, summaryRow{
			Day:           sum.Day.String(),
			TaskID:        sum.TaskID,
			Pomodoros:     sum.PomodoroCount,
			Interruptions: sum.InterruptionCount,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
