// Package status serves the read-only HTTP status API.
package status

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/uber/arena-editor/src/editor/controller/diagnostics"
	"github.com/uber/arena-editor/src/editor/controller/editor"
	languagesession "github.com/uber/arena-editor/src/editor/controller/language-session"
	"github.com/uber/arena-editor/src/editor/entity"
	"github.com/uber/arena-editor/src/editor/internal/httpfx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params are inbound parameters to mount the status routes.
type Params struct {
	fx.In

	HTTP       httpfx.HTTPModule
	Ctrl       editor.Controller
	Aggregator diagnostics.Aggregator
	Session    languagesession.Manager
	Logger     *zap.SugaredLogger
}

// Handler serves the status routes.
type Handler struct {
	ctrl       editor.Controller
	aggregator diagnostics.Aggregator
	session    languagesession.Manager
	logger     *zap.SugaredLogger
}

type problemsResponse struct {
	Summary entity.Summary     `json:"summary"`
	Groups  []entity.FileGroup `json:"groups"`
}

type fileProblemsResponse struct {
	FilePath      string          `json:"filePath"`
	WorstSeverity string          `json:"worstSeverity,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	Markers       []entity.Marker `json:"markers"`
}

type sessionResponse struct {
	Status entity.ConnectionStatus `json:"status"`
	Scope  entity.SessionScope     `json:"scope"`
}

type errResponse struct {
	Error string `json:"error"`
}

// New mounts the status routes on the HTTP module's router.
func New(p Params) *Handler {
	h := &Handler{
		ctrl:       p.Ctrl,
		aggregator: p.Aggregator,
		session:    p.Session,
		logger:     p.Logger.With("component", "status"),
	}
	h.Mount(p.HTTP.Router())
	return h
}

// Mount registers the routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", h.Snapshot)
		r.Get("/problems", h.Problems)
		r.Get("/problems/*", h.FileProblems)
		r.Get("/session", h.Session)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func (h *Handler) Problems(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, problemsResponse{
		Summary: h.aggregator.Summary(),
		Groups:  h.aggregator.GroupByFile(),
	})
}

// FileProblems answers with the markers of one file. The file path is everything after /problems/.
func (h *Handler) FileProblems(w http.ResponseWriter, r *http.Request) {
	filePath := strings.Trim(chi.URLParam(r, "*"), "/")
	if filePath == "" {
		h.writeJSON(w, http.StatusBadRequest, errResponse{Error: "file path is required"})
		return
	}

	resp := fileProblemsResponse{
		FilePath: filePath,
		Markers:  h.aggregator.Markers(filePath),
	}
	if resp.Markers == nil {
		resp.Markers = []entity.Marker{}
	}
	if worst, ok := h.aggregator.WorstSeverity(filePath); ok {
		resp.WorstSeverity = worst.String()
		resp.Icon = worst.Icon()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, sessionResponse{
		Status: h.session.Status(),
		Scope:  h.session.Scope(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warnw("encoding response", "error", err)
	}
}
