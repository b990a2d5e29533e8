// Package server exposes the runtime over HTTP.
//
// The API is small: POST /run executes code, POST /scripts saves a
// program, GET /scripts lists saved programs, GET /scripts/{scriptID}
// fetches one, and GET /stats returns persisted run reports. Every run
// gets a fresh runtime so nothing leaks between requests, and the
// per-request settings a client may send are clamped to the server's
// configured ceilings before they reach the runtime.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecolang-io/ecolang"
	"github.com/ecolang-io/ecolang/eco"
	"github.com/ecolang-io/ecolang/errz"
	"github.com/ecolang-io/ecolang/interp"
	"github.com/ecolang-io/ecolang/sandbox"
	"github.com/ecolang-io/ecolang/storage"
)

// Server routes HTTP requests to the runtime and the store.
type Server struct {
	ceiling interp.Config
	store   *storage.Store
	box     *sandbox.Runner
	logger  zerolog.Logger
	router  chi.Router
}

// New builds a Server. The store must not be nil; runs are persisted
// through it and the script endpoints read from it.
func New(cfg Config, store *storage.Store, logger zerolog.Logger) *Server {
	boxOpts := []sandbox.Option{sandbox.WithLogger(logger)}
	if len(cfg.WorkerCommand) > 0 {
		boxOpts = append(boxOpts, sandbox.WithCommand(cfg.WorkerCommand...))
	}
	s := &Server{
		ceiling: cfg.Ceiling(),
		store:   store,
		box:     sandbox.NewRunner(boxOpts...),
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Get("/health", s.handleHealth)
	r.Post("/run", s.handleRun)
	r.Post("/scripts", s.handleSaveScript)
	r.Get("/scripts", s.handleListScripts)
	r.Get("/scripts/{scriptID}", s.handleGetScript)
	r.Get("/stats", s.handleStats)
	s.router = r
	return s
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

type runRequest struct {
	Code     string         `json:"code"`
	Inputs   map[string]any `json:"inputs,omitempty"`
	Settings *runSettings   `json:"settings,omitempty"`
	ScriptID *int64         `json:"script_id,omitempty"`
}

// runSettings are the per-request tunables. The limit fields are capped
// at the server ceiling; the eco tunables pass through as sent because
// they only shape the estimate, not resource use.
type runSettings struct {
	MaxSteps       *int64   `json:"max_steps,omitempty"`
	MaxLoop        *int64   `json:"max_loop,omitempty"`
	MaxTimeS       *float64 `json:"max_time_s,omitempty"`
	MaxOutputChars *int64   `json:"max_output_chars,omitempty"`
	EnergyPerOpJ   *float64 `json:"energy_per_op_J,omitempty"`
	IdlePowerW     *float64 `json:"idle_power_W,omitempty"`
	CO2PerKWhG     *float64 `json:"co2_per_kwh_g,omitempty"`
	UseSubprocess  bool     `json:"use_subprocess,omitempty"`
}

type runResponse struct {
	Output     string      `json:"output"`
	Warnings   []string    `json:"warnings"`
	Eco        *eco.Report `json:"eco"`
	Errors     *errz.Error `json:"errors"`
	DurationMS int64       `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// capSettings merges the requested settings into the ceiling config,
// clamping each limit to min(requested, ceiling).
func capSettings(req *runSettings, ceiling interp.Config) interp.Config {
	cfg := ceiling
	if req == nil {
		return cfg
	}
	if req.MaxSteps != nil {
		cfg.MaxSteps = min(*req.MaxSteps, cfg.MaxSteps)
	}
	if req.MaxLoop != nil {
		cfg.MaxLoop = min(*req.MaxLoop, cfg.MaxLoop)
	}
	if req.MaxTimeS != nil {
		seconds := min(*req.MaxTimeS, cfg.MaxTime.Seconds())
		cfg.MaxTime = time.Duration(seconds * float64(time.Second))
	}
	if req.MaxOutputChars != nil {
		cfg.MaxOutputChars = min(*req.MaxOutputChars, cfg.MaxOutputChars)
	}
	if req.EnergyPerOpJ != nil {
		cfg.EcoParams.EnergyPerOpJ = *req.EnergyPerOpJ
	}
	if req.IdlePowerW != nil {
		cfg.EcoParams.IdlePowerW = *req.IdlePowerW
	}
	if req.CO2PerKWhG != nil {
		cfg.EcoParams.CO2PerKWhG = *req.CO2PerKWhG
	}
	return cfg
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	cfg := capSettings(req.Settings, s.ceiling)
	cfg.Inputs = req.Inputs
	opts := []ecolang.Option{ecolang.WithConfig(cfg)}
	if req.Settings != nil && req.Settings.UseSubprocess {
		opts = append(opts, ecolang.WithSandbox(s.box))
	}
	result := ecolang.Execute(r.Context(), req.Code, opts...)

	resp := runResponse{
		Output:     result.OutputText(),
		Warnings:   result.Warnings,
		Eco:        result.Eco,
		Errors:     result.Err,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}

	// Persisting is best-effort; a failed write downgrades to a warning.
	if result.Err == nil && result.Eco != nil {
		rec := &storage.RunRecord{
			ScriptID:   req.ScriptID,
			TotalOps:   result.Eco.TotalOps,
			EnergyJ:    result.Eco.EnergyJ,
			EnergyKWh:  result.Eco.EnergyKWh,
			CO2Grams:   result.Eco.CO2Grams,
			DurationMS: resp.DurationMS,
			Tips:       result.Eco.Tips,
		}
		if _, err := s.store.SaveRun(r.Context(), rec); err != nil {
			s.logger.Warn().
				Str("request_id", requestIDFromContext(r.Context())).
				Err(err).
				Msg("run not persisted")
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("Failed to persist run: %v", err))
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type saveScriptRequest struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

func (s *Server) handleSaveScript(w http.ResponseWriter, r *http.Request) {
	var req saveScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	id, err := s.store.SaveScript(r.Context(), req.Title, req.Code)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"script_id": id})
}

func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := s.store.ListScripts(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if scripts == nil {
		scripts = []*storage.Script{}
	}
	s.writeJSON(w, http.StatusOK, scripts)
}

func (s *Server) handleGetScript(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "scriptID"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid script id"})
		return
	}
	script, err := s.store.GetScript(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, script)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var scriptID *int64
	if raw := r.URL.Query().Get("script_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid script id"})
			return
		}
		scriptID = &id
	}
	runs, err := s.store.ListRuns(r.Context(), scriptID)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if runs == nil {
		runs = []*storage.RunRecord{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}
