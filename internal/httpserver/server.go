// internal/httpserver/server.go
//
// HTTP server wiring for the cowbull backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Game endpoints: GET /v1/game (new game), POST /v1/game (guess).
//   - Discovery and probes: /v1/modes, /v1/health, /v1/ready.
//   - Prometheus exposition on /metrics when a gatherer is supplied.
//
// Notes:
//   - Errors are always JSON: {"error": "<code>", "message": "..."}.
//   - Every game response carries "served-by" (the host name) so clients can
//     see which instance answered behind a load balancer.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cowbull-server/internal/game"
	"github.com/robalobadob/cowbull-server/internal/session"
)

// Options tunes New. Zero values fall back to defaults.
type Options struct {
	ClientOrigin   string              // CORS origin; default "*"
	RequestTimeout time.Duration       // default 10s
	Gatherer       prometheus.Gatherer // enables /metrics when set
	Hostname       string              // "served-by"; default os.Hostname
}

// Server bundles the router and the session manager.
type Server struct {
	r        *chi.Mux
	games    *session.Manager
	hostname string
}

// New constructs a Server, installs middleware, and registers routes.
func New(games *session.Manager, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "*"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.Hostname == "" {
		opts.Hostname, _ = os.Hostname()
	}
	s := &Server{r: chi.NewRouter(), games: games, hostname: opts.Hostname}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"cowbull","endpoints":["GET /v1/game","POST /v1/game","/v1/modes","/v1/health","/v1/ready"]}`))
	})
	if opts.Gatherer != nil {
		s.r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	s.r.Route("/v1", func(r chi.Router) {
		r.Get("/game", s.handleNewGame)
		r.Post("/game", s.handleGuess)
		r.Get("/modes", s.handleModes)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"health": "ok"})
		})
		r.Get("/ready", s.handleReady)
	})

	// JSON 404/405 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not supported on "+r.URL.Path)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows a single origin and answers preflight requests.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is the body of GET /v1/game.
type newGameRes struct {
	Key       string `json:"key"`
	Mode      string `json:"mode"`
	Digits    int    `json:"digits"`
	DigitType int    `json:"digit-type"`
	Guesses   int    `json:"guesses"`
	ServedBy  string `json:"served-by"`
}

// handleNewGame creates and stores a game in ?mode= (default mode if absent).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sum, err := s.games.Create(r.Context(), r.URL.Query().Get("mode"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{
		Key:       sum.Key,
		Mode:      sum.Mode,
		Digits:    sum.Digits,
		DigitType: sum.DigitType,
		Guesses:   sum.GuessesAllowed,
		ServedBy:  s.hostname,
	})
}

// guessReq is the body of POST /v1/game. Fields stay loosely typed so that
// wrong shapes produce a precise 400 instead of a decode error.
type guessReq struct {
	Key    any `json:"key"`
	Digits any `json:"digits"`
}

type guessRes struct {
	Game     game.Summary  `json:"game"`
	Outcome  *game.Outcome `json:"outcome"`
	ServedBy string        `json:"served-by"`
}

// handleGuess scores digits against a stored game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct != "application/json" {
		writeError(w, http.StatusBadRequest, "bad_request", "Content-Type must be application/json")
		return
	}

	var req guessReq
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	key, ok := req.Key.(string)
	if !ok || key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "the request must contain a valid game key")
		return
	}
	symbols, ok := req.Digits.([]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "the request must contain an array of digits called 'digits'")
		return
	}

	res, err := s.games.Guess(r.Context(), key, symbols)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Game: res.Game, Outcome: res.Outcome, ServedBy: s.hostname})
}

// ------------------------------ MODES --------------------------------------

type modeRes struct {
	Mode            string `json:"mode"`
	Digits          int    `json:"digits"`
	DigitType       int    `json:"digit-type"`
	Guesses         int    `json:"guesses"`
	HelpText        string `json:"help-text,omitempty"`
	InstructionText string `json:"instruction-text,omitempty"`
}

type modesRes struct {
	Modes        []modeRes `json:"modes"`
	DefaultMode  string    `json:"default-mode"`
	Instructions string    `json:"instructions"`
	Notes        string    `json:"notes"`
}

const (
	modesInstructions = "GET /v1/game?mode=<mode> to start a game, then POST /v1/game with " +
		`{"key": "<key>", "digits": [...]} to guess.`
	modesNotes = "Digits may be integers or strings; hex modes accept 0-9, a-f and 0x prefixes."
)

// handleModes lists modes by priority; ?textmode=true returns names only.
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := s.games.Modes()
	if r.URL.Query().Get("textmode") != "" {
		names := make([]string, len(modes))
		for i, m := range modes {
			names[i] = m.Name()
		}
		writeJSON(w, http.StatusOK, names)
		return
	}

	out := modesRes{Modes: make([]modeRes, len(modes)), Instructions: modesInstructions, Notes: modesNotes}
	for i, m := range modes {
		out.Modes[i] = modeRes{
			Mode:            m.Name(),
			Digits:          m.Digits(),
			DigitType:       int(m.Alphabet()),
			Guesses:         m.GuessesAllowed(),
			HelpText:        m.HelpText(),
			InstructionText: m.InstructionText(),
		}
	}
	if len(modes) > 0 {
		out.DefaultMode = modes[0].Name()
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReady reports 200 only while the store answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.games.Ready(ctx); err != nil {
		log.Warn().Err(err).Msg("readiness check failed")
		writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ------------------------------ ERRORS -------------------------------------

// fail maps an error category onto a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	ev := log.Debug()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Msg("request failed")
	writeError(w, status, code, err.Error())
}

// classify maps an error category to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound, "game_not_found"
	case errors.Is(err, game.ErrMalformedSession):
		return http.StatusConflict, "malformed_game"
	case errors.Is(err, game.ErrValidation):
		return http.StatusBadRequest, "invalid_guess"
	case errors.Is(err, game.ErrModeNotFound):
		return http.StatusBadRequest, "invalid_mode"
	case errors.Is(err, game.ErrConfig):
		return http.StatusBadRequest, "config_error"
	case errors.Is(err, game.ErrDependency):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
