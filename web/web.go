package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/game"
	"github.com/bcspragu/codenames-table/hub"
	"github.com/bcspragu/codenames-table/legend"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var static embed.FS

var indexTmpl = template.Must(template.ParseFS(static, "static/index.html"))

const spymasterCookie = "Spymaster"

// Config holds presentation options for the board.
type Config struct {
	// ButtonHeight and ButtonWidth size the word buttons, roughly in lines
	// and characters.
	ButtonHeight int
	ButtonWidth  int
	// SpymasterKey unlocks the legend via /spymaster?key=...
	SpymasterKey string
	// Now is used to timestamp game records, defaults to time.Now.
	Now func() time.Time
}

// Srv serves a single game of Codenames to the browsers around the table.
type Srv struct {
	sc  *securecookie.SecureCookie
	h   *hub.Hub
	mux *mux.Router
	db  codenames.DB
	cfg *Config

	upgrader websocket.Upgrader

	// mu guards everything below it. Moves are applied one at a time.
	mu        sync.Mutex
	g         *game.Game
	startedAt time.Time
	recorded  bool
}

// New returns an initialized server.
func New(g *game.Game, db codenames.DB, h *hub.Hub, sc *securecookie.SecureCookie, cfg *Config) *Srv {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Srv{
		sc:        sc,
		h:         h,
		db:        db,
		cfg:       cfg,
		g:         g,
		startedAt: cfg.Now(),
	}

	s.mux = s.initMux()

	return s
}

func (s *Srv) initMux() *mux.Router {
	m := mux.NewRouter()
	// The board itself.
	m.HandleFunc("/", s.handle(s.serveIndex)).Methods("GET")
	// Unlock the legend for this browser.
	m.HandleFunc("/spymaster", s.handle(s.serveSpymaster)).Methods("GET")

	// Current state of the game, with unrevealed agents hidden.
	m.HandleFunc("/api/state", s.handle(s.serveState)).Methods("GET")
	// Swap out a word before the game starts.
	m.HandleFunc("/api/substitute", s.handle(s.serveSubstitute)).Methods("POST")
	// Done swapping words.
	m.HandleFunc("/api/start", s.handle(s.serveStart)).Methods("POST")
	// Reveal a card.
	m.HandleFunc("/api/reveal", s.handle(s.serveReveal)).Methods("POST")
	// Past games.
	m.HandleFunc("/api/history", s.handle(s.serveHistory)).Methods("GET")

	// Spymaster only.
	m.HandleFunc("/api/legend", s.handle(s.requireSpymaster(s.serveLegend))).Methods("GET")
	m.HandleFunc("/api/legend.png", s.handle(s.requireSpymaster(s.serveLegendPNG))).Methods("GET")

	// WebSocket handler for state updates.
	m.HandleFunc("/api/ws", s.handle(s.serveData)).Methods("GET")

	return m
}

func (s *Srv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string {
	return e.msg
}

func httpErr(code int, msg string) error {
	return &httpError{code: code, msg: msg}
}

func (s *Srv) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		code := statusFor(err)
		if code >= 500 {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		}
		http.Error(w, err.Error(), code)
	}
}

// statusFor maps an error to the HTTP status the board should see.
func statusFor(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.code
	case errors.Is(err, codenames.ErrUnknownWord),
		errors.Is(err, codenames.ErrWordNotFound),
		errors.Is(err, codenames.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, codenames.ErrSubstitutionExhausted):
		return http.StatusGone
	case game.IsRejection(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Srv) serveIndex(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return indexTmpl.Execute(w, struct {
		ButtonHeight int
		ButtonWidth  int
	}{s.cfg.ButtonHeight, s.cfg.ButtonWidth})
}

func (s *Srv) serveSpymaster(w http.ResponseWriter, r *http.Request) error {
	key := r.URL.Query().Get("key")
	if s.cfg.SpymasterKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.SpymasterKey)) != 1 {
		return httpErr(http.StatusForbidden, "bad spymaster key")
	}

	encoded, err := s.sc.Encode(spymasterCookie, true)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     spymasterCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/api/legend.png", http.StatusFound)
	return nil
}

func (s *Srv) requireSpymaster(h handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		c, err := r.Cookie(spymasterCookie)
		if err == http.ErrNoCookie {
			return httpErr(http.StatusForbidden, "spymasters only")
		}
		if err != nil {
			return err
		}

		var ok bool
		if err := s.sc.Decode(spymasterCookie, c.Value, &ok); err != nil || !ok {
			return httpErr(http.StatusForbidden, "spymasters only")
		}
		return h(w, r)
	}
}

func (s *Srv) serveState(w http.ResponseWriter, r *http.Request) error {
	s.mu.Lock()
	gs := s.g.State()
	s.mu.Unlock()

	return jsonResp(w, toJSState(gs))
}

func (s *Srv) serveSubstitute(w http.ResponseWriter, r *http.Request) error {
	word, err := wordFromBody(r)
	if err != nil {
		return err
	}
	return s.move(w, &game.Move{Action: game.ActionSubstitute, Word: word})
}

func (s *Srv) serveStart(w http.ResponseWriter, r *http.Request) error {
	return s.move(w, &game.Move{Action: game.ActionStart})
}

func (s *Srv) serveReveal(w http.ResponseWriter, r *http.Request) error {
	word, err := wordFromBody(r)
	if err != nil {
		return err
	}
	return s.move(w, &game.Move{Action: game.ActionReveal, Word: word})
}

// move applies mv to the game, records the game if it just finished and
// tells every connected board about the new state. The broadcast happens
// under s.mu so boards see states in the order the moves were applied.
func (s *Srv) move(w http.ResponseWriter, mv *game.Move) error {
	s.mu.Lock()
	out, err := s.g.Move(mv)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	gs := s.g.State()
	s.maybeRecord(gs)
	if err := s.h.Broadcast(&StateUpdate{toJSState(gs)}); err != nil {
		log.Error().Err(err).Msg("failed to broadcast state")
	}
	s.mu.Unlock()

	return jsonResp(w, toJSOutcome(out))
}

// maybeRecord saves the game to the history the first time it's seen
// finished. A failure to record doesn't affect the game. Callers hold s.mu.
func (s *Srv) maybeRecord(gs *codenames.GameState) {
	if gs.Phase != codenames.PhaseFinished || s.recorded || s.db == nil {
		return
	}
	s.recorded = true

	reveals, subs := s.g.Stats()
	id, err := s.db.RecordGame(&codenames.GameRecord{
		Size:          gs.Board.Size,
		FirstMover:    gs.FirstMover,
		Result:        gs.Result,
		Winner:        gs.Winner,
		Reveals:       reveals,
		Substitutions: subs,
		StartedAt:     s.startedAt,
		FinishedAt:    s.cfg.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record game")
		return
	}
	log.Info().Str("game", string(id)).Str("result", string(gs.Result)).Msg("recorded game")
}

func (s *Srv) serveHistory(w http.ResponseWriter, r *http.Request) error {
	if s.db == nil {
		return jsonResp(w, []*codenames.GameRecord{})
	}
	games, err := s.db.Games()
	if err != nil {
		return err
	}
	if games == nil {
		games = []*codenames.GameRecord{}
	}
	return jsonResp(w, games)
}

func (s *Srv) serveLegend(w http.ResponseWriter, r *http.Request) error {
	return jsonResp(w, toJSLegend(s.legend()))
}

func (s *Srv) serveLegendPNG(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "image/png")
	return legend.WritePNG(w, s.legend())
}

func (s *Srv) legend() *codenames.Legend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Legend()
}

func (s *Srv) serveData(w http.ResponseWriter, r *http.Request) error {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		log.Warn().Err(err).Msg("failed to upgrade websocket")
		return nil
	}

	s.mu.Lock()
	gs := s.g.State()
	s.mu.Unlock()

	if err := s.h.Register(ws, &StateUpdate{toJSState(gs)}); err != nil {
		log.Error().Err(err).Msg("failed to register websocket")
	}
	return nil
}

func wordFromBody(r *http.Request) (string, error) {
	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", httpErr(http.StatusBadRequest, "malformed request: "+err.Error())
	}

	word := strings.TrimSpace(req.Word)
	if word == "" {
		return "", httpErr(http.StatusBadRequest, "no word given")
	}
	return word, nil
}

func jsonResp(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
