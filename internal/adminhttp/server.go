// Package adminhttp exposes the control-plane surface operators use to
// inspect and manage live connections: health, stats, player listing,
// and kick. Grounded on the teacher's chi-based long-polling handler
// (internal/handler/lp): plain net/http handlers registered on a chi
// router, JSON written by hand rather than through a generated marshaller.
package adminhttp

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/duskforge/voxelcore/internal/adminws"
	"github.com/duskforge/voxelcore/internal/domain/model"
	"github.com/duskforge/voxelcore/internal/domain/registry"
	"github.com/duskforge/voxelcore/internal/metrics"
)

// Server hosts the admin HTTP API over the participant registry.
type Server struct {
	registry *registry.Registry
	feed     *adminws.Feed
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// NewServer constructs the admin HTTP server.
func NewServer(reg *registry.Registry, feed *adminws.Feed, recorder *metrics.Recorder, logger *slog.Logger) *Server {
	return &Server{registry: reg, feed: feed, metrics: recorder, logger: logger}
}

// Router builds the chi router: GET /healthz, GET /stats, GET /players,
// POST /players/{uuid}/kick, GET /feed (live lifecycle events).
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)
	r.Get("/players", s.handlePlayers)
	r.Post("/players/{uuid}/kick", s.handleKick)
	r.Get("/feed", s.feed.ServeHTTP)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statsResponse struct {
	OnlinePlayers int `json:"online_players"`
	ConfigPlayers int `json:"config_players"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		OnlinePlayers: s.registry.OnlinePlayerCount(),
		ConfigPlayers: len(s.registry.ConfigPlayers()),
	})
}

type playerResponse struct {
	UUID     uuid.UUID `json:"uuid"`
	Username string    `json:"username"`
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players := s.registry.OnlinePlayers()
	out := make([]playerResponse, 0, len(players))
	for _, p := range players {
		profile := p.Profile()
		out = append(out, playerResponse{UUID: profile.UUID, Username: profile.Username})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		http.Error(w, "invalid uuid", http.StatusBadRequest)
		return
	}

	p, ok := s.registry.FindByUUID(id)
	if !ok {
		http.Error(w, "player not online", http.StatusNotFound)
		return
	}

	s.metrics.RecordKick(r.Context(), string(model.KickAdmin))
	s.feed.ParticipantKicked(p, model.KickAdmin)
	p.Connection().Kick(model.KickAdmin)
	s.logger.Info("admin kick", "uuid", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
