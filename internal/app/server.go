package app

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"kingdoms/handlers"
	"kingdoms/internal/bus"
	"kingdoms/internal/database"
	"kingdoms/internal/database/repositories"
	"kingdoms/internal/game"
	"kingdoms/internal/network"
	"kingdoms/models"
	"kingdoms/pkg/config"
)

// Server bundles the HTTP API, the websocket hub and the game loop behind a
// single lifecycle.
type Server struct {
	cfg        *config.Config
	log        *logrus.Logger
	db         *database.DB
	registry   *models.Registry
	lobbies    *models.LobbyTable
	hub        *network.Hub
	loop       *game.Loop
	httpServer *http.Server
}

// NewServer opens the name store and wires every component from configuration.
func NewServer(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Server, error) {
	db, err := database.Open(ctx, cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	repo := repositories.NewPlayerRepository(db.DB, log)
	registry := models.NewRegistry()
	gen := game.NewGenerator(cfg.Game.Board, rand.New(rand.NewSource(time.Now().UnixNano())))
	lobbies := models.NewLobbyTable(cfg.Game.LobbyCapacities, gen.Board, log)
	global := bus.New("global", models.GlobalBusBuffer, log)
	chat := models.NewChatLog()

	hub := network.NewHub(cfg.Game, registry, lobbies, global, chat, log)
	loop := game.NewLoop(cfg.Game, registry, lobbies, global, gen, log)

	players := handlers.NewPlayerHandler(cfg.Game, repo, hub, log)
	sockets := handlers.NewWebSocketHandler(cfg.CORS.AllowedOrigins, repo, hub, log)

	s := &Server{
		cfg:      cfg,
		log:      log,
		db:       db,
		registry: registry,
		lobbies:  lobbies,
		hub:      hub,
		loop:     loop,
	}

	router := mux.NewRouter()
	router.HandleFunc("/players/new", players.NewPlayer).Methods(http.MethodGet)
	router.HandleFunc("/players/name/random", players.RandomName).Methods(http.MethodGet)
	router.HandleFunc("/players/name/is_valid", players.IsValidName).Methods(http.MethodPost)
	router.HandleFunc("/players/{player_uuid}", players.UpdateName).Methods(http.MethodPut)
	router.HandleFunc("/ws/{player_uuid}", sockets.Handle).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.CORS.AllowedOrigins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Accept", "trace"}),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      cors(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed HTTP handler, CORS middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves HTTP and drives the game loop until ctx is cancelled. The name
// store is closed on the way out.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.loop.Run(ctx)
	})
	g.Go(func() error {
		s.log.WithField("addr", s.httpServer.Addr).Info("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := s.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
