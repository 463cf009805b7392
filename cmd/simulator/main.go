package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"kingdoms/internal/ai"
	"kingdoms/pkg/logger"
)

var (
	serverURL  = flag.String("server", "http://localhost:8080", "base URL of the game server")
	numBots    = flag.Int("bots", 2, "number of bots to run")
	lobbyID    = flag.Int("lobby", 0, "lobby the bots pile into")
	strategies = flag.String("strategies", "wander,raider,charge", "comma-separated strategy rotation")
	thinkTime  = flag.Duration("think-time", 400*time.Millisecond, "pause between queued moves")
	duration   = flag.Duration("duration", 2*time.Minute, "how long the simulation runs")
	logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	log := logger.New(*logLevel, "text")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	rotation := parseStrategies(*strategies)
	log.WithFields(logrus.Fields{
		"server":     *serverURL,
		"bots":       *numBots,
		"lobby":      *lobbyID,
		"strategies": rotation,
	}).Info("starting simulation")

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < *numBots; i++ {
		bot := ai.NewBot(ai.Config{
			ServerURL: *serverURL,
			Lobby:     *lobbyID,
			Strategy:  rotation[i%len(rotation)],
			ThinkTime: *thinkTime,
			Seed:      time.Now().UnixNano() + int64(i),
		}, log)
		g.Go(func() error {
			return bot.Run(ctx)
		})
		// stagger the dials so join order is stable
		time.Sleep(100 * time.Millisecond)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Error("simulation failed")
		return
	}
	log.Info("simulation finished")
}

func parseStrategies(list string) []string {
	names := []string{}
	for _, s := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return []string{"wander"}
	}
	return names
}
