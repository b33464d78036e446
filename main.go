package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/battletanks/game"
	"github.com/mark3labs/battletanks/game/shared"
)

const tickRate = 60

func main() {
	var (
		difficulty = flag.String("difficulty", "medium", "difficulty preset: easy, medium, hard")
		configDir  = flag.String("config", ".", "directory containing battletanks.json overrides")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "world generation seed")
		natsPort   = flag.Int("nats-port", 4222, "port for the embedded NATS server")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ns, err := server.NewServer(&server.Options{
		Port:      *natsPort,
		JetStream: true,
		StoreDir:  filepath.Join(os.TempDir(), "battletanks-nats"),
	})
	if err != nil {
		log.Fatal("Failed to create NATS server", "err", err)
	}
	go ns.Start()
	defer ns.Shutdown()
	if !ns.ReadyForConnections(5 * time.Second) {
		log.Fatal("NATS server did not become ready")
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.InProcessServer(ns))
	if err != nil {
		log.Fatal("Failed to connect to NATS", "err", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatal("Failed to create JetStream context", "err", err)
	}
	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  "gamestate",
		History: 1,
	})
	if err != nil {
		log.Fatal("Failed to create KV bucket", "err", err)
	}

	cfg, err := game.LoadConfig(*configDir, *difficulty)
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}

	manager, err := game.NewManager(ctx, kv, cfg, *seed)
	if err != nil {
		log.Fatal("Failed to create game manager", "err", err)
	}
	player := manager.AddPlayer("player1")
	log.Info("Simulation started",
		"difficulty", *difficulty,
		"seed", *seed,
		"callsign", player.Callsign,
		"nats", ns.ClientURL())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-sig:
			log.Info("Shutting down")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			manager.SetInput("player1", shared.InputIntent{})
			if err := manager.Tick(dt); err != nil {
				log.Error("Tick failed", "err", err)
			}

			for _, ev := range manager.DrainEvents() {
				log.Debug("Event", "type", ev.Type, "entity", ev.EntityID, "source", ev.SourceID)
			}

			if manager.GameOver() {
				score, _, level := manager.Score()
				log.Info("Game over", "score", score, "level", level)
				return
			}
		}
	}
}
