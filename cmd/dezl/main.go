// Command dezl runs a dezl world server: it starts or resumes a
// world, listens on the configured transports, and ticks the world
// forward at a fixed step rate until interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmdejong/dezl/config"
	"github.com/jmdejong/dezl/console"
	"github.com/jmdejong/dezl/gameserver"
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/persistence"
	"github.com/jmdejong/dezl/transport"
	"github.com/jmdejong/dezl/world"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	conf, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	if conf.WorldAction == config.ActionBench {
		benchView(log, conf.BenchIters)
		return
	}

	storage, err := resolveStorage(conf)
	if err != nil {
		log.Error("cannot resolve save directory", "error", err)
		os.Exit(1)
	}

	w, err := loadOrCreateWorld(storage, conf, log)
	if err != nil {
		log.Error("cannot start world", "error", err)
		os.Exit(1)
	}

	servers := make([]transport.Server, 0, len(conf.Addresses))
	for _, addr := range conf.Addresses {
		s, err := addr.Listen(log)
		if err != nil {
			log.Error("cannot listen", "address", addr.String(), "error", err)
			os.Exit(1)
		}
		log.Info("listening", "address", addr.String())
		servers = append(servers, s)
	}

	gs := gameserver.New(servers, log)
	app := &application{world: w, storage: storage, gameServer: gs, log: log}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go console.New(app, log).Run(ctx)

	log.Info("dezl started", "world", conf.WorldName, "admins", conf.Admins)
	app.run(ctx, conf.StepDuration)
	app.saveAll()
	closeServers(servers, log)
	log.Info("shut down")
}

// closeServers shuts every listening transport down concurrently, so
// one slow or stuck listener can't hold up the others on exit.
func closeServers(servers []transport.Server, log *slog.Logger) {
	var g errgroup.Group
	for _, s := range servers {
		s := s
		g.Go(func() error {
			return s.Close()
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("error closing a transport", "error", err)
	}
}

// resolveStorage honours an explicit --data-dir override, falling back
// to the XDG-based default save directory when none was given.
func resolveStorage(conf config.Config) (*persistence.FileStorage, error) {
	if conf.DataDir != "" {
		return persistence.NewFileStorageAt(filepath.Join(conf.DataDir, conf.WorldName)), nil
	}
	return persistence.NewFileStorage(conf.WorldName)
}

func loadOrCreateWorld(storage *persistence.FileStorage, conf config.Config, log *slog.Logger) (*world.World, error) {
	switch conf.WorldAction {
	case config.ActionNew:
		_, err := storage.LoadWorld()
		var loaderErr *persistence.LoaderError
		if err == nil {
			return nil, fmt.Errorf("world %q already exists", conf.WorldName)
		}
		if !errors.As(err, &loaderErr) || !loaderErr.Missing {
			return nil, fmt.Errorf("checking for existing world: %w", err)
		}
		return world.New(conf.WorldName, conf.Seed), nil
	case config.ActionLoad:
		save, err := storage.LoadWorld()
		if err != nil {
			return nil, fmt.Errorf("loading world: %w", err)
		}
		return world.Load(save), nil
	default:
		return nil, fmt.Errorf("unsupported world action")
	}
}

// application wires the world, storage, and network layer together
// for the run loop, and implements console.Server for the admin
// console.
type application struct {
	world      *world.World
	storage    *persistence.FileStorage
	gameServer *gameserver.GameServer
	log        *slog.Logger
	done       chan struct{}
}

func (a *application) run(ctx context.Context, stepDuration time.Duration) {
	if stepDuration <= 0 {
		stepDuration = 100 * time.Millisecond
	}
	ticker := time.NewTicker(stepDuration)
	defer ticker.Stop()
	a.done = make(chan struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case start := <-ticker.C:
			a.step()
			if elapsed := time.Since(start); elapsed > 5*time.Millisecond {
				a.log.Debug("slow step", "elapsed", elapsed)
			}
		}
	}
}

func (a *application) step() {
	for _, action := range a.gameServer.Update() {
		switch action.Kind {
		case gameserver.ActionInput:
			if err := a.world.ControlPlayer(action.Player, action.Control); err != nil {
				a.log.Warn("error controlling player", "player", action.Player, "error", err)
			}
		case gameserver.ActionJoin:
			a.handleJoin(action.Player)
		case gameserver.ActionLeave:
			a.handleLeave(action.Player)
		}
	}

	a.world.Update()

	for player, message := range a.world.View() {
		if message.IsEmpty() {
			continue
		}
		data, err := json.Marshal(message)
		if err != nil {
			a.log.Warn("failed to encode message", "player", player, "error", err)
			continue
		}
		if err := a.gameServer.Send(player, json.RawMessage(data)); err != nil {
			a.log.Warn("failed to send to player", "player", player, "error", err)
		}
	}

	if a.world.Time%100 == 1 {
		a.saveAll()
	}
}

func (a *application) handleJoin(player world.PlayerID) {
	save, err := a.storage.LoadPlayer(player)
	if err != nil {
		var loaderErr *persistence.LoaderError
		if errors.As(err, &loaderErr) && loaderErr.Missing {
			save = a.world.DefaultPlayerSave()
		} else {
			a.log.Warn("failed to load player save", "player", player, "error", err)
			_ = a.gameServer.SendPlayerError(player, "loaderror", "could not load saved player data")
			return
		}
	}
	if err := a.world.AddPlayer(player, save); err != nil {
		a.log.Warn("failed to add player", "player", player, "error", err)
		_ = a.gameServer.SendPlayerError(player, "worlderror", "invalid room or savefile")
	}
}

func (a *application) handleLeave(player world.PlayerID) {
	if a.world.HasPlayer(player) {
		if save, err := a.world.SavePlayer(player); err == nil {
			if err := a.storage.SavePlayer(player, save); err != nil {
				a.log.Warn("failed to save player", "player", player, "error", err)
			}
		}
		if err := a.world.RemovePlayer(player); err != nil {
			a.log.Warn("failed to remove player", "player", player, "error", err)
		}
	}
}

func (a *application) saveAll() {
	if err := a.storage.SaveWorld(a.world.Save()); err != nil {
		a.log.Error("failed to save world", "error", err)
		return
	}
	for _, player := range a.world.ListPlayers() {
		save, err := a.world.SavePlayer(player)
		if err != nil {
			continue
		}
		if err := a.storage.SavePlayer(player, save); err != nil {
			a.log.Warn("failed to save player", "player", player, "error", err)
		}
	}
	a.log.Info("saved world", "world", a.world.Name, "step", a.world.Time)
}

// console.Server implementation.

func (a *application) Players() []world.PlayerID { return a.gameServer.Players() }
func (a *application) Broadcast(text string)      { a.gameServer.BroadcastMessage(text) }
func (a *application) Kick(player world.PlayerID, reason string) error {
	return a.gameServer.Kick(player, reason)
}
func (a *application) Save() error {
	a.saveAll()
	return nil
}
func (a *application) Shutdown() {
	if a.done != nil {
		close(a.done)
	}
}

func benchView(log *slog.Logger, iterations int) {
	w := world.New("bench", 9876)
	id := world.PlayerID("Player")
	start := time.Now()
	for i := 0; i < iterations; i++ {
		save := world.NewPlayerSave(geom.NewVec2(float32(i)*121-22, float32(i)*8-63))
		_ = w.AddPlayer(id, save)
		w.Update()
		w.View()
		_ = w.RemovePlayer(id)
		w.Update()
	}
	log.Info("bench complete", "iterations", iterations, "elapsed", time.Since(start))
}
