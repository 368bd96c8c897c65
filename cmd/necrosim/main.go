package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gravemarch/internal/ai"
	"github.com/udisondev/gravemarch/internal/config"
	"github.com/udisondev/gravemarch/internal/db"
	"github.com/udisondev/gravemarch/internal/game/nav"
	"github.com/udisondev/gravemarch/internal/mapdata"
	"github.com/udisondev/gravemarch/internal/spawn"
	"github.com/udisondev/gravemarch/internal/world"
)

const ConfigPath = "config/necrosim.yaml"

// saveTimeout bounds the final save, which runs after the signal context is gone.
const saveTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("GRAVEMARCH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("necrosim starting", "log_level", cfg.LogLevel, "map", cfg.MapPath, "seed", cfg.Seed)

	md, err := mapdata.Load(cfg.MapPath)
	if err != nil {
		return fmt.Errorf("loading map: %w", err)
	}
	grid, err := md.Grid()
	if err != nil {
		return fmt.Errorf("building grid: %w", err)
	}
	pf := nav.NewPathfinder()
	pf.LoadGrid(grid)
	slog.Info("map loaded",
		"name", md.Name,
		"cells", fmt.Sprintf("%dx%d", md.Width, md.Height),
		"blocked", grid.BlockedCount(),
		"checksum", md.ChecksumHex())

	w := world.NewManager(md.SizeInPixels(), world.WithQuadtreeUpdateRate(cfg.QuadtreeUpdateRate))
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	spawner := spawn.NewManager(w, pf, rng)
	slog.Info("static objects placed", "count", spawner.AddStatics(md))

	var saves *db.SaveRepository
	if cfg.Persist {
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		saves = db.NewSaveRepository(database.Pool())
		slog.Info("database connected", "slot", cfg.SaveSlot)
	}

	restored, err := restore(ctx, saves, spawner, cfg.SaveSlot, md)
	if err != nil {
		return err
	}
	if !restored {
		if err := populate(spawner, md, cfg.Units); err != nil {
			return err
		}
	}

	commander := ai.NewCommander(w, pf, rng, cfg.MoveInterval)
	loop := ai.NewLoop(w, commander, cfg.TickInterval(), cfg.Ticks)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.WatchMap {
		watcher, err := mapdata.NewWatcher(cfg.MapPath, mapdata.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("watching map: %w", err)
		}
		defer watcher.Close() //nolint:errcheck

		reloads := make(chan string, 1)
		loop.OnReload(reloads, func(path string) {
			if next := reloadGrid(path, md, pf); next != nil {
				md = next
			}
		})
		g.Go(func() error {
			slog.Info("watching map", "path", watcher.Path())
			for {
				select {
				case <-gctx.Done():
					return nil
				case path, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					select {
					case reloads <- path:
					default:
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn("map watcher error", "err", err)
				}
			}
		})
	}

	g.Go(func() error {
		defer cancel()
		return loop.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	if saves != nil {
		saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancelSave()
		save := spawner.Snapshot(cfg.SaveSlot, md)
		if err := saves.Save(saveCtx, save); err != nil {
			return fmt.Errorf("saving simulation: %w", err)
		}
		slog.Info("simulation saved", "slot", cfg.SaveSlot, "units", len(save.Objects))
	}

	survey := ai.TakeSurvey(w, md)
	slog.Info("necrosim finished",
		"ticks", loop.Ticks(),
		"orders", commander.Orders(),
		"strikes", commander.Strikes(),
		"undead", len(w.CreaturesOf(world.Undead)),
		"kingdom", len(w.CreaturesOf(world.Kingdom)),
		"plebs", len(w.CreaturesOf(world.Plebs)),
		"undead_walked_px", int(spawner.WalkedPixels()),
		"in_villages", survey.InVillages,
		"in_castles", survey.InCastles,
		"visible_objects", survey.Visible,
		"index_nodes", survey.Nodes,
		"index_depth", survey.Depth)
	return nil
}

// restore loads the save slot into the world. Returns false when there is
// nothing usable to restore.
func restore(ctx context.Context, saves *db.SaveRepository, spawner *spawn.Manager, slot int, md *mapdata.Map) (bool, error) {
	if saves == nil {
		return false, nil
	}
	save, err := saves.Load(ctx, slot, md.Checksum[:])
	switch {
	case errors.Is(err, db.ErrSaveNotFound), errors.Is(err, db.ErrMapMismatch):
		slog.Info("starting fresh", "slot", slot, "reason", err)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("loading save: %w", err)
	}

	n := spawner.Restore(save.Objects)
	slog.Info("simulation restored", "slot", slot, "units", n, "saved_at", save.SavedAt)
	return true, nil
}

func populate(spawner *spawn.Manager, md *mapdata.Map, units map[string]int) error {
	villagers, err := spawner.PopulateAreas(md)
	if err != nil {
		return fmt.Errorf("populating areas: %w", err)
	}
	army, err := spawner.SpawnUnits(units)
	if err != nil {
		return fmt.Errorf("spawning units: %w", err)
	}
	slog.Info("units spawned", "areas", villagers, "configured", army)
	return nil
}

// reloadGrid swaps the pathfinding grid for the one in the changed map file.
// Maps whose size changed are rejected, the world is sized once at startup.
func reloadGrid(path string, current *mapdata.Map, pf *nav.Pathfinder) *mapdata.Map {
	next, err := mapdata.Load(path)
	if err != nil {
		slog.Warn("map reload failed", "path", path, "err", err)
		return nil
	}
	if next.Width != current.Width || next.Height != current.Height {
		slog.Warn("map reload rejected, size changed",
			"path", path,
			"was", fmt.Sprintf("%dx%d", current.Width, current.Height),
			"now", fmt.Sprintf("%dx%d", next.Width, next.Height))
		return nil
	}
	if next.Checksum == current.Checksum {
		return nil
	}
	grid, err := next.Grid()
	if err != nil {
		slog.Warn("map reload failed", "path", path, "err", err)
		return nil
	}
	pf.LoadGrid(grid)
	slog.Info("navigation grid reloaded", "path", path, "checksum", next.ChecksumHex())
	return next
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
