package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/geoscape"
	"github.com/ftageo/basesim/internal/influx"
	"github.com/ftageo/basesim/internal/logging"
	intOtel "github.com/ftageo/basesim/internal/otel"
	"github.com/ftageo/basesim/internal/rules"
	"github.com/ftageo/basesim/internal/savegame"
	"github.com/ftageo/basesim/internal/storage"
)

// app holds the services shared by every command.
type app struct {
	out     io.Writer
	logFile *os.File
	logs    *logging.SlogManager
	logger  *slog.Logger
	// zlog serves the database, influx and dispatcher loggers.
	zlog    zerolog.Logger
	otel    *intOtel.Provider
	mod     *rules.Mod
	backend storage.Backend

	// engine is read by the log context handler from any goroutine.
	engine atomic.Pointer[geoscape.Engine]
}

// newApp sets up logging, metrics, rules and storage from the loaded config.
func newApp(out io.Writer) (*app, error) {
	a := &app{out: out}
	steps := []func() error{
		a.setupLogging,
		a.setupOTel,
		a.loadRules,
		a.openStorage,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) setupLogging() error {
	lc := config.GetLogConfig()
	if err := os.MkdirAll(lc.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := logging.LogFilePath(lc.Dir, appName, config.GetSimConfig().SaveName, time.Now())
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f

	opts := []logging.SetupOption{logging.WithGameClock(a.gameClock)}
	if lc.Graylog.Enabled {
		opts = append(opts, logging.WithGraylog(lc.Graylog.Address))
	}
	a.logs = logging.NewSlogManager()
	if err := a.logs.Setup(f, lc.Level, opts...); err != nil {
		return err
	}
	a.logger = a.logs.Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	a.zlog = zerolog.New(f).Level(lvl).With().Timestamp().Logger()

	a.logger.Info("Logging to file", "path", path)
	return nil
}

// gameClock stamps log records with the game time once an engine runs.
func (a *app) gameClock() (time.Time, bool) {
	if e := a.engine.Load(); e != nil {
		return e.Now(), true
	}
	return time.Time{}, false
}

func (a *app) setupOTel() error {
	oc := config.GetOTelConfig()
	p, err := intOtel.New(intOtel.Config{
		Enabled:        oc.Enabled,
		ServiceName:    oc.ServiceName,
		ExportInterval: oc.ExportInterval,
		MetricWriter:   a.logFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OTel provider: %w", err)
	}
	p.SetGlobal()
	a.otel = p
	if p.Enabled() {
		a.logger.Info("OTel provider initialized", "service", oc.ServiceName)
	}
	return nil
}

func (a *app) loadRules() error {
	dir := config.GetString("rulesDir")
	mod, err := rules.Load(dir)
	if err != nil {
		return err
	}
	if err := mod.Validate(); err != nil {
		return fmt.Errorf("invalid ruleset in %s: %w", dir, err)
	}
	a.mod = mod
	a.logger.Info("Loaded rules",
		"dir", dir,
		"facilities", len(mod.FacilityTypes()),
		"manufacture", len(mod.ManufactureNames()),
		"research", len(mod.ResearchNames()),
	)
	return nil
}

func (a *app) openStorage() error {
	sc := config.GetStorageConfig()
	backend, err := storage.NewBackend(sc, storage.Dependencies{
		Mod:      a.mod,
		Logger:   a.logger,
		DBLogger: a.zlog,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	a.backend = backend
	a.logger.Info("Storage backend initialized", "type", sc.Type)
	return nil
}

// openInflux connects the telemetry writer. Returns nil when disabled or
// when neither the server nor the backup file is usable.
func (a *app) openInflux(ctx context.Context) *influx.Manager {
	ic := config.GetInfluxConfig()
	if !ic.Enabled {
		return nil
	}
	m := influx.NewManager(a.zlog, ic)
	if err := m.Connect(ctx); err != nil {
		a.logger.Warn("InfluxDB unavailable, hourly telemetry disabled", "error", err)
		return nil
	}
	return m
}

// loadOrCreate loads the named save, or opens a new campaign when none
// exists or fresh is set.
func (a *app) loadOrCreate(sim config.SimConfig, rng savegame.RNG, fresh bool) (*savegame.SavedGame, bool, error) {
	if !fresh {
		g, err := a.backend.LoadGame(sim.SaveName)
		if err == nil {
			a.logger.Info("Loaded save", "save", g.Name, "game_time", g.Time.Time())
			return g, false, nil
		}
		if !errors.Is(err, savegame.ErrSaveNotFound) {
			return nil, false, err
		}
	}

	g, err := savegame.NewCampaign(sim.SaveName, sim.StartDate, sim.StartFunds, a.mod, rng)
	if err != nil {
		return nil, false, fmt.Errorf("failed to start campaign %s: %w", sim.SaveName, err)
	}
	a.logger.Info("Started new campaign", "save", g.Name, "funds", g.Funds)
	return g, true, nil
}

// Close releases everything newApp opened, in reverse order.
func (a *app) Close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("Failed to close storage backend", "error", err)
		}
	}
	if a.otel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otel.Shutdown(ctx); err != nil {
			a.logger.Error("Failed to shut down OTel provider", "error", err)
		}
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
