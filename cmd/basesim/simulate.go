package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ftageo/basesim/internal/cache"
	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/dispatcher"
	"github.com/ftageo/basesim/internal/geoscape"
	"github.com/ftageo/basesim/internal/logging"
	"github.com/ftageo/basesim/internal/monitor"
	"github.com/ftageo/basesim/internal/parser"
	"github.com/ftageo/basesim/internal/savegame"
	"github.com/ftageo/basesim/internal/storage"
	"github.com/ftageo/basesim/internal/worker"
)

type simulateOptions struct {
	hours    int
	interval time.Duration
	fresh    bool
	quiet    bool
	status   string
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Advance the campaign through game time",
		Long: `Loads the save (or starts a new campaign from the ruleset's starting base),
advances the geoscape clock and persists the save and every emitted event.

With --interval the clock advances one game hour per interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.hours, "hours", "H", 24, "Game hours to advance")
	cmd.Flags().DurationVarP(&opts.interval, "interval", "i", 0, "Run in real time, one game hour per interval")
	cmd.Flags().BoolVar(&opts.fresh, "new", false, "Start a new campaign even if the save exists")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Minimal output")
	cmd.Flags().StringVar(&opts.status, "status", "", "Write a JSON status snapshot to this file every second")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	if opts.hours <= 0 && opts.interval <= 0 {
		return fmt.Errorf("--hours must be positive, got %d", opts.hours)
	}

	a, err := newApp(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := config.GetSimConfig()
	rng := savegame.NewRNG(sim.Seed)
	g, created, err := a.loadOrCreate(sim, rng, opts.fresh)
	if err != nil {
		return err
	}
	if !created {
		rng = savegame.ResumeRNG(sim.Seed, g)
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(a.zlog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	defer d.Close()
	wm := worker.NewManager(worker.Dependencies{
		Logger:        a.logger,
		ParserService: parser.NewParser(a.logger),
		Counters:      cache.NewCounters(),
		SaveName:      g.Name,
	}, a.backend)
	wm.RegisterHandlers(d)

	engineOpts := []geoscape.Option{
		geoscape.WithDispatcher(d),
		geoscape.WithLogger(a.logger),
		geoscape.WithTick(sim.Tick()),
	}
	if im := a.openInflux(ctx); im != nil {
		defer func() {
			if err := im.Close(); err != nil {
				a.logger.Error("Failed to close InfluxDB", "error", err)
			}
		}()
		engineOpts = append(engineOpts, geoscape.WithHourHook(im.RecordHour))
	}

	e, err := geoscape.New(g, a.mod, rng, engineOpts...)
	if err != nil {
		return err
	}
	a.engine.Store(e)

	if opts.status != "" {
		status := monitor.NewService(monitor.Dependencies{
			Logger:        a.logger,
			WorkerManager: wm,
			Clock:         e.Now,
			StatusPath:    opts.status,
		})
		if err := status.Start(); err != nil {
			return fmt.Errorf("failed to start status monitor: %w", err)
		}
		defer status.Stop()
	}

	started := e.Now()
	wall := time.Now()
	if opts.interval > 0 {
		a.logger.Info("Running in real time", "interval", opts.interval)
		err = e.Run(ctx, opts.interval, time.Hour)
	} else {
		_, err = e.Advance(ctx, time.Duration(opts.hours)*time.Hour)
	}
	// an interrupted run still saves what it simulated
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// drain queued events before the save is written
	d.Close()
	if err := a.backend.SaveGame(g); err != nil {
		return fmt.Errorf("failed to save %s: %w", g.Name, err)
	}
	a.logger.Info("Saved game",
		"save", g.Name,
		"advanced", e.Now().Sub(started),
		"db_write", wm.GetLastDBWriteDuration(),
	)

	var exportPath string
	if exp, ok := a.backend.(storage.Exportable); ok {
		if exportPath, err = exp.Export(g.Name); err != nil {
			return fmt.Errorf("failed to export %s: %w", g.Name, err)
		}
	}

	if !opts.quiet {
		printSummary(a.out, summary{
			game:       g,
			created:    created,
			advanced:   e.Now().Sub(started),
			elapsed:    time.Since(wall),
			counts:     wm.Counts(),
			exportPath: exportPath,
		})
	}
	return nil
}

type summary struct {
	game       *savegame.SavedGame
	created    bool
	advanced   time.Duration
	elapsed    time.Duration
	counts     map[string]int
	exportPath string
}

func printSummary(w io.Writer, s summary) {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	g := s.game
	titleColor.Fprintf(w, "\n%s\n", g.Name)
	if s.created {
		infoColor.Fprintln(w, "New campaign started")
	}
	fmt.Fprintf(w, "Game time: %s (+%s, %s wall)\n",
		g.Time.Time().Format("2006-01-02 15:04"), s.advanced, s.elapsed.Round(time.Millisecond))
	fundsColor(g.Funds).Fprintf(w, "Funds: %d\n", g.Funds)
	fmt.Fprintf(w, "Score: %d\n", g.Score)
	if s.exportPath != "" {
		fmt.Fprintf(w, "Exported to %s\n", s.exportPath)
	}

	if len(s.counts) == 0 {
		infoColor.Fprintln(w, "No events")
		return
	}
	kinds := make([]string, 0, len(s.counts))
	for k := range s.counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintln(w)
	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Event", "Count"}))
	for _, k := range kinds {
		_ = table.Append([]string{k, fmt.Sprint(s.counts[k])})
	}
	_ = table.Render()
}

func fundsColor(funds int64) *color.Color {
	if funds < 0 {
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.FgGreen, color.Bold)
}
