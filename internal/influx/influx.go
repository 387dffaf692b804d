// Package influx writes hourly base telemetry to InfluxDB, falling back to a
// gzip line-protocol file when the server is unreachable.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/savegame"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

// Measurement names.
const (
	MeasurementFunds      = "funds"
	MeasurementResearch   = "research"
	MeasurementProduction = "production"
	MeasurementPersonnel  = "personnel"
)

// RetentionSeconds is the retention of created buckets, 90 days.
const RetentionSeconds = 60 * 60 * 24 * 90

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string

	cfg        config.InfluxConfig
	backupFile *os.File
	mu         sync.Mutex
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, cfg config.InfluxConfig) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		IsValid:     false,
		BucketNames: []string{cfg.Bucket},
		Logger:      log,
		BackupPath:  cfg.BackupPath,
		cfg:         cfg,
	}
}

// Connect establishes a connection to InfluxDB. An unreachable server
// switches the manager to the backup file.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.cfg.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(ctx)
	m.IsValid = err == nil && running

	if !m.IsValid {
		m.Logger.Info().Str("backupPath", m.BackupPath).
			Msg("Failed to initialize InfluxDB client, writing to backup file")
		if err := m.OpenBackup(); err != nil {
			return err
		}
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
		return nil
	}

	if err := m.setupOrganizationAndBuckets(ctx); err != nil {
		return err
	}
	m.CreateWriters()
	m.Logger.Info().Str("url", m.cfg.URL()).Msg("InfluxDB client initialized")
	return nil
}

// OpenBackup opens the gzip line-protocol file that receives points while
// the server is unreachable.
func (m *Manager) OpenBackup() error {
	if m.BackupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBuckets(ctx context.Context) error {
	orgName := m.cfg.Org

	// ensure org exists
	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		influxOrg, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	// ensure buckets exist with 90 day retention
	for _, bucket := range m.BucketNames {
		if _, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: RetentionSeconds,
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
			return err
		}
	}

	return nil
}

// CreateWriters creates write APIs for all configured buckets.
func (m *Manager) CreateWriters() {
	for _, bucket := range m.BucketNames {
		m.Logger.Trace().Str("bucket", bucket).Msg("Creating InfluxDB writer")
		m.Writers[bucket] = m.Client.WriteAPI(m.cfg.Org, bucket)

		errorsCh := m.Writers[bucket].Errors()
		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, errorsCh)
	}

	m.Logger.Debug().Msg("InfluxDB writers initialized")
}

// WritePoint writes a point to InfluxDB or backup file.
func (m *Manager) WritePoint(bucket string, point *influxdb2_write.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsValid {
		w, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if !strings.HasSuffix(lineProtocol, "\n") {
		lineProtocol += "\n"
	}
	if _, err := m.BackupWriter.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// RecordHour writes the telemetry of every base at the current game hour.
// It has the signature of a geoscape hour hook.
func (m *Manager) RecordHour(_ context.Context, g *savegame.SavedGame) {
	for _, p := range GamePoints(g) {
		if err := m.WritePoint(m.cfg.Bucket, p); err != nil {
			m.Logger.Error().Err(err).Str("save", g.Name).Msg("Failed to write point")
			return
		}
	}
}

// Close flushes pending writes and releases the client and backup file.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	var err error
	if m.BackupWriter != nil {
		err = m.BackupWriter.Close()
		m.BackupWriter = nil
	}
	if m.backupFile != nil {
		if cerr := m.backupFile.Close(); err == nil {
			err = cerr
		}
		m.backupFile = nil
	}
	return err
}

// GamePoints builds the hourly points for a save, stamped with the game time.
func GamePoints(g *savegame.SavedGame) []*influxdb2_write.Point {
	ts := g.Time.Time()
	points := []*influxdb2_write.Point{
		influxdb2_write.NewPoint(MeasurementFunds,
			map[string]string{"save": g.Name},
			map[string]any{"funds": g.Funds, "score": g.Score},
			ts),
	}

	for _, b := range g.Bases {
		baseTags := func(extra ...string) map[string]string {
			tags := map[string]string{"save": g.Name, "base": b.Name, "base_id": strconv.Itoa(b.ID)}
			for i := 0; i+1 < len(extra); i += 2 {
				tags[extra[i]] = extra[i+1]
			}
			return tags
		}

		points = append(points, influxdb2_write.NewPoint(MeasurementPersonnel,
			baseTags(),
			map[string]any{"soldiers": len(b.Soldiers), "prisoners": len(b.Prisoners)},
			ts))

		for _, r := range b.Research {
			points = append(points, influxdb2_write.NewPoint(MeasurementResearch,
				baseTags("topic", r.Rule.Name),
				map[string]any{"spent": r.Spent, "cost": r.Cost, "offline": r.Offline},
				ts))
		}
		for _, p := range b.Productions {
			points = append(points, influxdb2_write.NewPoint(MeasurementProduction,
				baseTags("item", p.Rule.Name),
				map[string]any{"time_spent": p.TimeSpent, "produced": p.AmountProduced(), "efficiency": p.Efficiency},
				ts))
		}
	}
	return points
}
