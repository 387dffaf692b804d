// Package monitor writes a periodic status snapshot of a running simulation.
package monitor

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ftageo/basesim/internal/worker"
)

// DefaultInterval is the snapshot period when none is configured.
const DefaultInterval = time.Second

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger        *slog.Logger
	WorkerManager *worker.Manager
	// Clock reports the game time. It must be safe to call while the engine runs.
	Clock      func() time.Time
	StatusPath string
	Interval   time.Duration
}

// Status is one snapshot of the running simulation.
type Status struct {
	Time                time.Time      `json:"time"`
	GameTime            time.Time      `json:"gameTime"`
	Events              map[string]int `json:"events"`
	PendingWrites       int            `json:"pendingWrites"`
	LastWriteDurationMs float32        `json:"lastWriteDurationMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetProgramStatus returns the current status.
func (s *Service) GetProgramStatus() Status {
	st := Status{
		Time:                time.Now().UTC(),
		Events:              s.deps.WorkerManager.Counts(),
		PendingWrites:       s.deps.WorkerManager.PendingWrites(),
		LastWriteDurationMs: float32(s.deps.WorkerManager.GetLastDBWriteDuration().Microseconds()) / 1000,
	}
	if s.deps.Clock != nil {
		st.GameTime = s.deps.Clock()
	}
	return st
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	statusFile, err := os.Create(s.deps.StatusPath)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		defer statusFile.Close()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor goroutine", "path", s.deps.StatusPath, "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				// final snapshot so the file reflects the end state
				s.writeStatus(statusFile)
				return
			case <-ticker.C:
				s.writeStatus(statusFile)
			}
		}
	}()

	return nil
}

func (s *Service) writeStatus(f *os.File) {
	data, err := json.MarshalIndent(s.GetProgramStatus(), "", "  ")
	if err != nil {
		s.deps.Logger.Error("Error encoding status", "error", err)
		return
	}
	if err := f.Truncate(0); err != nil {
		s.deps.Logger.Error("Error writing status file", "error", err)
		return
	}
	if _, err := f.WriteAt(append(data, '\n'), 0); err != nil {
		s.deps.Logger.Error("Error writing status file", "error", err)
	}
}

// Stop stops the status monitor and waits for the final snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
