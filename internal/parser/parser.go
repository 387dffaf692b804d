package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ftageo/basesim/internal/savegame"
)

// parseIntFromFloat parses a string that may be an integer ("32") or float ("32.00") into int64.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// Service turns dispatcher arguments back into simulation events.
type Service interface {
	ParseEvent(command string, args []string) (savegame.Event, error)
}

// Parser provides pure []string -> savegame struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

var _ Service = (*Parser)(nil)

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}
