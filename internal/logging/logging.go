package logging

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var saveNameReplacer = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_", ".", "_")

// LogFilePath names one run's log file after the app, the save it plays and
// the wall-clock start, e.g. basesim.Operation_Dawn.20300101_120000.log.
func LogFilePath(logsDir, app, save string, runStart time.Time) string {
	stamp := runStart.Format("20060102_150405")
	if save = saveNameReplacer.Replace(strings.TrimSpace(save)); save == "" {
		return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", app, stamp))
	}
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.%s.log", app, save, stamp))
}
