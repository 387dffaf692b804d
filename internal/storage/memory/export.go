// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftageo/basesim/internal/savegame"
	v1 "github.com/ftageo/basesim/internal/storage/memory/export/v1"
)

const (
	jsonExt = ".json"
	gzipExt = ".json.gz"
)

var fileNameReplacer = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")

// fileName is the campaign file of a save. One file per save, overwritten on export.
func (b *Backend) fileName(saveName string) string {
	name := fileNameReplacer.Replace(saveName)
	if b.cfg.CompressOutput {
		return name + gzipExt
	}
	return name + jsonExt
}

// Export writes the save and its events to the output directory and
// returns the file path.
func (b *Backend) Export(saveName string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.saves[saveName]
	if !ok {
		return "", fmt.Errorf("save %q: %w", saveName, savegame.ErrSaveNotFound)
	}
	export, err := v1.Build(rec, b.events[saveName])
	if err != nil {
		return "", fmt.Errorf("failed to build export: %w", err)
	}

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, b.fileName(saveName))
	if b.cfg.CompressOutput {
		err = b.writeGzipJSON(outputPath, export)
	} else {
		err = b.writeJSON(outputPath, export)
	}
	if err != nil {
		return "", err
	}

	b.lastExportPath = outputPath
	b.logger.Info("Exported campaign", "save", saveName, "path", outputPath)
	return outputPath, nil
}

func (b *Backend) writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

// loadExports restores every campaign file in the output directory.
// Unreadable files are logged and skipped.
func (b *Backend) loadExports() error {
	entries, err := os.ReadDir(b.cfg.OutputDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, jsonExt) || strings.HasSuffix(name, gzipExt)) {
			continue
		}
		path := filepath.Join(b.cfg.OutputDir, name)
		export, err := readExport(path)
		if err != nil {
			b.logger.Warn("Skipping campaign file", "path", path, "error", err)
			continue
		}
		save, events, err := v1.Restore(export)
		if err != nil {
			b.logger.Warn("Skipping campaign file", "path", path, "error", err)
			continue
		}
		b.saves[save.Name] = save
		b.events[save.Name] = events
	}
	return nil
}

func readExport(path string) (v1.Export, error) {
	var export v1.Export

	f, err := os.Open(path)
	if err != nil {
		return export, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, gzipExt) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return export, err
		}
		defer gz.Close()
		r = gz
	}

	err = json.NewDecoder(r).Decode(&export)
	return export, err
}
