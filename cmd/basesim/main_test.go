package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftageo/basesim/internal/config"
)

const stockRules = "../../rules"

// workspace writes a config using memory storage under a temp dir.
func workspace(t *testing.T) string {
	t.Helper()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	cfg := map[string]any{
		"logLevel": "debug",
		"logsDir":  filepath.Join(dir, "logs"),
		"rulesDir": stockRules,
		"sim": map[string]any{
			"saveName": "Operation Dawn",
			"seed":     7,
		},
		"storage": map[string]any{
			"type": "memory",
			"memory": map[string]any{
				"outputDir":      filepath.Join(dir, "saves"),
				"compressOutput": false,
			},
		},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), data, 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulate_NewCampaignThenResume(t *testing.T) {
	dir := workspace(t)

	out, err := execute(t, "simulate", "-c", dir, "--hours", "48")
	require.NoError(t, err)
	assert.Contains(t, out, "Operation Dawn")
	assert.Contains(t, out, "New campaign started")
	assert.Contains(t, out, "Game time: 2030-01-03 00:00")

	export := filepath.Join(dir, "saves", "Operation_Dawn.json")
	assert.FileExists(t, export)
	assert.Contains(t, out, "Exported to "+export)

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "basesim.*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	logText, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(logText), "Started new campaign")
	assert.Contains(t, string(logText), "game_time=2030-01-03T00:00:00.000Z")

	viper.Reset()
	out, err = execute(t, "simulate", "-c", dir, "--hours", "24")
	require.NoError(t, err)
	assert.NotContains(t, out, "New campaign started")
	assert.Contains(t, out, "Game time: 2030-01-04 00:00")
}

func TestSimulate_FlagsOverrideConfig(t *testing.T) {
	dir := workspace(t)

	_, err := execute(t, "simulate", "-c", dir, "--save", "Second Front", "-H", "1", "-q")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "saves", "Second_Front.json"))
	assert.NoFileExists(t, filepath.Join(dir, "saves", "Operation_Dawn.json"))
}

func TestSimulate_RejectsNonPositiveHours(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "simulate", "-c", dir, "--hours", "0")
	assert.ErrorContains(t, err, "--hours must be positive")
}

func TestSimulate_UnknownStorage(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "simulate", "-c", dir, "--storage", "floppy")
	assert.ErrorContains(t, err, "unknown storage type: floppy")
}

func TestReport(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "simulate", "-c", dir, "-H", "2", "-q")
	require.NoError(t, err)

	viper.Reset()
	out, err := execute(t, "report", "-c", dir)
	require.NoError(t, err)
	for _, want := range []string{
		"Operation Dawn",
		"Cheyenne",
		"STR_MEDIKIT",
		"STR_ALIEN_ORIGINS",
		"STR_COUNCIL",
		"Prisoners",
	} {
		assert.Contains(t, out, want)
	}
	// the syndicate stays hidden until its research is done
	assert.NotContains(t, out, "STR_SYNDICATE")
}

func TestReport_MissingSave(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "report", "-c", dir, "--save", "nobody")
	assert.ErrorContains(t, err, "save not found")
}

func TestRules(t *testing.T) {
	dir := workspace(t)

	out, err := execute(t, "rules", "-c", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Facilities (7)")
	assert.Contains(t, out, "STR_FABRICATION_BAY_KIT")
	assert.Contains(t, out, "STR_SECTOID_INTEROGATION")

	out, err = execute(t, "rules", "-c", dir, "facilities")
	require.NoError(t, err)
	assert.Contains(t, out, "STR_ALIEN_CONTAINMENT")
	assert.NotContains(t, out, "STR_LASER_RIFLE")

	_, err = execute(t, "rules", "-c", dir, "weather")
	assert.Error(t, err)
}

func TestRules_MissingDir(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "rules", "-c", dir, "--rules", filepath.Join(dir, "nope"))
	assert.ErrorContains(t, err, "failed to read rules directory")
}

func TestSimulate_StatusFile(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "status.json")

	_, err := execute(t, "simulate", "-c", dir, "-H", "6", "-q", "--status", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var status struct {
		GameTime string `json:"gameTime"`
	}
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, "2030-01-01T06:00:00Z", status.GameTime)
}
