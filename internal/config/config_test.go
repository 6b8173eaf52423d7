package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMercuryConfig() MercuryConfig {
	cfg := DefaultMercuryConfig()
	cfg.Token = "tok"
	cfg.Alias = "primary"
	cfg.Instruments = []string{"EUR_USD"}
	return cfg
}

func TestValidateMercuryConfig_OK(t *testing.T) {
	require.NoError(t, ValidateMercuryConfig(validMercuryConfig()))
}

func TestValidateMercuryConfig_MissingToken(t *testing.T) {
	cfg := validMercuryConfig()
	cfg.Token = ""
	assert.Error(t, ValidateMercuryConfig(cfg))
}

func TestValidateMercuryConfig_NoInstrumentsAndNoDiscovery(t *testing.T) {
	cfg := validMercuryConfig()
	cfg.Instruments = nil
	cfg.UseInstruments = true
	assert.Error(t, ValidateMercuryConfig(cfg))
}

func TestValidateMercuryConfig_DiscoveryAllowsEmptyInstruments(t *testing.T) {
	cfg := validMercuryConfig()
	cfg.Instruments = nil
	cfg.UseInstruments = false
	assert.NoError(t, ValidateMercuryConfig(cfg))
}

func TestValidateMercuryConfig_PusherMaxBelowMin(t *testing.T) {
	cfg := validMercuryConfig()
	cfg.DataPusher.MinProcesses = 4
	cfg.DataPusher.MaxProcesses = 2
	assert.Error(t, ValidateMercuryConfig(cfg))
}

func TestValidateTerminusConfig_OK(t *testing.T) {
	cfg := DefaultTerminusConfig()
	require.NoError(t, ValidateTerminusConfig(cfg))
}

func TestValidateTerminusConfig_NoPorts(t *testing.T) {
	cfg := DefaultTerminusConfig()
	cfg.DataIntakePorts = nil
	assert.Error(t, ValidateTerminusConfig(cfg))
}

func TestValidateSalusConfig_OK(t *testing.T) {
	require.NoError(t, ValidateSalusConfig(DefaultSalusConfig()))
}

func TestParseIndexList(t *testing.T) {
	got, err := parseIndexList("0, 1,2")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	_, err = parseIndexList("")
	assert.Error(t, err)

	_, err = parseIndexList("-1")
	assert.Error(t, err)
}

func TestApplyMercuryFlags_RequiresIndex(t *testing.T) {
	cfg := validMercuryConfig()
	err := ApplyMercuryFlags(&cfg, []string{})
	assert.Error(t, err)
}

func TestApplyMercuryFlags_SetsIndexAndOverrides(t *testing.T) {
	cfg := validMercuryConfig()
	err := ApplyMercuryFlags(&cfg, []string{"-i", "3", "-live", "-push-port", "7010"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.InstanceIndex())
	assert.True(t, cfg.Live)
	assert.Equal(t, 7010, cfg.DataPusher.Port)
}

func TestApplyTerminusFlags_Overrides(t *testing.T) {
	cfg := DefaultTerminusConfig()
	err := ApplyTerminusFlags(&cfg, []string{"-db-host", "mongo.internal", "-dedupe-bypass-raw"})
	require.NoError(t, err)
	assert.Equal(t, "mongo.internal", cfg.DBHost)
	assert.True(t, cfg.DedupeBypassRaw)
}

func TestApplySalusFlags_ParsesIndices(t *testing.T) {
	cfg := DefaultSalusConfig()
	err := ApplySalusFlags(&cfg, []string{"-collector-indices", "0,1,2"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, cfg.CollectorIndices)
}

func TestLoadMercuryConfig_MergesFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mercury0.json")
	fileCfg := map[string]any{
		"token":          "file-token",
		"alias":          "file-alias",
		"instruments":    []string{"EUR_USD", "USD_JPY"},
		"useInstruments": false,
		"dataPusher":     map[string]any{"port": 7001, "minProcesses": 2, "maxProcesses": 6},
		"dataValidator":  map[string]any{"minProcesses": 2, "maxProcesses": 6},
		"health":         map[string]any{"host": "0.0.0.0", "port": 7101},
	}
	data, err := json.Marshal(fileCfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadMercuryConfig(path, []string{"-i", "0"})
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, 7001, cfg.DataPusher.Port)
	assert.Equal(t, 0, cfg.InstanceIndex())
}

func TestLoadMercuryConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	_, err := LoadMercuryConfig(filepath.Join(t.TempDir(), "missing.json"), []string{"-i", "0"})
	// token/alias/instruments remain empty, so validation fails -- this
	// demonstrates the file is optional but the result still must validate.
	assert.Error(t, err)
}

func TestResolveConfigPath_FallsBackToRepoRelative(t *testing.T) {
	got := ResolveConfigPath("mercury0.json")
	assert.Equal(t, filepath.Join("configs", "mercury0.json"), got)
}
