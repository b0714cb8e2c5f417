package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"match": { "teamSize": 9, "minutesPerHalf": 30 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 9, viper.GetInt("match.teamSize"))
	assert.Equal(t, 30, viper.GetInt("match.minutesPerHalf"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./pitchboardlogs", viper.GetString("logsDir"))
	assert.Equal(t, 2, viper.GetInt("monitor.pollIntervalSeconds"))
	assert.Equal(t, 120, viper.GetInt("monitor.snoozeSeconds"))
	assert.Equal(t, 7, viper.GetInt("match.teamSize"))
	assert.Equal(t, 25, viper.GetInt("match.minutesPerHalf"))
	assert.Equal(t, 2, viper.GetInt("match.rotationSpeed"))
	assert.Equal(t, false, viper.GetBool("match.disablePositionSwaps"))
	assert.Equal(t, false, viper.GetBool("match.disableBatchSubs"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./pitchboard.db", viper.GetString("storage.sqlitePath"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "pitchboard", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "pitchboard-metrics", viper.GetString("influx.org"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorage_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg, err := GetStorage()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./pitchboard.db", cfg.SqlitePath)
}

func TestGetStorage_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": { "type": "sqlite", "sqlitePath": "/tmp/board.db" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc, err := GetStorage()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/board.db", sc.SqlitePath)
}

func TestGetMatch_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"match": {
			"teamSize": 11,
			"minutesPerHalf": 40,
			"rotationSpeed": 3,
			"disablePositionSwaps": true,
			"disableBatchSubs": true
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	mc, err := GetMatch()
	require.NoError(t, err)
	assert.Equal(t, 11, mc.TeamSize)
	assert.Equal(t, 40, mc.MinutesPerHalf)
	assert.Equal(t, 3, mc.RotationSpeed)
	assert.Equal(t, true, mc.DisablePositionSwaps)
	assert.Equal(t, true, mc.DisableBatchSubs)
}

func TestGetMonitor_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	mc, err := GetMonitor()
	require.NoError(t, err)
	assert.Equal(t, 2, mc.PollIntervalSeconds)
	assert.Equal(t, 120, mc.SnoozeSeconds)
}

func TestGetInflux_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"influx": {
			"enabled": true,
			"host": "metrics.example.org",
			"port": "8087",
			"protocol": "https",
			"token": "secret",
			"org": "club"
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pitchboard.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	ic, err := GetInflux()
	require.NoError(t, err)
	assert.Equal(t, true, ic.Enabled)
	assert.Equal(t, "metrics.example.org", ic.Host)
	assert.Equal(t, "8087", ic.Port)
	assert.Equal(t, "https", ic.Protocol)
	assert.Equal(t, "secret", ic.Token)
	assert.Equal(t, "club", ic.Org)
}
