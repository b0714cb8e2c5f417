package influx

import (
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Disabled(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.enabled", false)

	m := NewManager(zerolog.Nop())
	err := m.Connect()
	require.Error(t, err)
	assert.False(t, m.IsValid)
}

func TestWritePoint_DroppedWhenInvalid(t *testing.T) {
	m := NewManager(zerolog.Nop())

	point := influxdb2_write.NewPointWithMeasurement("substitution").
		AddField("delay_seconds", 10).
		SetTime(time.Now())
	assert.NoError(t, m.WritePoint(BucketMatchTelemetry, point))
}

func TestRecordPoints_BestEffort(t *testing.T) {
	m := NewManager(zerolog.Nop())

	// Neither call may panic or error without a live client.
	m.RecordSubstitution("executed", 12)
	m.RecordFairness(3.5)
}

func TestClose_WithoutClient(t *testing.T) {
	m := NewManager(zerolog.Nop())
	m.Close()
}
