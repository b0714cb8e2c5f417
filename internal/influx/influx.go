// Package influx publishes match telemetry: substitution outcomes and
// the projected minute spread after each action. Disabled by default;
// the engine never depends on delivery.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// BucketMatchTelemetry holds substitution and fairness points.
const BucketMatchTelemetry = "match_telemetry"

// DefaultBucketNames are the InfluxDB buckets used by the pitch board.
var DefaultBucketNames = []string{
	BucketMatchTelemetry,
}

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client      influxdb2.Client
	Writers     map[string]influxdb2_api.WriteAPI
	IsValid     bool
	BucketNames []string
	Logger      zerolog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		BucketNames: DefaultBucketNames,
		Logger:      log,
	}
}

// Connect establishes a connection to InfluxDB.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, telemetry disabled")
		return nil
	}
	m.IsValid = true

	if err := m.setupOrganizationAndBuckets(); err != nil {
		return err
	}
	m.CreateWriters()
	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) setupOrganizationAndBuckets() error {
	ctx := context.Background()
	orgName := viper.GetString("influx.org")

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
		_, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket)
		if err != nil {
			m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

			rule := domain.RetentionRuleTypeExpire
			_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
				Type:         &rule,
				EverySeconds: 60 * 60 * 24 * 90,
			})
			if err != nil {
				m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
				return err
			}
		}
	}

	return nil
}

// CreateWriters creates write APIs for all configured buckets.
func (m *Manager) CreateWriters() {
	orgName := viper.GetString("influx.org")
	for _, bucket := range m.BucketNames {
		m.Writers[bucket] = m.Client.WriteAPI(orgName, bucket)

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

// WritePoint writes a point to InfluxDB. Points are dropped silently
// when the client never initialized; telemetry is best-effort.
func (m *Manager) WritePoint(bucket string, point *influxdb2_write.Point) error {
	if !m.IsValid {
		return nil
	}
	w, ok := m.Writers[bucket]
	if !ok {
		return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
	}
	w.WritePoint(point)
	return nil
}

// RecordSubstitution implements the monitor's telemetry sink.
func (m *Manager) RecordSubstitution(action string, delaySeconds int) {
	point := influxdb2_write.NewPointWithMeasurement("substitution").
		AddTag("action", action).
		AddField("delay_seconds", delaySeconds).
		SetTime(time.Now())
	if err := m.WritePoint(BucketMatchTelemetry, point); err != nil {
		m.Logger.Error().Err(err).Msg("Error recording substitution point")
	}
}

// RecordFairness implements the monitor's telemetry sink.
func (m *Manager) RecordFairness(spreadMinutes float64) {
	point := influxdb2_write.NewPointWithMeasurement("fairness").
		AddField("spread_minutes", spreadMinutes).
		SetTime(time.Now())
	if err := m.WritePoint(BucketMatchTelemetry, point); err != nil {
		m.Logger.Error().Err(err).Msg("Error recording fairness point")
	}
}

// Close flushes pending writes and shuts the client down.
func (m *Manager) Close() {
	if m.Client != nil {
		for _, w := range m.Writers {
			w.Flush()
		}
		m.Client.Close()
	}
}
