package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Getters(t *testing.T) {
	t.Parallel()

	empty := &Config{}
	assert.Equal(t, DefaultServiceName, empty.GetServiceName())
	assert.Equal(t, "unknown", empty.GetServiceVersion())
	assert.Equal(t, DefaultEndpoint, empty.GetEndpoint())
	assert.False(t, empty.GetInsecure())

	set := &Config{
		ServiceName:    "dashboard",
		ServiceVersion: "1.2.3",
		Endpoint:       "collector:4318",
		Insecure:       true,
	}
	assert.Equal(t, "dashboard", set.GetServiceName())
	assert.Equal(t, "1.2.3", set.GetServiceVersion())
	assert.Equal(t, "collector:4318", set.GetEndpoint())
	assert.True(t, set.GetInsecure())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config is valid",
			config:  nil,
			wantErr: false,
		},
		{
			name: "disabled config is valid",
			config: &Config{
				Enabled: false,
				Tracing: &TracingConfig{Enabled: true, Sampling: 7},
			},
			wantErr: false,
		},
		{
			name: "valid full config",
			config: &Config{
				Enabled:        true,
				ServiceName:    "test",
				ServiceVersion: "1.0.0",
				Endpoint:       "localhost:4318",
				Insecure:       true,
				Tracing:        &TracingConfig{Enabled: true, Sampling: 0.5},
				Metrics:        &MetricsConfig{Enabled: true},
			},
			wantErr: false,
		},
		{
			name: "invalid sampling is reported",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: 1.5},
			},
			wantErr: true,
			errMsg:  "tracing: sampling must be between 0.0 and 1.0",
		},
		{
			name: "errors are joined",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: -1},
				Metrics: &MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: true,
			errMsg:  "metrics: unknown exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMetricsConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *MetricsConfig
		wantErr bool
	}{
		{name: "nil config is valid", config: nil},
		{name: "disabled config is valid", config: &MetricsConfig{Enabled: false, Exporter: "bogus"}},
		{name: "otlp by default", config: &MetricsConfig{Enabled: true}},
		{
			name:   "prometheus with textfile",
			config: &MetricsConfig{Enabled: true, Exporter: MetricsExporterPrometheus, Textfile: "/tmp/chartsync.prom"},
		},
		{
			name:    "prometheus without textfile",
			config:  &MetricsConfig{Enabled: true, Exporter: MetricsExporterPrometheus},
			wantErr: true,
		},
		{
			name:    "unknown exporter",
			config:  &MetricsConfig{Enabled: true, Exporter: "statsd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMetricsConfig_GetExporter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MetricsExporterOTLP, (&MetricsConfig{}).GetExporter())
	assert.Equal(t, MetricsExporterPrometheus, (&MetricsConfig{Exporter: MetricsExporterPrometheus}).GetExporter())
}

func TestTracingConfig_GetSampling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *TracingConfig
		expected float64
	}{
		{
			name:     "returns default when sampling is unset",
			config:   &TracingConfig{Enabled: true},
			expected: DefaultSampling,
		},
		{
			name:     "returns explicit value when set",
			config:   &TracingConfig{Enabled: true, Sampling: 0.5},
			expected: 0.5,
		},
		{
			name:     "returns 1.0 when set to full sampling",
			config:   &TracingConfig{Enabled: true, Sampling: 1.0},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.config.GetSampling())
		})
	}
}
