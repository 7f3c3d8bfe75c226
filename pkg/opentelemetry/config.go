package opentelemetry

import "time"

type Config struct {
	Enabled        bool              `mapstructure:"enabled" default:"false"`
	ServiceName    string            `mapstructure:"service_name" default:"truora"`
	ServiceVersion string            `mapstructure:"service_version"`
	Labels         map[string]string `mapstructure:"labels"`
	OTLP           struct {
		Headers  map[string]string `mapstructure:"headers"`
		Endpoint string            `mapstructure:"endpoint" default:"127.0.0.1:4317"`
		Insecure bool              `mapstructure:"insecure" default:"true"`
	} `mapstructure:"otlp"`
	SamplingFraction float64       `mapstructure:"sampling_fraction" default:"1"`
	MetricInterval   time.Duration `mapstructure:"metric_interval" default:"15s"`
}
