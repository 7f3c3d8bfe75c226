package http

import (
	"net/http"
	"time"

	defaults "github.com/mcuadros/go-defaults"

	"github.com/goto/truora/pkg/opentelemetry/otelhttpclient"
)

type Config struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" default:"30s"`
	// RetryCount is the number of retries on gateway errors, 0 disables retries
	RetryCount int `mapstructure:"retry_count" yaml:"retry_count" default:"0"`
	// Instrument wraps the transport with OpenTelemetry spans and metrics
	Instrument bool `mapstructure:"instrument" yaml:"instrument" default:"false"`
}

// NewClient returns the http client used for every node and credential
// request
func NewClient(name string, cfg *Config) *http.Client {
	if cfg == nil {
		cfg = &Config{}
	}
	defaults.SetDefaults(cfg)

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.RetryCount > 0 {
		transport = &RetryableTransport{
			Transport:  transport,
			RetryCount: cfg.RetryCount,
		}
	}

	// retries sit below the instrumentation so a span covers all attempts
	if cfg.Instrument {
		transport = otelhttpclient.NewHTTPTransport(transport, name)
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}
