package otelhttpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/goto/truora/pkg/opentelemetry/otelhttpclient"

type HTTPTransport struct {
	name            string
	roundTripper    http.RoundTripper
	requestDuration metric.Int64Histogram
}

// NewHTTPTransport wraps baseTransport with tracing spans named after the
// client and a request duration histogram
func NewHTTPTransport(baseTransport http.RoundTripper, name string) *HTTPTransport {
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	requestDuration, err := otel.Meter(meterName).Int64Histogram(
		"http.client.request.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration of outgoing HTTP requests"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &HTTPTransport{
		name: name,
		roundTripper: otelhttp.NewTransport(baseTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return name + " " + r.Method + " " + r.URL.Path
			}),
		),
		requestDuration: requestDuration,
	}
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.roundTripper.RoundTrip(req)

	if t.requestDuration != nil {
		attrs := []attribute.KeyValue{
			attribute.String("http.client.name", t.name),
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
		}
		if resp != nil {
			attrs = append(attrs, attribute.Int("http.response.status_code", resp.StatusCode))
		}
		if err != nil {
			attrs = append(attrs, attribute.Bool("error", true))
		}
		t.requestDuration.Record(req.Context(), time.Since(start).Milliseconds(), metric.WithAttributes(attrs...))
	}

	return resp, err
}
