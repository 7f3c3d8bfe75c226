package otelhttpclient_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goto/truora/pkg/opentelemetry/otelhttpclient"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPTransport(t *testing.T) {
	t.Run("should return new HTTP transport", func(t *testing.T) {
		tr := otelhttpclient.NewHTTPTransport(nil, "test")
		assert.NotNil(t, tr)
	})
	t.Run("should wrap existing HTTP transport", func(t *testing.T) {
		tr := otelhttpclient.NewHTTPTransport(http.DefaultTransport, "test")
		assert.NotNil(t, tr)
	})
}

func TestHTTPTransport_RoundTrip(t *testing.T) {
	t.Run("should record metrics and return response", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"check":{}}`))
		}))
		defer ts.Close()

		tr := otelhttpclient.NewHTTPTransport(http.DefaultTransport, "truora")

		req, err := http.NewRequest(http.MethodGet, ts.URL+"/checks", nil)
		assert.NoError(t, err)

		resp, err := tr.RoundTrip(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"check":{}}`, string(body))
		resp.Body.Close()
	})

	t.Run("should return error from underlying transport", func(t *testing.T) {
		tr := otelhttpclient.NewHTTPTransport(nil, "truora")

		req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:0/checks", nil)
		assert.NoError(t, err)

		resp, err := tr.RoundTrip(req)
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
