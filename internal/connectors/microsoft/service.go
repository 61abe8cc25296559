package microsoft

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// GraphBaseURL is the Microsoft Graph API v1.0 root.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// GraphDefaultScope requests the permissions already consented for the app.
const GraphDefaultScope = "https://graph.microsoft.com/.default"

// defaultHTTPTimeout caps a single outbound call to Microsoft endpoints.
const defaultHTTPTimeout = 30 * time.Second

// NewHTTPClient returns an HTTP client for Microsoft endpoints with a request
// timeout and tracing on the transport.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   defaultHTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
