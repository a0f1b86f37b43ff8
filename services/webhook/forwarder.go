package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zenexa/ghlbridge/lib/myerrors"
)

const forwardPath = "/api/webhook/ghl"

// errBackendNotConfigured is terminal: retrying cannot make the target appear.
var errBackendNotConfigured = errors.New("ZENEXA_BACKEND_URL is not configured")

// zenexaForwarder delivers enriched webhook events to the Zenexa backend.
type zenexaForwarder struct {
	baseURL    string
	httpClient *http.Client
}

func newZenexaForwarder(baseURL string) *zenexaForwarder {
	return &zenexaForwarder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (f *zenexaForwarder) Forward(c context.Context, eventType EventType, data any) error {
	if f.baseURL == "" {
		return myerrors.NewConfigurationError(errBackendNotConfigured)
	}

	requestBody, err := json.Marshal(forwardedEvent{Type: eventType, Data: data})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error marshalling event: %s", err))
	}

	httpReq, err := http.NewRequestWithContext(c, http.MethodPost, f.baseURL+forwardPath, bytes.NewReader(requestBody))
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error creating forward request: %s", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return myerrors.NewUnavailableError(fmt.Errorf("error forwarding %s event: %s", eventType, err))
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return myerrors.NewUpstreamError(httpResp.StatusCode, fmt.Errorf("error forwarding %s event: status %d", eventType, httpResp.StatusCode))
	}

	return nil
}
