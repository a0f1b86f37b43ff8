package ghlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

const (
	apiRequestTimeout = 30 * time.Second
)

// Factory builds authenticated clients, each bound to one resource
// (a companyId or a locationId). Authentication is attached per request at
// construction-defined points, never by mutating shared state.
type Factory struct {
	apiDomain   string
	tokens      *tokenstore.Manager
	oauthClient OauthClient
	httpClient  *http.Client
	logger      mylog.Logger
}

func NewFactory(apiDomain string, tokens *tokenstore.Manager, oauthClient OauthClient) *Factory {
	return &Factory{
		apiDomain:   apiDomain,
		tokens:      tokens,
		oauthClient: oauthClient,
		httpClient: &http.Client{
			Timeout: apiRequestTimeout,
		},
		logger: mylog.New("ghlclient"),
	}
}

// NewClient binds a client to the given resource. Binding fails with
// ErrNoInstallation when no access token is stored for the resource.
func (f *Factory) NewClient(c context.Context, resourceID string) (*Client, error) {
	_, found, err := f.tokens.GetAccessToken(c, resourceID)
	if err != nil {
		return nil, fmt.Errorf("error fetching access token for %s: %s", resourceID, err)
	}
	if !found {
		return nil, ErrNoInstallation
	}

	return &Client{
		resourceID: resourceID,
		factory:    f,
	}, nil
}

// Client performs GHL API calls on behalf of one resource. The current access
// token is re-read from the token store on every request, so a refresh done
// elsewhere is picked up immediately.
type Client struct {
	resourceID string
	factory    *Factory
}

func (cl *Client) ResourceID() string {
	return cl.resourceID
}

func (cl *Client) Get(c context.Context, path string) (int, []byte, error) {
	return cl.Do(c, http.MethodGet, path, nil)
}

func (cl *Client) Post(c context.Context, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("error marshalling request body: %s", err)
	}

	return cl.Do(c, http.MethodPost, path, body)
}

// Do sends one authenticated request. A 401 triggers exactly one refresh
// cycle followed by one replay; the replay's response is returned as-is, so a
// second 401 surfaces to the caller. Other statuses pass through unmodified.
func (cl *Client) Do(c context.Context, method string, path string, body []byte) (int, []byte, error) {
	status, respBody, err := cl.send(c, method, path, body)
	if err != nil {
		return 0, nil, err
	}

	if status != http.StatusUnauthorized {
		return status, respBody, nil
	}

	err = cl.refreshTokenPair(c)
	if err != nil {
		// Keep the old tokens and replay anyway: the stale token makes the
		// replay fail with the original 401, which is what the caller gets.
		cl.factory.logger.Log(c, cl.resourceID, mylog.SeverityWarn, "Token refresh for %s failed: %s", cl.resourceID, err)
	}

	return cl.send(c, method, path, body)
}

func (cl *Client) send(c context.Context, method string, path string, body []byte) (int, []byte, error) {
	url := cl.factory.apiDomain + path

	httpReq, err := http.NewRequestWithContext(c, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("error creating http request for %s %s: %s", method, url, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Version", APIVersion)

	token, found, err := cl.factory.tokens.GetAccessToken(c, cl.resourceID)
	if err != nil || !found {
		// The request goes out unauthenticated and the upstream 401 tells the
		// caller what happened.
		cl.factory.logger.Log(c, cl.resourceID, mylog.SeverityWarn, "Could not attach access token for %s (found=%t): %v", cl.resourceID, found, err)
	} else {
		httpReq.Header.Set("Authorization", string(tokenstore.TokenTypeBearer)+" "+token)
	}

	httpResp, err := cl.factory.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("error calling %s %s: %s", method, url, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading response %s %s: %s", method, url, err)
	}

	return httpResp.StatusCode, respBody, nil
}

// refreshTokenPair runs one reactive refresh cycle: read the stored refresh
// token, exchange it, store the rotated pair atomically.
func (cl *Client) refreshTokenPair(c context.Context) error {
	refreshToken, found, err := cl.factory.tokens.GetRefreshToken(c, cl.resourceID)
	if err != nil {
		return fmt.Errorf("error fetching refresh token for %s: %s", cl.resourceID, err)
	}
	if !found || refreshToken == "" {
		return ErrMissingRefreshToken
	}

	resp, err := cl.factory.oauthClient.RefreshAccessToken(c, refreshToken)
	if err != nil {
		return fmt.Errorf("error refreshing access token for %s: %s", cl.resourceID, err)
	}

	err = cl.factory.tokens.SetTokenPair(c, cl.resourceID, resp.AccessToken, resp.RefreshToken)
	if err != nil {
		return fmt.Errorf("error storing refreshed token pair for %s: %s", cl.resourceID, err)
	}

	cl.factory.logger.Log(c, cl.resourceID, mylog.SeverityInfo, "Refreshed token pair for %s", cl.resourceID)

	return nil
}
