package ghlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Credentials are the process-level oauth client credentials of this app.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

type oauthClient struct {
	apiDomain   string
	credentials Credentials
	sender      *formHTTPClient
}

func NewOAuthClient(apiDomain string, credentials Credentials) OauthClient {
	return &oauthClient{
		apiDomain:   apiDomain,
		credentials: credentials,
		sender:      newFormHTTPClient(),
	}
}

func (oc oauthClient) tokenURL() string {
	return oc.apiDomain + "/oauth/token"
}

// ExchangeAuthorizationCode trades a one-time authorization code for the
// initial access/refresh token pair.
func (oc oauthClient) ExchangeAuthorizationCode(c context.Context, code string) (TokenResponse, error) {
	requestBody := url.Values{
		"client_id":     {oc.credentials.ClientID},
		"client_secret": {oc.credentials.ClientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
	}.Encode()

	return oc.postTokenRequest(c, requestBody)
}

// RefreshAccessToken trades a refresh token for a fresh token pair. The GHL
// authorization server rotates the refresh token on every exchange.
func (oc oauthClient) RefreshAccessToken(c context.Context, refreshToken string) (TokenResponse, error) {
	requestBody := url.Values{
		"client_id":     {oc.credentials.ClientID},
		"client_secret": {oc.credentials.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}.Encode()

	return oc.postTokenRequest(c, requestBody)
}

func (oc oauthClient) postTokenRequest(c context.Context, requestBody string) (TokenResponse, error) {
	httpRespCode, respBody, err := oc.sender.Send(c, http.MethodPost, oc.tokenURL(), []byte(requestBody))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("error getting token: %s", err)
	}

	if httpRespCode != http.StatusOK {
		return TokenResponse{}, fmt.Errorf("error getting token: %d", httpRespCode)
	}

	resp := TokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("error parsing token response: %s", err)
	}

	return resp, nil
}
