package ghlclient

import (
	"context"
	"errors"

	"github.com/zenexa/ghlbridge/ghl/tokenstore"
)

// APIVersion is pinned on every GHL API call.
const APIVersion = "2021-07-28"

var (
	// ErrNoInstallation is returned when a client is requested for a
	// resource that never authorized this application.
	ErrNoInstallation = errors.New("no installation found for resource")

	// ErrMissingRefreshToken is returned when a refresh cycle finds no
	// stored refresh token for the resource.
	ErrMissingRefreshToken = errors.New("no refresh token found for resource")
)

// TokenResponse is the body of a successful call to the GHL token endpoints.
type TokenResponse struct {
	AccessToken  string               `json:"access_token"`
	TokenType    tokenstore.TokenType `json:"token_type"`
	ExpiresIn    int                  `json:"expires_in"`
	RefreshToken string               `json:"refresh_token"`
	Scope        string               `json:"scope"`
	UserType     tokenstore.UserType  `json:"userType"`
	CompanyID    string               `json:"companyId,omitempty"`
	LocationID   string               `json:"locationId,omitempty"`
}

func (r TokenResponse) ToInstallationDetails() tokenstore.InstallationDetails {
	return tokenstore.InstallationDetails{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		ExpiresIn:    r.ExpiresIn,
		RefreshToken: r.RefreshToken,
		Scope:        r.Scope,
		UserType:     r.UserType,
		CompanyID:    r.CompanyID,
		LocationID:   r.LocationID,
	}
}

//go:generate mockgen -source=api.go -package ghlclient -destination oauth_client_mock.go OauthClient
type OauthClient interface {
	ExchangeAuthorizationCode(c context.Context, code string) (TokenResponse, error)
	RefreshAccessToken(c context.Context, refreshToken string) (TokenResponse, error)
}
