package ghlauth

import (
	"context"
	"fmt"

	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/myerrors"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

type service struct {
	oauthClient ghlclient.OauthClient
	tokens      *tokenstore.Manager
	logger      mylog.Logger
}

func newService(oauthClient ghlclient.OauthClient, tokens *tokenstore.Manager) *service {
	return &service{
		oauthClient: oauthClient,
		tokens:      tokens,
		logger:      mylog.New("ghlauth"),
	}
}

// handleAuthorizationCode performs the one-time exchange of an authorization
// code for the initial token pair and persists the installation. A failed
// exchange is propagated to the caller instead of being swallowed: redirecting
// as-if-authorized would hide a broken installation.
func (s *service) handleAuthorizationCode(c context.Context, code string) error {
	s.logger.Log(c, "", mylog.SeverityInfo, "Handling authorization code")

	resp, err := s.oauthClient.ExchangeAuthorizationCode(c, code)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error exchanging authorization code: %s", err))
	}

	err = s.tokens.SaveInstallation(c, resp.ToInstallationDetails())
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing installation: %s", err))
	}

	s.logger.Log(c, resp.ToInstallationDetails().OwnerID(), mylog.SeverityInfo, "Completed authorization-code exchange")

	return nil
}
