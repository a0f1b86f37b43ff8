package contacts

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/myerrors"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

type service struct {
	factory  *ghlclient.Factory
	resolver *ghlclient.Resolver
	tokens   *tokenstore.Manager
	logger   mylog.Logger
}

func newService(factory *ghlclient.Factory, resolver *ghlclient.Resolver, tokens *tokenstore.Manager) *service {
	return &service{
		factory:  factory,
		resolver: resolver,
		tokens:   tokens,
		logger:   mylog.New("contacts"),
	}
}

// searchContacts proxies a contact search for the location. When the search
// is rejected with a 401 even after the client's own refresh-and-replay, the
// location token is assumed beyond repair: a fresh one is minted from the
// company token and the search is retried once.
func (s *service) searchContacts(c context.Context, companyID string, locationID string) ([]byte, error) {
	client, err := s.resolver.EnsureLocationClient(c, companyID, locationID)
	if err != nil {
		return nil, mapResolverError(err)
	}

	status, respBody, err := client.Post(c, "/contacts/search", newSearchRequest(locationID))
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching contacts: %s", err))
	}

	if status == http.StatusUnauthorized {
		s.logger.Log(c, locationID, mylog.SeverityInfo, "Search rejected for %s: re-minting location token", locationID)

		err = s.resolver.MintLocationToken(c, companyID, locationID)
		if err != nil {
			return nil, myerrors.NewInternalError(fmt.Errorf("error re-minting location token: %s", err))
		}

		client, err = s.factory.NewClient(c, locationID)
		if err != nil {
			return nil, mapResolverError(err)
		}

		status, respBody, err = client.Post(c, "/contacts/search", newSearchRequest(locationID))
		if err != nil {
			return nil, myerrors.NewInternalError(fmt.Errorf("error fetching contacts: %s", err))
		}
	}

	if status != http.StatusOK {
		return nil, myerrors.NewUpstreamError(status, fmt.Errorf("error fetching contacts: %d", status))
	}

	return respBody, nil
}

// listContactsByLocation is the demo read path: a plain contact listing for
// the location, minting a location token from the company first when the
// location was never authorized.
func (s *service) listContactsByLocation(c context.Context, companyID string, locationID string) ([]byte, error) {
	client, err := s.resolver.EnsureLocationClient(c, companyID, locationID)
	if err != nil {
		return nil, mapResolverError(err)
	}

	status, respBody, err := client.Get(c, "/contacts/?locationId="+locationID)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing contacts: %s", err))
	}
	if status != http.StatusOK {
		return nil, myerrors.NewUpstreamError(status, fmt.Errorf("error listing contacts: %d", status))
	}

	return respBody, nil
}

func mapResolverError(err error) error {
	if errors.Is(err, ghlclient.ErrNoInstallation) {
		return myerrors.NewNotFoundError(err)
	}

	return myerrors.NewInternalError(err)
}
