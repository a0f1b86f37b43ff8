package ghlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

// Resolver hands out location-bound clients, minting a location token from
// the company token when a location was never authorized directly.
type Resolver struct {
	factory *Factory
	tokens  *tokenstore.Manager
	logger  mylog.Logger
	locks   sync.Map // locationID -> *sync.Mutex
}

func NewResolver(factory *Factory, tokens *tokenstore.Manager) *Resolver {
	return &Resolver{
		factory: factory,
		tokens:  tokens,
		logger:  mylog.New("resolver"),
	}
}

// EnsureLocationClient returns a client bound to locationID. When no token
// exists for the location yet, one is minted from the company token first.
// A per-location lock makes sure concurrent first-time callers perform the
// exchange only once.
func (r *Resolver) EnsureLocationClient(c context.Context, companyID string, locationID string) (*Client, error) {
	exists, err := r.tokens.Exists(c, locationID)
	if err != nil {
		return nil, fmt.Errorf("error checking installation for %s: %s", locationID, err)
	}

	if !exists {
		err = r.mintOnce(c, companyID, locationID)
		if err != nil {
			return nil, err
		}
	}

	return r.factory.NewClient(c, locationID)
}

func (r *Resolver) mintOnce(c context.Context, companyID string, locationID string) error {
	value, _ := r.locks.LoadOrStore(locationID, &sync.Mutex{})
	mutex := value.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	// Another caller may have minted while we waited for the lock.
	exists, err := r.tokens.Exists(c, locationID)
	if err != nil {
		return fmt.Errorf("error checking installation for %s: %s", locationID, err)
	}
	if exists {
		return nil
	}

	return r.MintLocationToken(c, companyID, locationID)
}

// MintLocationToken exchanges the company token for a location-scoped token
// via the dedicated GHL endpoint and persists it as a Location installation.
func (r *Resolver) MintLocationToken(c context.Context, companyID string, locationID string) error {
	companyClient, err := r.factory.NewClient(c, companyID)
	if err != nil {
		return fmt.Errorf("error binding client to company %s: %w", companyID, err)
	}

	status, respBody, err := companyClient.Post(c, "/oauth/locationToken", map[string]string{
		"companyId":  companyID,
		"locationId": locationID,
	})
	if err != nil {
		return fmt.Errorf("error minting location token for %s: %s", locationID, err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("error minting location token for %s: %d", locationID, status)
	}

	resp := TokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return fmt.Errorf("error parsing location token response: %s", err)
	}

	details := resp.ToInstallationDetails()
	details.UserType = tokenstore.UserTypeLocation
	if details.CompanyID == "" {
		details.CompanyID = companyID
	}
	if details.LocationID == "" {
		details.LocationID = locationID
	}

	err = r.tokens.SaveInstallation(c, details)
	if err != nil {
		return fmt.Errorf("error storing minted location token for %s: %s", locationID, err)
	}

	r.logger.Log(c, locationID, mylog.SeverityInfo, "Minted location token for %s from company %s", locationID, companyID)

	return nil
}
