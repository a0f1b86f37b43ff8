package tokenstore

import (
	"context"
	"fmt"

	"github.com/zenexa/ghlbridge/lib/mylog"
	"github.com/zenexa/ghlbridge/lib/mystore"
	"github.com/zenexa/ghlbridge/lib/mytime"
)

// Manager owns read/write access to token records. A bare resourceId is
// ambiguous by design: it may be a locationId or a companyId, so lookups probe
// the Location key first and fall back to the Company key.
type Manager struct {
	store  mystore.Store[TokenRecord]
	nower  mytime.Nower
	logger mylog.Logger
}

func NewManager(store mystore.Store[TokenRecord], nower mytime.Nower) *Manager {
	return &Manager{
		store:  store,
		nower:  nower,
		logger: mylog.New("tokenstore"),
	}
}

func (m *Manager) lookup(c context.Context, resourceID string) (TokenRecord, string, bool, error) {
	for _, userType := range []UserType{UserTypeLocation, UserTypeCompany} {
		uid := recordUID(userType, resourceID)
		record, exists, err := m.store.Get(c, uid)
		if err != nil {
			return TokenRecord{}, "", false, fmt.Errorf("error fetching token record %s: %s", uid, err)
		}
		if exists {
			return record, uid, true, nil
		}
	}

	return TokenRecord{}, "", false, nil
}

// GetAccessToken returns the access token for the resource, or false when no
// installation exists. Absence is a normal outcome, not an error.
func (m *Manager) GetAccessToken(c context.Context, resourceID string) (string, bool, error) {
	record, _, exists, err := m.lookup(c, resourceID)
	if err != nil || !exists {
		return "", false, err
	}

	return record.AccessToken, true, nil
}

func (m *Manager) GetRefreshToken(c context.Context, resourceID string) (string, bool, error) {
	record, _, exists, err := m.lookup(c, resourceID)
	if err != nil || !exists {
		return "", false, err
	}

	return record.RefreshToken, true, nil
}

func (m *Manager) Exists(c context.Context, resourceID string) (bool, error) {
	_, _, exists, err := m.lookup(c, resourceID)
	return exists, err
}

// CompanyIDForLocation returns the companyId stored on the Location record of
// the given location.
func (m *Manager) CompanyIDForLocation(c context.Context, locationID string) (string, bool, error) {
	record, exists, err := m.store.Get(c, recordUID(UserTypeLocation, locationID))
	if err != nil {
		return "", false, fmt.Errorf("error fetching location record %s: %s", locationID, err)
	}
	if !exists || record.CompanyID == "" {
		return "", false, nil
	}

	return record.CompanyID, true, nil
}

// SetTokenPair overwrites access and refresh token of the matching record in
// a single update, so a refresh can never leave a torn pair behind. A missing
// record is a no-op.
func (m *Manager) SetTokenPair(c context.Context, resourceID string, accessToken string, refreshToken string) error {
	return m.store.RunInTransaction(c, func(c context.Context) error {
		record, uid, exists, err := m.lookup(c, resourceID)
		if err != nil {
			return err
		}
		if !exists {
			m.logger.Log(c, resourceID, mylog.SeverityWarn, "No token record for %s: skipping token-pair update", resourceID)
			return nil
		}

		record.AccessToken = accessToken
		record.RefreshToken = refreshToken
		record.UpdatedAt = m.nower.Now()

		err = m.store.Put(c, uid, record)
		if err != nil {
			return fmt.Errorf("error storing token record %s: %s", uid, err)
		}

		return nil
	})
}

// SaveInstallation upserts the full record, keyed by (locationId, userType)
// when a locationId is present, by (companyId, userType) otherwise. Saving the
// same installation twice leaves exactly one record behind.
func (m *Manager) SaveInstallation(c context.Context, details InstallationDetails) error {
	ownerID := details.OwnerID()
	if ownerID == "" {
		return fmt.Errorf("installation without companyId or locationId")
	}

	userType := details.UserType
	if userType == "" {
		userType = UserTypeCompany
		if details.LocationID != "" {
			userType = UserTypeLocation
		}
	}

	uid := recordUID(userType, ownerID)
	now := m.nower.Now()

	return m.store.RunInTransaction(c, func(c context.Context) error {
		createdAt := now
		existing, exists, err := m.store.Get(c, uid)
		if err != nil {
			return fmt.Errorf("error fetching token record %s: %s", uid, err)
		}
		if exists {
			createdAt = existing.CreatedAt
		}

		err = m.store.Put(c, uid, TokenRecord{
			AccessToken:  details.AccessToken,
			TokenType:    details.TokenType,
			ExpiresIn:    details.ExpiresIn,
			RefreshToken: details.RefreshToken,
			Scope:        details.Scope,
			UserType:     userType,
			CompanyID:    details.CompanyID,
			LocationID:   details.LocationID,
			CreatedAt:    createdAt,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("error storing token record %s: %s", uid, err)
		}

		m.logger.Log(c, ownerID, mylog.SeverityInfo, "Saved %s installation for %s", userType, ownerID)

		return nil
	})
}
