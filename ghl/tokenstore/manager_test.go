package tokenstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zenexa/ghlbridge/lib/mystore"
	"github.com/zenexa/ghlbridge/lib/mytime"
)

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *Manager, mystore.Store[TokenRecord], *mytime.MockNower) {
	c := context.TODO()

	store, _, err := mystore.NewInMemoryStore[TokenRecord](c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	return c, NewManager(store, nower), store, nower
}

func companyInstallation() InstallationDetails {
	return InstallationDetails{
		AccessToken:  "company-access-123",
		TokenType:    TokenTypeBearer,
		ExpiresIn:    86400,
		RefreshToken: "company-refresh-456",
		Scope:        "contacts.readonly contacts.write",
		UserType:     UserTypeCompany,
		CompanyID:    "comp_1",
	}
}

func locationInstallation() InstallationDetails {
	return InstallationDetails{
		AccessToken:  "location-access-123",
		TokenType:    TokenTypeBearer,
		ExpiresIn:    86400,
		RefreshToken: "location-refresh-456",
		Scope:        "contacts.readonly",
		UserType:     UserTypeLocation,
		CompanyID:    "comp_1",
		LocationID:   "loc_1",
	}
}

func TestManager(t *testing.T) {
	t.Run("Access token absent without installation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, _, _ := setup(t, ctrl)

		_, found, err := manager.GetAccessToken(c, "comp_1")
		assert.NoError(t, err)
		assert.False(t, found)

		exists, err := manager.Exists(c, "comp_1")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Lookup matches company id and location id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, _, _ := setup(t, ctrl)

		assert.NoError(t, manager.SaveInstallation(c, companyInstallation()))
		assert.NoError(t, manager.SaveInstallation(c, locationInstallation()))

		token, found, err := manager.GetAccessToken(c, "comp_1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "company-access-123", token)

		token, found, err = manager.GetAccessToken(c, "loc_1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "location-access-123", token)

		refresh, found, err := manager.GetRefreshToken(c, "loc_1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "location-refresh-456", refresh)
	})

	t.Run("SaveInstallation is an upsert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, store, _ := setup(t, ctrl)

		assert.NoError(t, manager.SaveInstallation(c, locationInstallation()))
		assert.NoError(t, manager.SaveInstallation(c, locationInstallation()))

		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("SaveInstallation infers userType from ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, _, _ := setup(t, ctrl)

		details := locationInstallation()
		details.UserType = ""
		assert.NoError(t, manager.SaveInstallation(c, details))

		companyID, found, err := manager.CompanyIDForLocation(c, "loc_1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "comp_1", companyID)
	})

	t.Run("SaveInstallation without owner id fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, _, _ := setup(t, ctrl)

		err := manager.SaveInstallation(c, InstallationDetails{AccessToken: "abc"})
		assert.Error(t, err)
	})

	t.Run("SetTokenPair updates both tokens in one record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, store, _ := setup(t, ctrl)

		assert.NoError(t, manager.SaveInstallation(c, locationInstallation()))
		assert.NoError(t, manager.SetTokenPair(c, "loc_1", "new-access", "new-refresh"))

		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 1)
		assert.Equal(t, "new-access", all[0].AccessToken)
		assert.Equal(t, "new-refresh", all[0].RefreshToken)
		assert.Equal(t, "comp_1", all[0].CompanyID)
	})

	t.Run("SetTokenPair without record is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, store, _ := setup(t, ctrl)

		assert.NoError(t, manager.SetTokenPair(c, "unknown", "a", "r"))

		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("CompanyIDForLocation only matches Location records", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, manager, _, _ := setup(t, ctrl)

		assert.NoError(t, manager.SaveInstallation(c, companyInstallation()))

		_, found, err := manager.CompanyIDForLocation(c, "comp_1")
		assert.NoError(t, err)
		assert.False(t, found)
	})
}
