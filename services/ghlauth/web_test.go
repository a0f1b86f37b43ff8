package ghlauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mystore"
	"github.com/zenexa/ghlbridge/lib/mytime"
)

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *ghlclient.MockOauthClient, *tokenstore.Manager) {
	c := context.TODO()

	store, _, err := mystore.NewInMemoryStore[tokenstore.TokenRecord](c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	tokens := tokenstore.NewManager(store, nower)

	oauthClient := ghlclient.NewMockOauthClient(ctrl)

	router := mux.NewRouter()
	NewService(oauthClient, tokens, "shared-sso-secret").RegisterEndpoints(c, router)

	return router, oauthClient, tokens
}

func TestAuthorizeHandler(t *testing.T) {

	t.Run("Successful exchange persists installation and redirects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, oauthClient, tokens := setup(t, ctrl)

		oauthClient.EXPECT().ExchangeAuthorizationCode(gomock.Any(), "auth-code-1").Return(ghlclient.TokenResponse{
			AccessToken:  "access-1",
			TokenType:    tokenstore.TokenTypeBearer,
			ExpiresIn:    86400,
			RefreshToken: "refresh-1",
			Scope:        "contacts.readonly",
			UserType:     tokenstore.UserTypeCompany,
			CompanyID:    "comp_1",
		}, nil)

		request := httptest.NewRequest(http.MethodGet, "/authorize-handler?code=auth-code-1", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 302, response.Code)
		assert.Equal(t, "https://app.gohighlevel.com/", response.Header().Get("Location"))

		token, found, err := tokens.GetAccessToken(context.TODO(), "comp_1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "access-1", token)
	})

	t.Run("Missing code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, _, _ := setup(t, ctrl)

		request := httptest.NewRequest(http.MethodGet, "/authorize-handler", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Failed exchange is propagated, not silently redirected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, oauthClient, _ := setup(t, ctrl)

		oauthClient.EXPECT().ExchangeAuthorizationCode(gomock.Any(), "bad-code").
			Return(ghlclient.TokenResponse{}, fmt.Errorf("error getting token: 400"))

		request := httptest.NewRequest(http.MethodGet, "/authorize-handler?code=bad-code", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 500, response.Code)
		assert.Contains(t, response.Body.String(), "error exchanging authorization code")
		assert.Empty(t, response.Header().Get("Location"))
	})
}

func TestDecryptSSOEndpoint(t *testing.T) {

	t.Run("Missing key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, _, _ := setup(t, ctrl)

		request := httptest.NewRequest(http.MethodPost, "/decrypt-sso", strings.NewReader(`{}`))
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 400, response.Code)
		assert.Equal(t, "Please send valid key", response.Body.String())
	})

	t.Run("Invalid key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, _, _ := setup(t, ctrl)

		request := httptest.NewRequest(http.MethodPost, "/decrypt-sso", strings.NewReader(`{"key":"not-a-real-payload"}`))
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 400, response.Code)
		assert.Equal(t, "Invalid Key", response.Body.String())
	})

	t.Run("Valid key returns decrypted payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, _, _ := setup(t, ctrl)

		encrypted, err := encryptForTest(`{"userId":"u1","companyId":"comp_1"}`, "shared-sso-secret")
		assert.NoError(t, err)

		request := httptest.NewRequest(http.MethodPost, "/decrypt-sso",
			strings.NewReader(fmt.Sprintf(`{"key":%q}`, encrypted)))
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		assert.JSONEq(t, `{"userId":"u1","companyId":"comp_1"}`, response.Body.String())
	})
}
