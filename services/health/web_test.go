package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mystore"
	"github.com/zenexa/ghlbridge/lib/mytime"
)

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := context.TODO()

	store, _, err := mystore.NewInMemoryStore[tokenstore.TokenRecord](c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	router := mux.NewRouter()
	NewService(tokenstore.NewManager(store, nower)).RegisterEndpoints(c, router)

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	assert.Equal(t, 200, response.Code)
	assert.JSONEq(t, `{"status":"ok"}`, response.Body.String())
}
