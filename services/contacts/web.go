package contacts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mycontext"
	"github.com/zenexa/ghlbridge/lib/myerrors"
	"github.com/zenexa/ghlbridge/lib/myhttp"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

type webService struct {
	service           *service
	defaultLocationID string
	logger            mylog.Logger
}

func NewService(factory *ghlclient.Factory, resolver *ghlclient.Resolver, tokens *tokenstore.Manager, defaultLocationID string) *webService {
	return &webService{
		service:           newService(factory, resolver, tokens),
		defaultLocationID: defaultLocationID,
		logger:            mylog.New("contacts"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/get-contacts", s.getContactsPage()).Methods("GET")
	router.HandleFunc("/example-api-call-location/{locationId}", s.contactsByLocationPage()).Methods("GET")
}

func (s *webService) getContactsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		query, err := newContactsQueryFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if query.LocationID == "" {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("locationId is required")))
			return
		}
		if query.CompanyID == "" {
			errorWriter.WriteError(c, w, 3, myerrors.NewInvalidInputError(fmt.Errorf("companyId is required")))
			return
		}

		respBody, err := s.service.searchContacts(c, query.CompanyID, query.LocationID)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		writeUpstreamJSON(w, respBody)
	}
}

func (s *webService) contactsByLocationPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		pathLocationID := mux.Vars(r)["locationId"]

		query, err := newContactsQueryFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		locationID := query.LocationID
		if locationID == "" {
			locationID = pathLocationID
		}
		if locationID == "" {
			locationID = s.defaultLocationID
		}

		respBody, err := s.service.listContactsByLocation(c, query.CompanyID, locationID)
		if err != nil {
			// the demo path reports all failures as an input problem
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		writeUpstreamJSON(w, respBody)
	}
}

func writeUpstreamJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
