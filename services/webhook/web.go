package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mycontext"
	"github.com/zenexa/ghlbridge/lib/myerrors"
	"github.com/zenexa/ghlbridge/lib/myhttp"
	"github.com/zenexa/ghlbridge/lib/mylog"
	"github.com/zenexa/ghlbridge/lib/mytime"
	"github.com/zenexa/ghlbridge/lib/myuuid"
)

type webService struct {
	service *service
	nower   mytime.Nower
	uuider  myuuid.UUIDer
	logger  mylog.Logger
}

func NewService(resolver *ghlclient.Resolver, tokens *tokenstore.Manager, zenexaBackendURL string, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	return &webService{
		service: newService(resolver, tokens, newZenexaForwarder(zenexaBackendURL)),
		nower:   nower,
		uuider:  uuider,
		logger:  mylog.New("webhook"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/webhook-handler", s.webhookPage()).Methods("POST")
	router.HandleFunc("/zenexa-webhook", s.zenexaWebhookPage()).Methods("POST")
}

type webhookResponse struct {
	Message     string    `json:"message"`
	WebhookType EventType `json:"webhookType"`
	ContactID   string    `json:"contactId"`
}

// webhookPage receives contact-lifecycle events from GHL. Processing errors
// are logged but never reported back: a non-2xx response would make GHL
// redeliver an event we cannot handle any better the second time.
func (s *webService) webhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		event := contactEvent{}
		err := json.NewDecoder(r.Body).Decode(&event)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		err = event.Validate()
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		err = s.service.processContactEvent(c, event)
		if err != nil {
			s.logger.Log(c, event.LocationID, mylog.SeverityError, "Error processing %s event for contact %s: %s", event.Type, event.ID, err)
		}

		errorWriter.Write(c, w, http.StatusOK, webhookResponse{
			Message:     "Webhook received",
			WebhookType: event.Type,
			ContactID:   event.ID,
		})
	}
}

type zenexaWebhookResponse struct {
	Message     string    `json:"message"`
	WebhookType EventType `json:"webhookType"`
	Timestamp   string    `json:"timestamp"`
	EventID     string    `json:"eventId"`
}

// zenexaWebhookPage is the inbound leg: the Zenexa backend posts events here
// to confirm connectivity. The payload is logged and echoed back with a
// correlation id.
func (s *webService) zenexaWebhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		event := zenexaEvent{}
		err := json.NewDecoder(r.Body).Decode(&event)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		err = event.Validate()
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		s.logger.Log(c, "", mylog.SeverityInfo, "Received %s event from backend: %s", event.Type, event.Payload)

		errorWriter.Write(c, w, http.StatusOK, zenexaWebhookResponse{
			Message:     "Webhook received",
			WebhookType: event.Type,
			Timestamp:   s.nower.Now().UTC().Format(time.RFC3339),
			EventID:     s.uuider.Create(),
		})
	}
}
