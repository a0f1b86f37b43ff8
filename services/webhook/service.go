package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/myerrors"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

const maxAttempts = 3

type service struct {
	resolver  *ghlclient.Resolver
	tokens    *tokenstore.Manager
	forwarder *zenexaForwarder
	logger    mylog.Logger
	sleep     func(time.Duration)
}

func newService(resolver *ghlclient.Resolver, tokens *tokenstore.Manager, forwarder *zenexaForwarder) *service {
	return &service{
		resolver:  resolver,
		tokens:    tokens,
		forwarder: forwarder,
		logger:    mylog.New("webhook"),
		sleep:     time.Sleep,
	}
}

// processContactEvent handles a single contact-lifecycle event. Create and
// update events are enriched with the full contact fetched from the GHL API
// before forwarding; delete events forward the last known fields as-is.
func (s *service) processContactEvent(c context.Context, event contactEvent) error {
	switch event.Type {
	case EventContactCreate, EventContactUpdate:
		contact, err := s.fetchContact(c, event)
		if err != nil {
			return err
		}
		return s.forwardWithRetry(c, event.Type, contact)

	case EventContactDelete:
		return s.forwardWithRetry(c, event.Type, deletedContact{
			Contact: deletedContactFields{
				ID:         event.ID,
				LocationID: event.LocationID,
				FirstName:  event.FirstName,
				LastName:   event.LastName,
				Email:      event.Email,
			},
		})

	default:
		return myerrors.NewInvalidInputError(fmt.Errorf("unsupported webhook type: %q", event.Type))
	}
}

// fetchContact reads the full contact from the GHL API through an
// authenticated location client.
func (s *service) fetchContact(c context.Context, event contactEvent) (map[string]any, error) {
	companyID, exists, err := s.tokens.CompanyIDForLocation(c, event.LocationID)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error resolving company for location %s: %s", event.LocationID, err))
	}
	if !exists {
		return nil, myerrors.NewNotFoundError(fmt.Errorf("no installation for location %s", event.LocationID))
	}

	client, err := s.resolver.EnsureLocationClient(c, companyID, event.LocationID)
	if err != nil {
		if errors.Is(err, ghlclient.ErrNoInstallation) {
			return nil, myerrors.NewNotFoundError(err)
		}
		return nil, myerrors.NewInternalError(err)
	}

	var contact map[string]any
	err = s.withRetry(c, "fetch contact "+event.ID, func() error {
		status, respBody, err := client.Get(c, "/contacts/"+event.ID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching contact %s: %s", event.ID, err))
		}
		if status != http.StatusOK {
			return myerrors.NewUpstreamError(status, fmt.Errorf("error fetching contact %s: status %d", event.ID, status))
		}
		return json.Unmarshal(respBody, &contact)
	})
	if err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *service) forwardWithRetry(c context.Context, eventType EventType, data any) error {
	return s.withRetry(c, fmt.Sprintf("forward %s event", eventType), func() error {
		return s.forwarder.Forward(c, eventType, data)
	})
}

// withRetry runs task up to maxAttempts times, waiting attempt x 1s between
// tries. A missing forwarding target is terminal: retrying cannot fix it.
func (s *service) withRetry(c context.Context, label string, task func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = task()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, errBackendNotConfigured) {
			return lastErr
		}

		s.logger.Log(c, "", mylog.SeverityWarn, "Attempt %d/%d to %s failed: %s", attempt, maxAttempts, label, lastErr)
		if attempt < maxAttempts {
			s.sleep(time.Duration(attempt) * time.Second)
		}
	}

	return lastErr
}
