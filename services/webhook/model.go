package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/zenexa/ghlbridge/lib/myerrors"
)

type EventType string

const (
	EventContactCreate EventType = "ContactCreate"
	EventContactUpdate EventType = "ContactUpdate"
	EventContactDelete EventType = "ContactDelete"
)

func (t EventType) IsSupported() bool {
	switch t {
	case EventContactCreate, EventContactUpdate, EventContactDelete:
		return true
	}
	return false
}

// contactEvent is the shape GHL posts to /webhook-handler for
// contact-lifecycle events. Name and email fields are only populated on
// delete events, where the contact can no longer be fetched.
type contactEvent struct {
	Type       EventType `json:"type"`
	LocationID string    `json:"locationId"`
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	Email      string    `json:"email,omitempty"`
}

func (e contactEvent) Validate() error {
	if !e.Type.IsSupported() {
		return myerrors.NewInvalidInputError(fmt.Errorf("unsupported webhook type: %q", e.Type))
	}
	if e.LocationID == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing locationId"))
	}
	if e.ID == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing contact id"))
	}

	return nil
}

// zenexaEvent is what the Zenexa backend posts to /zenexa-webhook.
type zenexaEvent struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (e zenexaEvent) Validate() error {
	if !e.Type.IsSupported() {
		return myerrors.NewInvalidInputError(fmt.Errorf("unsupported webhook type: %q", e.Type))
	}

	return nil
}

// forwardedEvent is the envelope sent downstream to the Zenexa backend.
type forwardedEvent struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// deletedContact carries the last known contact fields on a delete, since
// the contact can no longer be enriched via the API.
type deletedContact struct {
	Contact deletedContactFields `json:"contact"`
}

type deletedContactFields struct {
	ID         string `json:"id"`
	LocationID string `json:"locationId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
}
