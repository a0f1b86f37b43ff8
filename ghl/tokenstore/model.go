package tokenstore

import (
	"time"
)

type UserType string

const (
	UserTypeCompany  UserType = "Company"
	UserTypeLocation UserType = "Location"
)

type TokenType string

const (
	TokenTypeBearer TokenType = "Bearer"
)

// TokenRecord is the persisted fact that a company or location has authorized
// this application.
type TokenRecord struct {
	AccessToken  string    `bson:"access_token"`
	TokenType    TokenType `bson:"token_type"`
	ExpiresIn    int       `bson:"expires_in"` // informational, not enforced
	RefreshToken string    `bson:"refresh_token"`
	Scope        string    `bson:"scope"`
	UserType     UserType  `bson:"userType"`
	CompanyID    string    `bson:"companyId,omitempty"`
	LocationID   string    `bson:"locationId,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// InstallationDetails is the payload of a successful token exchange, as
// returned by the GHL oauth endpoints.
type InstallationDetails struct {
	AccessToken  string    `json:"access_token"`
	TokenType    TokenType `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	Scope        string    `json:"scope"`
	UserType     UserType  `json:"userType"`
	CompanyID    string    `json:"companyId,omitempty"`
	LocationID   string    `json:"locationId,omitempty"`
}

// OwnerID returns the id that identifies the record's owning resource: the
// locationId for Location-type records, the companyId otherwise.
func (d InstallationDetails) OwnerID() string {
	if d.LocationID != "" {
		return d.LocationID
	}

	return d.CompanyID
}

// recordUID keys records per (ownerId, userType). The composite key makes the
// uniqueness constraint on that pair structural and keeps the lookup an
// explicit union over the two id spaces instead of an untagged field overlap.
func recordUID(userType UserType, ownerID string) string {
	return string(userType) + "-" + ownerID
}
