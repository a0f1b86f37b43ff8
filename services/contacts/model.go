package contacts

import (
	"fmt"
	"net/http"

	formcodec "github.com/go-playground/form/v4"

	"github.com/zenexa/ghlbridge/lib/myerrors"
)

type contactsQuery struct {
	LocationID string `form:"locationId"`
	CompanyID  string `form:"companyId"`
}

func newContactsQueryFromRequest(r *http.Request) (contactsQuery, error) {
	err := r.ParseForm()
	if err != nil {
		return contactsQuery{}, myerrors.NewInvalidInputError(err)
	}

	query := contactsQuery{}
	err = formcodec.NewDecoder().Decode(&query, r.Form)
	if err != nil {
		return contactsQuery{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding query: %s", err))
	}

	return query, nil
}

// searchRequest is the fixed search the demo UI performs.
type searchRequest struct {
	Filters    []any  `json:"filters"`
	LocationID string `json:"locationId"`
	Query      string `json:"query"`
	Page       int    `json:"page"`
	PageLimit  int    `json:"pageLimit"`
}

func newSearchRequest(locationID string) searchRequest {
	return searchRequest{
		Filters:    []any{},
		LocationID: locationID,
		Query:      "",
		Page:       1,
		PageLimit:  10,
	}
}
