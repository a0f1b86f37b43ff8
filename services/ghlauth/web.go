package ghlauth

import (
	"context"
	"encoding/json"
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

// successRedirectURL is where GHL users land after a completed install.
const successRedirectURL = "https://app.gohighlevel.com/"

type webService struct {
	service   *service
	decryptor *SSODecryptor
	logger    mylog.Logger
}

func NewService(oauthClient ghlclient.OauthClient, tokens *tokenstore.Manager, ssoKey string) *webService {
	return &webService{
		service:   newService(oauthClient, tokens),
		decryptor: NewSSODecryptor(ssoKey),
		logger:    mylog.New("ghlauth"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/authorize-handler", s.authorizePage()).Methods("GET")
	router.HandleFunc("/decrypt-sso", s.decryptSSOPage()).Methods("POST")
}

// authorizePage is the oauth redirect target: GHL calls it with a one-time
// code after the user approves the app.
func (s *webService) authorizePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		code := r.URL.Query().Get("code")
		if code == "" {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("missing code")))
			return
		}

		err := s.service.handleAuthorizationCode(c, code)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, successRedirectURL, http.StatusFound)
	}
}

type decryptSSORequest struct {
	Key string `json:"key"`
}

func (s *webService) decryptSSOPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		req := decryptSSORequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Key == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "Please send valid key")
			return
		}

		payload, err := s.decryptor.Decrypt(req.Key)
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityWarn, "SSO decryption failed: %s", err)
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "Invalid Key")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(payload)
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityError, "Error writing sso response: %s", err)
		}
	}
}
