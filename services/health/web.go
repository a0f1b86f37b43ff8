package health

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mycontext"
	"github.com/zenexa/ghlbridge/lib/myhttp"
	"github.com/zenexa/ghlbridge/lib/mylog"
)

type webService struct {
	tokens *tokenstore.Manager
	logger mylog.Logger
}

func NewService(tokens *tokenstore.Manager) *webService {
	return &webService{
		tokens: tokens,
		logger: mylog.New("health"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/health", s.healthPage()).Methods("GET")
}

type healthResponse struct {
	Status string `json:"status"`
}

// healthPage reports readiness: a store read must succeed, whether or not a
// record exists for the probe id.
func (s *webService) healthPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		_, err := s.tokens.Exists(c, "health-probe")
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
