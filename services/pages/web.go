package pages

import (
	"context"
	"embed"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zenexa/ghlbridge/lib/mylog"
)

//go:embed ui/dist
var uiAssets embed.FS

type webService struct {
	logger mylog.Logger
}

func NewService() *webService {
	return &webService{
		logger: mylog.New("pages"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/", s.indexPage()).Methods("GET")
}

func (s *webService) indexPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := uiAssets.ReadFile("ui/dist/index.html")
		if err != nil {
			http.Error(w, "page not available", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}
