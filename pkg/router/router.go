package router

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/citizenwallet/tokenwallet/internal/account"
	"github.com/citizenwallet/tokenwallet/internal/auth"
	"github.com/citizenwallet/tokenwallet/internal/chain"
	"github.com/citizenwallet/tokenwallet/internal/history"
	"github.com/citizenwallet/tokenwallet/internal/transfers"
	"github.com/citizenwallet/tokenwallet/internal/version"
	"github.com/citizenwallet/tokenwallet/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	chainId *big.Int
	apiKey  string
	s       *session.Session
}

func NewServer(chainId *big.Int, apiKey string, s *session.Session) *Router {
	return &Router{
		chainId,
		apiKey,
		s,
	}
}

// Handler builds the routes of the wallet api
func (r *Router) Handler() http.Handler {
	cr := chi.NewRouter()

	a := auth.New(r.apiKey)

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Logger)

	// configure custom middleware
	cr.Use(OptionsMiddleware)
	cr.Use(HealthMiddleware)
	cr.Use(RequestSizeLimitMiddleware(1 << 20)) // Limit request bodies to 1MB
	cr.Use(middleware.Compress(9))

	// instantiate handlers
	v := version.NewService()
	ch := chain.NewService(r.chainId)
	h := history.NewService(r.s)
	t := transfers.NewService(r.s)
	acc := account.NewService(r.s)

	// configure routes
	cr.Get("/version", v.Current)
	cr.Get("/chain", ch.ChainId)
	cr.Get("/balance", acc.Balance)
	cr.Get("/token", acc.Token)

	cr.Route("/history", func(cr chi.Router) {
		cr.Get("/", h.Get)
		cr.With(a.AuthMiddleware).Post("/refresh", h.Refresh)
	})

	cr.Route("/transfers", func(cr chi.Router) {
		cr.With(a.AuthMiddleware).Post("/", t.Send)
		cr.Get("/{id}", t.Get)
	})

	return cr
}

// implement the Server interface
func (r *Router) Start(port int) error {
	// start the server
	return http.ListenAndServe(fmt.Sprintf(":%v", port), r.Handler())
}
