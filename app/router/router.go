package router

import (
	"log/slog"
	"net/http"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/auth"
	"github.com/mytheresa/sales-api/app/metrics"
	"github.com/mytheresa/sales-api/app/policy"
	"github.com/mytheresa/sales-api/logger"
)

// Resource binds a handler to the URL name and policy it is served under.
// Handler implements any subset of Lister, Creator, Retriever, Updater,
// Deleter and Exporter; only the implemented actions are routed.
type Resource struct {
	Name    string
	Handler any
	Policy  policy.Policy
}

type Lister interface {
	HandleList(w http.ResponseWriter, r *http.Request)
}

type Creator interface {
	HandleCreate(w http.ResponseWriter, r *http.Request)
}

type Retriever interface {
	HandleRetrieve(w http.ResponseWriter, r *http.Request)
}

// Updater serves both PUT and PATCH.
type Updater interface {
	HandleUpdate(w http.ResponseWriter, r *http.Request)
}

type Deleter interface {
	HandleDelete(w http.ResponseWriter, r *http.Request)
}

type Exporter interface {
	HandleExport(w http.ResponseWriter, r *http.Request)
}

type Config struct {
	Log       *slog.Logger
	Tokens    *auth.TokenIssuer
	Users     auth.UserFinder
	Login     *auth.LoginHandler
	Metrics   *metrics.Metrics
	Resources []Resource
}

type router struct {
	mux     *http.ServeMux
	metrics *metrics.Metrics
}

// New builds the HTTP handler serving every resource of the table.
func New(cfg Config) http.Handler {
	rt := &router{
		mux:     http.NewServeMux(),
		metrics: cfg.Metrics,
	}

	rt.handle("GET /health", http.HandlerFunc(health))
	if cfg.Metrics != nil {
		rt.mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
	rt.handle("POST "+api.Prefix+"/auth/login", http.HandlerFunc(cfg.Login.HandleLogin))
	rt.handle("GET "+api.Prefix+"/{$}", authenticated(apiRoot(cfg.Resources)))

	for _, res := range cfg.Resources {
		rt.register(res)
	}

	var handler http.Handler = rt.mux
	handler = auth.Authenticate(cfg.Tokens, cfg.Users)(handler)
	handler = logger.Middleware(cfg.Log)(handler)
	return handler
}

func (rt *router) handle(pattern string, h http.Handler) {
	rt.mux.Handle(pattern, rt.metrics.Instrument(pattern, h))
}

func (rt *router) register(res Resource) {
	list := api.Prefix + "/" + res.Name
	detail := list + "/{id}"

	if h, ok := res.Handler.(Lister); ok {
		rt.handle("GET "+list, gate(res.Policy, h.HandleList))
	}
	if h, ok := res.Handler.(Creator); ok {
		rt.handle("POST "+list, gate(res.Policy, h.HandleCreate))
	}
	if h, ok := res.Handler.(Exporter); ok {
		rt.handle("GET "+list+"/export", gate(res.Policy, h.HandleExport))
	}
	if h, ok := res.Handler.(Retriever); ok {
		rt.handle("GET "+detail, gate(res.Policy, h.HandleRetrieve))
	}
	if h, ok := res.Handler.(Updater); ok {
		rt.handle("PUT "+detail, gate(res.Policy, h.HandleUpdate))
		rt.handle("PATCH "+detail, gate(res.Policy, h.HandleUpdate))
	}
	if h, ok := res.Handler.(Deleter); ok {
		rt.handle("DELETE "+detail, gate(res.Policy, h.HandleDelete))
	}
}

// gate runs the request level policy check before next.
func gate(p policy.Policy, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := policy.AllowRequest(p, r.Method, auth.CallerFromContext(r.Context())); err != nil {
			api.WriteError(w, r, err)
			return
		}
		next(w, r)
	})
}

func authenticated(next http.HandlerFunc) http.Handler {
	return gate(policy.Policy{Kind: policy.AuthenticatedOnly}, next)
}

// apiRoot lists the absolute collection URL of every resource.
func apiRoot(resources []Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links := make(map[string]string, len(resources))
		for _, res := range resources {
			links[res.Name] = api.ListLink(r, res.Name)
		}
		api.WriteJSON(w, http.StatusOK, links)
	}
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
