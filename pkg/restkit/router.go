package restkit

import (
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mikemcowie/brewing/pkg/generic"
	"github.com/mikemcowie/brewing/pkg/logkit"
	"github.com/mikemcowie/brewing/port/crud"
)

// Router hosts REST resources on top of a chi mux.
// All mounted resources share one repository and one generic declaration,
// specialised per entity type.
type Router struct {
	mux   chi.Router
	class *generic.Class[Resource]
}

// NewRouter builds a resource router over the given repository.
// Requests are served with the given logger attached to their context.
func NewRouter(repo crud.Repository, logger zerolog.Logger) *Router {
	mux := chi.NewRouter()
	mux.Use(logkit.AccessLog(logger))
	return &Router{
		mux:   mux,
		class: generic.MustDeclareFrom[Resource](Resource{Repo: repo}, "ModelT"),
	}
}

// Mount registers the REST routes of an entity type under the given path:
//
//	GET    {path}      index
//	POST   {path}      create
//	GET    {path}/{id} show
//	PUT    {path}/{id} update
//	DELETE {path}/{id} destroy
func (router *Router) Mount(path string, model reflect.Type) error {
	spec, err := router.class.Specialize(model)
	if err != nil {
		return err
	}
	res := spec.New()
	router.mux.Route(path, func(r chi.Router) {
		r.Get("/", res.index)
		r.Post("/", res.create)
		r.Get("/{id}", res.show)
		r.Put("/{id}", res.update)
		r.Delete("/{id}", res.destroy)
	})
	return nil
}

func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.mux.ServeHTTP(w, r)
}
