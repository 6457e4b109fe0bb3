// Package restkit exposes entities as REST resources.
//
// A Resource is a runtime-generic controller: its Model field is bound through
// the generic binder when the resource is mounted for a concrete entity type,
// and the request handlers drive the crud.Repository port with that type.
// Routing itself is delegated to chi.
package restkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"

	"github.com/mikemcowie/brewing/pkg/logkit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"github.com/mikemcowie/brewing/port/crud"
)

// Resource is the runtime-generic controller declaration.
// Model receives the concrete entity type at specialisation time;
// Repo is inherited from the router's base declaration.
type Resource struct {
	Model reflect.Type `generic:"ModelT"`
	Repo  crud.Repository
}

func (res Resource) index(w http.ResponseWriter, r *http.Request) {
	all, err := res.Repo.FindAll(r.Context(), res.Model)
	if err != nil {
		res.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, all)
}

func (res Resource) create(w http.ResponseWriter, r *http.Request) {
	ptr := reflect.New(res.Model)
	if err := json.NewDecoder(r.Body).Decode(ptr.Interface()); err != nil {
		respondErrorPayload(w, http.StatusBadRequest, "malformed-body", "the request body is not a valid JSON document")
		return
	}
	if err := res.Repo.Create(r.Context(), ptr.Interface()); err != nil {
		res.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ptr.Elem().Interface())
}

func (res Resource) show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ptr := reflect.New(res.Model)
	found, err := res.Repo.FindByID(r.Context(), ptr.Interface(), id)
	if err != nil {
		res.respondError(w, r, err)
		return
	}
	if !found {
		respondErrorPayload(w, http.StatusNotFound, "not-found", "the requested entity does not exist")
		return
	}
	respondJSON(w, http.StatusOK, ptr.Elem().Interface())
}

func (res Resource) update(w http.ResponseWriter, r *http.Request) {
	ptr := reflect.New(res.Model)
	if err := json.NewDecoder(r.Body).Decode(ptr.Interface()); err != nil {
		respondErrorPayload(w, http.StatusBadRequest, "malformed-body", "the request body is not a valid JSON document")
		return
	}
	// the path is authoritative for the entity identity
	if err := reflectkit.SetID(ptr.Interface(), chi.URLParam(r, "id")); err != nil {
		res.respondError(w, r, err)
		return
	}
	if err := res.Repo.Update(r.Context(), ptr.Interface()); err != nil {
		res.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ptr.Elem().Interface())
}

func (res Resource) destroy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := res.Repo.DeleteByID(r.Context(), res.Model, id); err != nil {
		res.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (res Resource) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, crud.ErrNotFound):
		respondErrorPayload(w, http.StatusNotFound, "not-found", "the requested entity does not exist")
	case errors.Is(err, crud.ErrAlreadyExists):
		respondErrorPayload(w, http.StatusConflict, "already-exists", "an entity with this id already exists")
	case errors.Is(err, crud.ErrMissingID):
		respondErrorPayload(w, http.StatusBadRequest, "missing-id", "the entity id is missing")
	default:
		logkit.FromContext(r.Context()).Error().Err(err).
			Str("resource", res.Model.String()).
			Msg("request failed")
		respondErrorPayload(w, http.StatusInternalServerError, "internal-error", "the request could not be served")
	}
}

type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondErrorPayload(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorPayload{Error: errorBody{Code: code, Message: message}})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
