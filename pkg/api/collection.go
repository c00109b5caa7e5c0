package api

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/seedapi/pkg/httputil"
	"github.com/getmockd/seedapi/pkg/record"
	"github.com/getmockd/seedapi/pkg/stateful"
)

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	Success bool          `json:"success"`
	Removed record.Record `json:"removed"`
}

// collectionHandlers is the endpoint set for one collection.
type collectionHandlers struct {
	coll         *stateful.Collection
	log          *slog.Logger
	maxBodyBytes int64
}

// mountCollection registers list, get, create, update and delete for the
// named collection under /api/<name>. It is the only place routes for a
// collection are defined; the server calls it once per name.
func (s *Server) mountCollection(mux *http.ServeMux, name string) {
	coll, err := s.store.Collection(name)
	if err != nil {
		s.log.Error("collection not mounted", "collection", name, "error", err)
		return
	}

	h := &collectionHandlers{
		coll:         coll,
		log:          s.log.With("collection", name),
		maxBodyBytes: s.maxBodyBytes,
	}

	base := "/api/" + name
	mux.HandleFunc("GET "+base, h.list)
	mux.HandleFunc("GET "+base+"/{$}", h.list)
	mux.HandleFunc("POST "+base, h.create)
	mux.HandleFunc("POST "+base+"/{$}", h.create)
	mux.HandleFunc("GET "+base+"/{id}", h.get)
	mux.HandleFunc("GET "+base+"/{id}/{$}", h.get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.update)
	mux.HandleFunc("PATCH "+base+"/{id}/{$}", h.update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.delete)
	mux.HandleFunc("DELETE "+base+"/{id}/{$}", h.delete)
}

// list handles GET /api/<name>. Every query parameter is a substring filter.
func (h *collectionHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := stateful.QueryFromValues(r.URL.Query())
	httputil.WriteOK(w, h.coll.List(q))
}

// get handles GET /api/<name>/{id}.
func (h *collectionHandlers) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.coll.Get(r.PathValue("id"))
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteOK(w, item)
}

// create handles POST /api/<name>.
func (h *collectionHandlers) create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeRecord(w, r, h.maxBodyBytes)
	if err != nil {
		h.log.Debug("rejected body", "error", err, "requestId", RequestID(r.Context()))
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteCreated(w, h.coll.Create(body))
}

// update handles PATCH /api/<name>/{id}.
func (h *collectionHandlers) update(w http.ResponseWriter, r *http.Request) {
	patch, err := decodeRecord(w, r, h.maxBodyBytes)
	if err != nil {
		h.log.Debug("rejected body", "error", err, "requestId", RequestID(r.Context()))
		httputil.WriteErr(w, err)
		return
	}

	item, err := h.coll.Update(r.PathValue("id"), patch)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteOK(w, item)
}

// delete handles DELETE /api/<name>/{id}.
func (h *collectionHandlers) delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.coll.Delete(r.PathValue("id"))
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteOK(w, DeleteResponse{Success: true, Removed: removed})
}
