package devapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/validate"
)

// CollectionHandler serves REST CRUD for one kind
type CollectionHandler struct {
	kind  model.Kind
	store *Store
}

// NewCollectionHandler creates a handler for kind backed by store
func NewCollectionHandler(kind model.Kind, store *Store) *CollectionHandler {
	return &CollectionHandler{kind: kind, store: store}
}

// Routes mounts the collection routes on r
func (h *CollectionHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(h.kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.Get(h.kind, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeValid(w, r)
	if !ok {
		return
	}
	created, err := h.store.Create(h.kind, rec)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, ok := h.decodeValid(w, r)
	if !ok {
		return
	}
	updated, err := h.store.Update(h.kind, id, rec)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(h.kind, id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeValid parses the body and runs the same field rules the client
// runs; references are checked against the stored collections
func (h *CollectionHandler) decodeValid(w http.ResponseWriter, r *http.Request) (model.Record, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return nil, false
	}
	rec, err := Decode(h.kind, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return nil, false
	}

	info, _ := model.Lookup(h.kind)
	opts := validate.Options{}
	for _, k := range info.ReferencedKinds() {
		opts[k], _ = h.store.List(k)
	}
	if res := validate.Validate(h.kind, rec, opts); !res.Valid {
		writeError(w, http.StatusBadRequest, res.Error())
		return nil, false
	}
	return rec, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "identificador inválido")
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
