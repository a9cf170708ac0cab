package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/drape/internal/domain/catalog"
)

// CatalogDependencies defines the catalog lookups exposed over HTTP.
type CatalogDependencies interface {
	Search(ctx context.Context, q catalog.SearchQuery) []catalog.Item
	Genders(ctx context.Context) []string
}

type gendersResponse struct {
	Genders []string `json:"genders"`
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleSearch handles GET /api/catalog/search?gender=G&category=&color=&brand=&max_price= requests.
func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.catalog_search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params := r.URL.Query()
	q := catalog.SearchQuery{
		Gender:   params.Get("gender"),
		Category: params.Get("category"),
		Color:    params.Get("color"),
		Brand:    params.Get("brand"),
	}
	if q.Gender == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if raw := params.Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		q.MaxPrice = maxPrice
	}
	writeJSON(w, http.StatusOK, h.deps.Search(r.Context(), q))
}

// HandleGenders handles GET /api/catalog/genders requests.
func (h *CatalogHandler) HandleGenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	genders := h.deps.Genders(r.Context())
	if genders == nil {
		genders = []string{}
	}
	writeJSON(w, http.StatusOK, gendersResponse{Genders: genders})
}
