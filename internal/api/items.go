package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/oglasnik/internal/imaging"
	"github.com/erazemk/oglasnik/internal/listing"
)

// ItemsHandler serves the listing endpoints.
type ItemsHandler struct {
	Service *listing.Service
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listing.NewItem
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Create(r.Context(), req)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req listing.ItemUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByCategory handles GET /api/categories/{category}/items.
func (h *ItemsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Featured handles GET /api/items/featured.
func (h *ItemsHandler) Featured(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Featured(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Related handles GET /api/items/{id}/related.
func (h *ItemsHandler) Related(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Related(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Search handles GET /api/items/search?item-name=.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Search(r.Context(), r.URL.Query().Get("item-name"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// PriceRange handles GET /api/items/price?min-price=&max-price=.
func (h *ItemsHandler) PriceRange(w http.ResponseWriter, r *http.Request) {
	p := params{values: r.URL.Query()}
	minPrice := p.floatParam("min-price", listing.DefaultMinPrice)
	maxPrice := p.floatParam("max-price", listing.DefaultMaxPrice)
	if p.err != nil {
		jsonError(w, http.StatusBadRequest, p.err.Error())
		return
	}

	items, err := h.Service.ListByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Filter handles GET /api/items/filter.
func (h *ItemsHandler) Filter(w http.ResponseWriter, r *http.Request) {
	fp, err := filterParams(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Service.Filter(r.Context(), fp)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	item, err := h.Service.SetPhoto(r.Context(), r.PathValue("id"), file)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	photo, err := h.Service.Photo(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", photo.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(photo.Data)
}
