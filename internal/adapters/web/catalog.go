package web

import (
	"net/http"

	"order-desk/internal/core"
)

// apiListCustomers handles GET /api/customers.
func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListAddresses handles GET /api/customers/{customerID}/addresses.
func (h *Handler) apiListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, ok := intParam(w, r, "customerID")
	if !ok {
		return
	}
	result, err := h.svc.ListAddresses(r.Context(), customerID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCatalog handles GET /api/catalog.
func (h *Handler) apiCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCatalog(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiQuoteCatalog handles GET /api/customers/{customerID}/catalog.
func (h *Handler) apiQuoteCatalog(w http.ResponseWriter, r *http.Request) {
	customerID, ok := intParam(w, r, "customerID")
	if !ok {
		return
	}
	result, err := h.svc.QuoteCatalog(r.Context(), customerID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiOrderWriteSchema handles GET /api/schema/order-write.
func (h *Handler) apiOrderWriteSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, core.OrderWriteSchema())
}
