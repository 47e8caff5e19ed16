package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"order-desk/internal/app"
	"order-desk/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Handler holds the ApplicationService, the chi router and the request validator.
type Handler struct {
	svc      app.ApplicationService
	router   chi.Router
	validate *validator.Validate
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string, logger logrus.FieldLogger) http.Handler {
	h := &Handler{
		svc:      svc,
		validate: newValidator(),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Reference data ───────────────────────────────────────────────────────
	r.Get("/api/customers", h.apiListCustomers)
	r.Get("/api/customers/{customerID}/addresses", h.apiListAddresses)
	r.Get("/api/customers/{customerID}/catalog", h.apiQuoteCatalog)
	r.Get("/api/catalog", h.apiCatalog)
	r.Get("/api/schema/order-write", h.apiOrderWriteSchema)

	// ── Drafts ───────────────────────────────────────────────────────────────
	r.Post("/api/drafts", h.apiStartDraft)
	r.Post("/api/drafts/duplicate", h.apiDuplicateLastOrder)
	r.Post("/api/orders/{orderID}/edit", h.apiLoadOrderForEdit)

	r.Route("/api/drafts/{draftID}", func(r chi.Router) {
		r.Get("/", h.apiGetDraft)
		r.Delete("/", h.apiDiscardDraft)
		r.Patch("/", h.apiUpdateHeader)
		r.Post("/submit", h.apiSubmit)

		r.Post("/branches", h.apiAddBranch)
		r.Route("/branches/{branch}", func(r chi.Router) {
			r.Patch("/", h.apiUpdateBranch)
			r.Delete("/", h.apiRemoveBranch)
			r.Post("/focus", h.apiFocusBranch)

			r.Post("/items", h.apiAddItem)
			r.Patch("/items/{variationID}", h.apiUpdateItem)
			r.Delete("/items/{variationID}", h.apiRemoveItem)
			r.Post("/items/{variationID}/discount-mode", h.apiToggleItemDiscountMode)
		})
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes and validates the request body into v. It returns false after
// writing an error response: 413 for oversized bodies, 400 for malformed JSON and
// 422 for failed field validation.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]core.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, core.FieldError{
					Field:   fe.Field(),
					Message: "failed " + fe.Tag() + " validation",
				})
			}
			writeFieldErrors(w, r, "invalid request", fields)
			return false
		}
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// intParam parses a numeric URL parameter, writing a 400 on failure.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
