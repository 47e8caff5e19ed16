package web

import (
	"net/http"

	"order-desk/internal/app"
	"order-desk/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ── Request types ─────────────────────────────────────────────────────────────

type customerRequest struct {
	CustomerID int `json:"customer_id" validate:"required,min=1"`
}

type headerUpdateRequest struct {
	DeliveryDate       *string          `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Notes              *string          `json:"notes" validate:"omitempty,max=2000"`
	InternalNotes      *string          `json:"internal_notes" validate:"omitempty,max=2000"`
	OrderDiscountValue *decimal.Decimal `json:"order_discount_value"`
	OrderDiscountMode  *string          `json:"order_discount_mode" validate:"omitempty,oneof=percent amount"`
}

type branchUpdateRequest struct {
	ShippingAddressID *int             `json:"shipping_address_id" validate:"omitempty,min=1"`
	Note              *string          `json:"note" validate:"omitempty,max=1000"`
	ShippingFee       *decimal.Decimal `json:"shipping_fee"`
}

type addItemRequest struct {
	VariationID int `json:"variation_id" validate:"required,min=1"`
}

type itemUpdateRequest struct {
	Quantity      *int             `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	DiscountMode  *string          `json:"discount_mode" validate:"omitempty,oneof=percent amount"`
}

func modePtr(s *string) *core.DiscountMode {
	if s == nil || *s == "" {
		return nil
	}
	m := core.DiscountMode(*s)
	return &m
}

// ── Opening drafts ────────────────────────────────────────────────────────────

// apiStartDraft handles POST /api/drafts.
func (h *Handler) apiStartDraft(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.StartDraft(r.Context(), req.CustomerID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiDuplicateLastOrder handles POST /api/drafts/duplicate.
func (h *Handler) apiDuplicateLastOrder(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.DuplicateLastOrder(r.Context(), req.CustomerID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiLoadOrderForEdit handles POST /api/orders/{orderID}/edit.
func (h *Handler) apiLoadOrderForEdit(w http.ResponseWriter, r *http.Request) {
	orderID, ok := intParam(w, r, "orderID")
	if !ok {
		return
	}
	result, err := h.svc.LoadOrderForEdit(r.Context(), orderID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// ── Draft header ──────────────────────────────────────────────────────────────

func (h *Handler) apiGetDraft(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.svc.GetDraft(r.Context(), chi.URLParam(r, "draftID")))
}

func (h *Handler) apiDiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DiscardDraft(r.Context(), chi.URLParam(r, "draftID")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) apiUpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req headerUpdateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r)(h.svc.UpdateHeader(r.Context(), chi.URLParam(r, "draftID"), app.HeaderUpdateRequest{
		DeliveryDate:  req.DeliveryDate,
		Notes:         req.Notes,
		InternalNotes: req.InternalNotes,
		DiscountMode:  modePtr(req.OrderDiscountMode),
		DiscountValue: req.OrderDiscountValue,
	}))
}

// apiSubmit handles POST /api/drafts/{draftID}/submit.
func (h *Handler) apiSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Submit(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// ── Branches ──────────────────────────────────────────────────────────────────

func (h *Handler) apiAddBranch(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.svc.AddBranch(r.Context(), chi.URLParam(r, "draftID")))
}

func (h *Handler) apiUpdateBranch(w http.ResponseWriter, r *http.Request) {
	branch, ok := intParam(w, r, "branch")
	if !ok {
		return
	}
	var req branchUpdateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r)(h.svc.UpdateBranch(r.Context(), chi.URLParam(r, "draftID"), branch, app.BranchUpdateRequest{
		AddressID:   req.ShippingAddressID,
		Note:        req.Note,
		ShippingFee: req.ShippingFee,
	}))
}

func (h *Handler) apiRemoveBranch(w http.ResponseWriter, r *http.Request) {
	branch, ok := intParam(w, r, "branch")
	if !ok {
		return
	}
	h.respond(w, r)(h.svc.RemoveBranch(r.Context(), chi.URLParam(r, "draftID"), branch))
}

func (h *Handler) apiFocusBranch(w http.ResponseWriter, r *http.Request) {
	branch, ok := intParam(w, r, "branch")
	if !ok {
		return
	}
	h.respond(w, r)(h.svc.FocusBranch(r.Context(), chi.URLParam(r, "draftID"), branch))
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (h *Handler) apiAddItem(w http.ResponseWriter, r *http.Request) {
	branch, ok := intParam(w, r, "branch")
	if !ok {
		return
	}
	var req addItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r)(h.svc.AddItem(r.Context(), chi.URLParam(r, "draftID"), branch, req.VariationID))
}

func (h *Handler) apiUpdateItem(w http.ResponseWriter, r *http.Request) {
	branch, variationID, ok := itemParams(w, r)
	if !ok {
		return
	}
	var req itemUpdateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r)(h.svc.UpdateItem(r.Context(), chi.URLParam(r, "draftID"), branch, variationID, app.ItemUpdateRequest{
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		DiscountMode:  modePtr(req.DiscountMode),
		DiscountValue: req.DiscountValue,
	}))
}

func (h *Handler) apiToggleItemDiscountMode(w http.ResponseWriter, r *http.Request) {
	branch, variationID, ok := itemParams(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(h.svc.ToggleItemDiscountMode(r.Context(), chi.URLParam(r, "draftID"), branch, variationID))
}

func (h *Handler) apiRemoveItem(w http.ResponseWriter, r *http.Request) {
	branch, variationID, ok := itemParams(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(h.svc.RemoveItem(r.Context(), chi.URLParam(r, "draftID"), branch, variationID))
}

func itemParams(w http.ResponseWriter, r *http.Request) (branch, variationID int, ok bool) {
	if branch, ok = intParam(w, r, "branch"); !ok {
		return 0, 0, false
	}
	if variationID, ok = intParam(w, r, "variationID"); !ok {
		return 0, 0, false
	}
	return branch, variationID, true
}

// respond writes a draft result or maps the error.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(*app.DraftResult, error) {
	return func(result *app.DraftResult, err error) {
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, result)
	}
}
