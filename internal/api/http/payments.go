package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) CreateSetupIntent(w http.ResponseWriter, r *http.Request) {
	si, err := h.svc.Payments.CreateSetupIntent(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, si)
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.Payments.ListCards(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payment_methods": cards})
}

func (h *Handler) DetachCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Payments.DetachCard(r.Context(), userID(r), mux.Vars(r)["pmId"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetDefaultCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Payments.SetDefaultCard(r.Context(), userID(r), mux.Vars(r)["pmId"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type amountRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason"`
}

func (h *Handler) CapturePayment(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pi, err := h.svc.Payments.Capture(r.Context(), mux.Vars(r)["intentId"], req.AmountCents)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pi)
}

func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	pi, err := h.svc.Payments.CancelAuthorization(r.Context(), mux.Vars(r)["intentId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pi)
}

func (h *Handler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	refund, err := h.svc.Payments.Refund(r.Context(), mux.Vars(r)["intentId"], req.AmountCents, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refund)
}
