package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
)

type bookingRequest struct {
	ItemID   string        `json:"item_id"`
	Start    calendar.Date `json:"start"`
	End      calendar.Date `json:"end"`
	Delivery bool          `json:"delivery"`
}

func (h *Handler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		writeError(w, r, domain.Validationf("item_id is required"))
		return
	}
	b, err := h.svc.Bookings.RequestBooking(r.Context(), userID(r), req.ItemID, req.Start, req.End, req.Delivery)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bookings.GetBooking(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bookings.Accept(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) DeclineBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bookings.Decline(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bookings.Cancel(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type authorizeRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
}

func (h *Handler) AuthorizeBooking(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pi, err := h.svc.Payments.PreAuthorizeBooking(r.Context(), userID(r), mux.Vars(r)["id"], req.PaymentMethodID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pi)
}

func (h *Handler) Rentals(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.Bookings.ListRentals(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) Lendings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.Bookings.ListLendings(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) OwnerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Bookings.OwnerStats(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
