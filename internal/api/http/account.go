package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/service"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profiles.GetProfile(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update service.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	p, err := h.svc.Profiles.UpdateProfile(r.Context(), userID(r), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)

	notes, total, err := h.svc.Notifications.GetNotifications(r.Context(), userID(r), int32(page), int32(pageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes, "total": total})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifications.MarkAsRead(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ActivityLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Activity.List(r.Context(), userID(r), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

type verificationRequest struct {
	IDDocumentPath string `json:"id_document_path"`
	SelfiePath     string `json:"selfie_path"`
}

func (h *Handler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	var req verificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vr, err := h.svc.Verification.Submit(r.Context(), userID(r), req.IDDocumentPath, req.SelfiePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vr)
}

func (h *Handler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Verification.Status(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.VerificationStatus{"status": status})
}

func (h *Handler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("status") != "all"
	requests, err := h.svc.Verification.ListRequests(r.Context(), pendingOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type reviewVerificationRequest struct {
	Decision        domain.VerificationDecision `json:"decision"`
	RejectionReason string                      `json:"rejection_reason"`
}

func (h *Handler) ReviewVerification(w http.ResponseWriter, r *http.Request) {
	var req reviewVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vr, err := h.svc.Verification.Review(r.Context(), userID(r), mux.Vars(r)["id"], req.Decision, req.RejectionReason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vr)
}
