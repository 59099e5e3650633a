package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Threads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.svc.Messages.Threads(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": threads})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Messages.Chat(r.Context(), userID(r), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.Messages.Send(r.Context(), userID(r), mux.Vars(r)["userId"], req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) MarkChatRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Messages.MarkRead(r.Context(), userID(r), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
}
