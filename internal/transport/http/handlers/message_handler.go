package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vedran77/lawnpool/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	otherUserID, err := uuid.Parse(r.PathValue("otherUserId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	messages, err := h.messageService.History(r.Context(), userID, otherUserID)
	if err != nil {
		writeDomainError(w, r, "list messages", err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
