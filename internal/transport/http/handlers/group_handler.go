package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vedran77/lawnpool/internal/service"
	"github.com/vedran77/lawnpool/internal/transport/http/middleware"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Zip         string `json:"zip"`
	Description string `json:"description"`
	CreatorID   string `json:"creatorId"`
}

type joinGroupRequest struct {
	UserID string `json:"userId"`
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		writeDomainError(w, r, "list groups", err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creatorID, err := resolveUserID(r, req.CreatorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid creatorId")
		return
	}

	group, err := h.groupService.Create(r.Context(), service.CreateGroupInput{
		Name:        req.Name,
		Address:     req.Address,
		Zip:         req.Zip,
		Description: req.Description,
		CreatorID:   creatorID,
	})
	if err != nil {
		writeDomainError(w, r, "create group", err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	group, err := h.groupService.Get(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, r, "get group", err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	var req joinGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, err := resolveUserID(r, req.UserID)
	if err != nil || userID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	group, err := h.groupService.Join(r.Context(), groupID, userID)
	if err != nil {
		writeDomainError(w, r, "join group", err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// resolveUserID parses an id from the request body, falling back to the
// authenticated caller when the body leaves it out. uuid.Nil means neither
// was present.
func resolveUserID(r *http.Request, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		id, _ := middleware.GetUserID(r.Context())
		return id, nil
	}
	return uuid.Parse(raw)
}
