package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"room-chat-backend/internal/chat"
	"room-chat-backend/internal/dto"
	internaljwt "room-chat-backend/internal/jwt"
	"room-chat-backend/internal/service/history"
)

type ChatEndpoints interface {
	Websocket(http.ResponseWriter, *http.Request) error
	Rooms(http.ResponseWriter, *http.Request) error
	RoomMessages(http.ResponseWriter, *http.Request) error
}

// ChatPaths carries the mounted prefixes so path parsing stays in one place.
type ChatPaths struct {
	// RoomsPrefix is the prefix in front of "{room}/messages", e.g. "/api/rooms/".
	RoomsPrefix string
}

type chatEndpoints struct {
	hub     *chat.Hub
	history *history.Service
	paths   ChatPaths
}

func NewChatEndpoints(hub *chat.Hub, historyService *history.Service, paths ChatPaths) ChatEndpoints {
	return &chatEndpoints{
		hub:     hub,
		history: historyService,
		paths:   paths,
	}
}

func (h *chatEndpoints) Websocket(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleWebsocket,
	})
}

func (h *chatEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRooms,
	})
}

func (h *chatEndpoints) RoomMessages(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRoomMessages,
	})
}

// handleWebsocket validates the session token and upgrades the connection.
// An invalid token refuses the upgrade outright; no session is created.
func (h *chatEndpoints) handleWebsocket(w http.ResponseWriter, r *http.Request) error {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Missing auth token",
			ErrorLog:   fmt.Errorf("websocket upgrade without token"),
		}
	}

	claims, err := internaljwt.ParseToken(tokenString)
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid auth token",
			ErrorLog:   fmt.Errorf("websocket upgrade: %w", err),
		}
	}

	// Upgrade writes its own response on failure.
	_ = chat.ServeConnection(h.hub, w, r, claims.Username, tokenString)
	return nil
}

func (h *chatEndpoints) handleRooms(w http.ResponseWriter, r *http.Request) error {
	infos := h.hub.RoomInfos()

	rooms := make([]dto.RoomInfo, 0, len(infos))
	for _, info := range infos {
		rooms = append(rooms, dto.RoomInfo{
			Name:        info.Name,
			MemberCount: info.MemberCount,
			Members:     info.Members,
		})
	}

	return WriteJSON(w, http.StatusOK, dto.RoomListResponse{Rooms: rooms})
}

func (h *chatEndpoints) handleRoomMessages(w http.ResponseWriter, r *http.Request) error {
	if h.history == nil {
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Message history is not enabled",
			ErrorLog:   fmt.Errorf("history requested but no archive configured"),
		}
	}

	room := strings.TrimPrefix(r.URL.Path, h.paths.RoomsPrefix)
	room = strings.TrimSuffix(room, "/messages")
	if room == "" || strings.Contains(room, "/") {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid room path",
			ErrorLog:   fmt.Errorf("bad history path %q", r.URL.Path),
		}
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := h.history.Recent(r.Context(), room, limit)
	if err != nil {
		return h.serviceError(err)
	}

	resp := dto.MessageListResponse{
		Room:     room,
		Messages: make([]dto.MessageResponse, 0, len(messages)),
	}
	for _, message := range messages {
		resp.Messages = append(resp.Messages, dto.MessageResponse{
			Username:  message.Username,
			Message:   message.Body,
			Timestamp: message.SentAt,
		})
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *chatEndpoints) serviceError(err error) error {
	var svcErr *history.Error
	if errors.As(err, &svcErr) && svcErr.Code == history.ErrorCodeValidation {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   err,
		}
	}
	return &HTTPError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
		ErrorLog:   err,
	}
}
