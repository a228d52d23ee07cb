package router

import (
	"net/http"
	"strings"

	"room-chat-backend/internal/api"
	"room-chat-backend/internal/api/endpoints"
	"room-chat-backend/internal/api/middleware"
)

// WebsocketRoutes mounts the upgrade endpoint at the root, where the browser
// client dials it. Token validation happens inside the endpoint because the
// claims feed the session identity.
func WebsocketRoutes() api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		chatEndpoints := endpoints.NewChatEndpoints(s.Hub(), s.History(), endpoints.ChatPaths{})
		mux.HandleFunc("/ws", s.MakeHTTPHandleFunc(chatEndpoints.Websocket))
	}
}

func RoomRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		paths := endpoints.ChatPaths{
			RoomsPrefix: strings.TrimRight(prefix, "/") + "/rooms/",
		}
		chatEndpoints := endpoints.NewChatEndpoints(s.Hub(), s.History(), paths)

		mux.HandleFunc(prefix+"/rooms", s.MakeHTTPHandleFunc(chatEndpoints.Rooms, middleware.ValidateJWT))
		mux.HandleFunc(prefix+"/rooms/", s.MakeHTTPHandleFunc(chatEndpoints.RoomMessages, middleware.ValidateJWT))
	}
}
