package router

import (
	"net/http"

	"room-chat-backend/internal/api"
	"room-chat-backend/internal/api/endpoints"
)

func AuthRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		authEndpoints := endpoints.NewAuthEndpoints()
		mux.HandleFunc(prefix+"/login", s.MakeHTTPHandleFunc(authEndpoints.Login))
	}
}
