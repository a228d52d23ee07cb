package main

import (
	"log"

	"room-chat-backend/internal/api"
	"room-chat-backend/internal/api/router"
	"room-chat-backend/internal/chat"
	"room-chat-backend/internal/database"
	"room-chat-backend/internal/env"
	"room-chat-backend/internal/queue"
	"room-chat-backend/internal/service/history"
)

func main() {
	queueManager := queue.NewRequestQueueManager(32, 8)

	var hooks []chat.MessageHook

	if addr := env.Get(env.ChatRedisURL); addr != "" {
		hooks = append(hooks, chat.NewRedisBridge(addr, env.Get(env.ChatRedisPass)))
		log.Printf("Redis bridge enabled (%s)", addr)
	}

	var historyService *history.Service
	if table := env.Get(env.HistoryTable); table != "" {
		db, err := database.NewDatabase()
		if err != nil {
			log.Fatalf("db init failed: %v", err)
		}
		historyService = history.New(db)
		hooks = append(hooks, historyService.Hook())
		log.Printf("Message archive enabled (table %s)", table)
	}

	hub := chat.NewHub(chat.NewRegistry(), chat.NewDirectory(), hooks...)
	go hub.Run()

	server := api.NewAPIServer(
		env.GetOrDefault(env.ListenAddr, ":8080"),
		queueManager,
		hub,
		historyService,
		router.AuthRoutes("/api"),
		router.RoomRoutes("/api"),
		router.WebsocketRoutes(),
		router.UtilsRoutes("/api"),
	)

	server.Run()
}
