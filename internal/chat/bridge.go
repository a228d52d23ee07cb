package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisBridge returns a MessageHook that republishes every room message to
// the redis channel named after the room, so out-of-process consumers (bots,
// archivers, future web frontends) can follow a room without holding a
// websocket. Publish runs on its own goroutine; the hub loop never waits on
// redis.
func NewRedisBridge(addr, password string) MessageHook {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return func(room, username, message string, sentAt time.Time) {
		payload, err := json.Marshal(Envelope{
			Type:      TypeRoomMessage,
			Room:      room,
			Username:  username,
			Message:   message,
			Timestamp: sentAt.UnixMilli(),
		})
		if err != nil {
			log.Printf("Error marshaling bridge payload: %v", err)
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Publish(ctx, room, payload).Err(); err != nil {
				log.Printf("Error publishing to redis channel %q: %v", room, err)
			}
		}()
	}
}
