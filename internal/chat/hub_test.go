package chat

import (
	"testing"
)

// addClient wires a client straight into the hub's state the way the register
// branch of Run does, without a real websocket connection.
func addClient(t *testing.T, hub *Hub, id, username string) *Client {
	t.Helper()
	client := newClient(nil, id, username, "tok-"+id)
	hub.clients[id] = client
	if err := hub.router.Connect(id, username, client.Token); err != nil {
		t.Fatalf("connect %s: %v", id, err)
	}
	drain(client)
	return client
}

func drain(client *Client) {
	for {
		select {
		case <-client.send:
		default:
			return
		}
	}
}

func TestHubSendToUnknownConnection(t *testing.T) {
	hub := NewHub(NewRegistry(), NewDirectory())

	if hub.SendTo("nobody", &Envelope{Type: TypeWelcome}) {
		t.Fatal("send to unknown connection must report failure")
	}
}

func TestHubSendToDelivers(t *testing.T) {
	hub := NewHub(NewRegistry(), NewDirectory())
	client := addClient(t, hub, "c1", "alice")

	if !hub.SendTo("c1", &Envelope{Type: TypeWelcome, Message: "hi"}) {
		t.Fatal("expected delivery to succeed")
	}
	envelope := <-client.send
	if envelope.Message != "hi" {
		t.Fatalf("unexpected envelope: %#v", envelope)
	}
}

func TestHubMarksSlowConnectionDead(t *testing.T) {
	hub := NewHub(NewRegistry(), NewDirectory())
	addClient(t, hub, "c1", "alice")

	// Fill the send buffer so the next delivery has nowhere to go.
	for i := 0; i < sendBufferSize; i++ {
		if !hub.SendTo("c1", &Envelope{Type: TypeRoomMessage, Message: "x"}) {
			t.Fatalf("fill send %d unexpectedly failed", i)
		}
	}

	if hub.SendTo("c1", &Envelope{Type: TypeRoomMessage, Message: "overflow"}) {
		t.Fatal("send past a full buffer must fail")
	}
	if len(hub.dead) != 1 || hub.dead[0] != "c1" {
		t.Fatalf("connection should be marked dead, got %v", hub.dead)
	}
}

func TestHubReapDeadCleansUp(t *testing.T) {
	registry := NewRegistry()
	directory := NewDirectory()
	hub := NewHub(registry, directory)

	addClient(t, hub, "c1", "alice")
	c2 := addClient(t, hub, "c2", "bob")
	hub.router.HandleFrame("c1", &Frame{Type: TypeJoinRoom, Data: []byte(`"general"`)})
	hub.router.HandleFrame("c2", &Frame{Type: TypeJoinRoom, Data: []byte(`"general"`)})
	drain(c2)

	hub.dead = append(hub.dead, "c1")
	hub.reapDead()

	if _, found := hub.clients["c1"]; found {
		t.Fatal("dead client must be removed from the hub")
	}
	if _, err := registry.Lookup("c1"); err == nil {
		t.Fatal("dead client session must be unregistered")
	}
	if got := directory.ListRooms()[0].MemberCount; got != 1 {
		t.Fatalf("expected 1 remaining member, got %d", got)
	}

	// The survivor heard about the departure.
	envelope := <-c2.send
	if envelope.Type != TypeUserLeft || envelope.Username != "alice" {
		t.Fatalf("expected user_left for alice, got %#v", envelope)
	}
}

func TestHubReapDeadCascades(t *testing.T) {
	registry := NewRegistry()
	directory := NewDirectory()
	hub := NewHub(registry, directory)

	addClient(t, hub, "c1", "alice")
	addClient(t, hub, "c2", "bob")
	hub.router.HandleFrame("c1", &Frame{Type: TypeJoinRoom, Data: []byte(`"general"`)})
	hub.router.HandleFrame("c2", &Frame{Type: TypeJoinRoom, Data: []byte(`"general"`)})

	// Filling c2's buffer marks it dead; reaping must then handle both it and
	// c1 in a single pass without recursing.
	for hub.SendTo("c2", &Envelope{Type: TypeRoomMessage, Message: "x"}) {
	}

	hub.dead = append(hub.dead, "c1")
	hub.reapDead()

	if len(hub.clients) != 0 {
		t.Fatalf("expected both clients reaped, %d left", len(hub.clients))
	}
	if directory.RoomCount() != 0 {
		t.Fatalf("expected all rooms pruned, got %d", directory.RoomCount())
	}
}

func TestHubRoomInfos(t *testing.T) {
	hub := NewHub(NewRegistry(), NewDirectory())
	addClient(t, hub, "c1", "alice")
	addClient(t, hub, "c2", "bob")
	hub.router.HandleFrame("c1", &Frame{Type: TypeJoinRoom, Data: []byte(`"general"`)})
	hub.router.HandleFrame("c2", &Frame{Type: TypeJoinRoom, Data: []byte(`"general"`)})

	infos := hub.RoomInfos()
	if len(infos) != 1 {
		t.Fatalf("expected 1 room, got %d", len(infos))
	}
	if infos[0].Name != "general" || infos[0].MemberCount != 2 {
		t.Fatalf("unexpected info: %#v", infos[0])
	}
	if len(infos[0].Members) != 2 {
		t.Fatalf("expected 2 member names, got %v", infos[0].Members)
	}
}
