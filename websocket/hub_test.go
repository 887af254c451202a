package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{send: make(chan Notification, 4)}
	b := &Client{send: make(chan Notification, 4)}
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.NotifyPostDeleted("42")
	for _, c := range []*Client{a, b} {
		select {
		case n := <-c.send:
			if n.Type != NotificationTypePostDeleted {
				t.Errorf("type = %q", n.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
	}

	hub.Unregister(a)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, open := <-a.send; open {
		t.Error("unregistered client channel still open")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	slow := &Client{send: make(chan Notification)} // never read
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.NotifyPostDeleted("1")
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHandleWebSocket(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	e := echo.New()
	e.GET("/api/ws", func(c echo.Context) error { return HandleWebSocket(c, hub) })
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var n Notification
	if err := conn.ReadJSON(&n); err != nil || n.Type != NotificationTypeConnected {
		t.Fatalf("first message = %+v, %v", n, err)
	}

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.NotifyPostCreated(models.PostSummary{Post: models.Post{ID: "7", Title: "New flow"}})

	var created struct {
		Type string             `json:"type"`
		Data models.PostSummary `json:"data"`
	}
	if err := conn.ReadJSON(&created); err != nil {
		t.Fatal(err)
	}
	if created.Type != NotificationTypePostCreated || created.Data.ID != "7" {
		t.Errorf("broadcast = %+v", created)
	}
}
