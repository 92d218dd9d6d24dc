package handler_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio/site/internal/hub"
)

func TestStreamEvents_UnknownTopic(t *testing.T) {
	r, _ := setupRouter(t)
	if w := do(r, http.MethodGet, "/api/v1/events/lobbies", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStreamEvents_DeliversBroadcasts(t *testing.T) {
	r, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events/projects", nil)
		if err != nil {
			return
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GlobalHub.Subscribers(hub.TopicProjects) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.GlobalHub.Broadcast(hub.TopicProjects, hub.Event{Type: "project.created", Payload: map[string]string{"slug": "alpha"}})

	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed before the event arrived")
			}
			if strings.HasPrefix(line, "data:") && strings.Contains(line, "project.created") {
				cancel()
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}
