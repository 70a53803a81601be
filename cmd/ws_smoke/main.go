package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	flag.Parse()
	logger.Init("info", "text")

	base := "http://" + *addr
	email := fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())

	var auth struct {
		Token string `json:"token"`
	}
	if err := postJSON(base+"/register", "", map[string]string{"email": email, "password": "smoke-password"}, http.StatusCreated, &auth); err != nil {
		logger.Fatal("register failed", "error", err)
	}
	logger.Info("registered", "email", email)

	wsURL := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: "token=" + url.QueryEscape(auth.Token)}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		logger.Fatal("dial failed", "error", err)
	}
	defer conn.Close()

	// ready handshake
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		logger.Fatal("no ready message", "error", err)
	}

	var task domain.Task
	if err := postJSON(base+"/tasks", auth.Token, map[string]string{"title": "smoke task"}, http.StatusCreated, &task); err != nil {
		logger.Fatal("create task failed", "error", err)
	}
	logger.Info("task created", "task_id", task.ID)

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var ev domain.TaskEvent
	if err := conn.ReadJSON(&ev); err != nil {
		logger.Fatal("no task event", "error", err)
	}
	if ev.Type != domain.EventTaskCreated || ev.Task.ID != task.ID {
		logger.Fatal("unexpected event", "type", ev.Type, "task_id", ev.Task.ID)
	}

	logger.Info("smoke test finished", "event", ev.Type)
}

func postJSON(u, token string, body any, want int, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("%s: status %d", u, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
