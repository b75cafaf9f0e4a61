/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait = 5 * time.Second
	streamBuffer    = 64
)

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans probe outcomes out to websocket subscribers. A subscriber whose
// buffer is full misses messages; the engine is never held up.
type Hub struct {
	mu       sync.Mutex
	clients  map[*streamClient]struct{}
	closed   bool
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*streamClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// OnOutcome broadcasts one outcome as a TargetStatus JSON message.
func (h *Hub) OnOutcome(out models.ProbeOutcome) {
	msg, err := json.Marshal(targetStatus(&out))
	if err != nil {
		log.Printf("Error encoding stream event: %v", err)

		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// ServeHTTP upgrades the request and streams until the client goes away or
// the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Stream upgrade failed: %v", err)

		return
	}

	c := &streamClient{conn: conn, send: make(chan []byte, streamBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()

		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.readLoop(c)

	h.writeLoop(c)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) remove(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readLoop only watches for the client closing the connection.
func (h *Hub) readLoop(c *streamClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)

			return
		}
	}
}

func (h *Hub) writeLoop(c *streamClient) {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
			h.remove(c)

			return
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)

			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
		time.Now().Add(streamWriteWait))
}
