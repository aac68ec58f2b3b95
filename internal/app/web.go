// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/liquid_gauge/internal/config"
	"github.com/relabs-tech/liquid_gauge/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins for local preview use
	},
}

// frameHub stores the latest frame payload and fans it out to connected
// websocket clients.
type frameHub struct {
	mu      sync.RWMutex
	latest  []byte
	clients map[*websocket.Conn]bool
}

func newFrameHub() *frameHub {
	return &frameHub{clients: make(map[*websocket.Conn]bool)}
}

func (h *frameHub) publish(payload []byte) {
	h.mu.Lock()
	h.latest = payload
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debugf("web: websocket write error, dropping client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
	h.mu.Unlock()
}

func (h *frameHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	if h.latest != nil {
		conn.WriteMessage(websocket.TextMessage, h.latest)
	}
	h.mu.Unlock()
}

func (h *frameHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// RunWeb subscribes to the frame topic and serves the latest frame over
// HTTP JSON plus a websocket stream for live previews.
func RunWeb() error {
	cfg := config.Get()

	hub := newFrameHub()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("web: MQTT connect: %w", token.Error())
	}
	log.Infof("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Subscribe to the frame topic ----
	token := client.Subscribe(cfg.TopicFrame, 0, func(_ mqtt.Client, msg mqtt.Message) {
		// validate geometry before fanning out to browsers
		var p render.Payload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Warnf("web: frame unmarshal error: %v", err)
			return
		}
		if _, ok := render.FromPayload(p); !ok {
			log.Warnf("web: dropping frame with bad geometry %dx%d", p.W, p.H)
			return
		}
		hub.publish(msg.Payload())
	})
	if token.Wait(); token.Error() != nil {
		return token.Error()
	}
	log.Infof("web: subscribed to %s", cfg.TopicFrame)

	// ---- 3) HTTP endpoints ----
	http.HandleFunc("/api/frame", func(w http.ResponseWriter, r *http.Request) {
		hub.mu.RLock()
		latest := hub.latest
		hub.mu.RUnlock()

		if latest == nil {
			http.Error(w, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(latest)
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("web: websocket upgrade error: %v", err)
			return
		}
		hub.add(conn)
		log.Debugf("web: websocket client connected from %s", r.RemoteAddr)

		// read loop only to notice the close
		go func() {
			defer hub.remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						log.Debugf("web: websocket error: %v", err)
					}
					return
				}
			}
		}()
	})

	// ---- 4) Static files as the root ----
	http.Handle("/", http.FileServer(http.Dir(cfg.WebStaticDir)))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Infof("web: listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
