package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/imu_recorder/internal/config"
	"github.com/relabs-tech/imu_recorder/internal/record"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// webState holds the latest record and the live websocket clients.
type webState struct {
	mu         sync.RWMutex
	lastRecord record.Record
	haveRecord bool
	received   uint64

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

func (s *webState) update(r record.Record) {
	s.mu.Lock()
	s.lastRecord = r
	s.haveRecord = true
	s.received++
	s.mu.Unlock()
}

func (s *webState) broadcast(payload []byte) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// RunWeb serves the latest record as JSON plus a websocket live stream.
func RunWeb() error {
	cfg := config.Get()

	state := &webState{clients: make(map[*websocket.Conn]bool)}

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the live record topic
	token := client.Subscribe(cfg.TopicRecord, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r record.Record
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("web: record unmarshal error: %v", err)
			return
		}
		state.update(r)
		state.broadcast(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicRecord)

	// 3) JSON API endpoint: latest record snapshot
	http.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		state.mu.RLock()
		defer state.mu.RUnlock()

		if !state.haveRecord {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := struct {
			Record   record.Record `json:"record"`
			Received uint64        `json:"received"`
		}{state.lastRecord, state.received}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket live stream
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		state.clientsMu.Lock()
		state.clients[conn] = true
		state.clientsMu.Unlock()
		log.Printf("web: websocket client connected from %s", r.RemoteAddr)
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
