package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/drawing_board/internal/board"
	"github.com/relabs-tech/drawing_board/internal/config"
	"github.com/relabs-tech/drawing_board/internal/render"
)

// RunWeb bridges board snapshots from MQTT to browsers: a JSON API, a PNG
// plot, and a websocket that pushes every snapshot as it arrives.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu       sync.RWMutex
		lastSnap board.Snapshot
		haveSnap bool
	)

	upgrader := websocket.Upgrader{}
	var (
		clientsMu sync.Mutex
		clients   = map[*websocket.Conn]bool{}
	)

	// 1) Connect to the MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to snapshots, cache the latest, fan out to websockets
	token := client.Subscribe(cfg.TopicSnapshot, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s board.Snapshot
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: snapshot unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSnap = s
		haveSnap = true
		mu.Unlock()

		clientsMu.Lock()
		for conn := range clients {
			if err := conn.WriteMessage(websocket.TextMessage, msg.Payload()); err != nil {
				conn.Close()
				delete(clients, conn)
			}
		}
		clientsMu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicSnapshot)

	layout := render.Layout{
		Length:  cfg.WorkspaceLength,
		Breadth: cfg.WorkspaceBreadth,
		ScaleX:  cfg.ScaleLength,
		ScaleY:  cfg.ScaleBreadth,
	}

	// 3) JSON API: latest snapshot
	http.HandleFunc("/api/board", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSnap {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSnap); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) PNG plot of the latest snapshot
	http.HandleFunc("/api/board.png", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		snap, have := lastSnap, haveSnap
		mu.RUnlock()

		if !have {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		if err := render.WritePNG(w, snap, layout); err != nil {
			log.Printf("web: png render error: %v", err)
		}
	})

	// 5) Websocket push of every snapshot
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		clientsMu.Lock()
		clients[conn] = true
		clientsMu.Unlock()
	})

	// 6) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
