package websocket

import (
	"log"
	"sync"

	"github.com/quizsecure/quizsecure/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Monitor is a live proctoring viewer (normally the quiz creator)
// watching the red-flag stream of one submission.
type Monitor struct {
	SubmissionID uuid.UUID
	Conn         *websocket.Conn
}

type FlagPayload struct {
	FlagType string `json:"flag_type"`
}

var monitors = make(map[uuid.UUID]map[*websocket.Conn]bool)
var monitorsMu sync.RWMutex
var Register = make(chan *Monitor)
var Unregister = make(chan *Monitor)
var Flags = make(chan *models.RedFlag)

func init() {
	go RunHub()
}

func RunHub() {
	for {
		select {
		case monitor := <-Register:
			monitorsMu.Lock()
			if monitors[monitor.SubmissionID] == nil {
				monitors[monitor.SubmissionID] = make(map[*websocket.Conn]bool)
			}
			monitors[monitor.SubmissionID][monitor.Conn] = true
			monitorsMu.Unlock()
			log.Printf("Monitor registered for submission %s", monitor.SubmissionID)
		case monitor := <-Unregister:
			monitorsMu.Lock()
			if conns, ok := monitors[monitor.SubmissionID]; ok {
				delete(conns, monitor.Conn)
				if len(conns) == 0 {
					delete(monitors, monitor.SubmissionID)
				}
			}
			monitorsMu.Unlock()
			log.Printf("Monitor unregistered for submission %s", monitor.SubmissionID)
		case flag := <-Flags:
			monitorsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(monitors[flag.SubmissionID]))
			for conn := range monitors[flag.SubmissionID] {
				conns = append(conns, conn)
			}
			monitorsMu.RUnlock()

			for _, conn := range conns {
				if err := conn.WriteJSON(flag); err != nil {
					log.Printf("Error relaying flag to monitor: %v", err)
					conn.Close()
					monitorsMu.Lock()
					if set, ok := monitors[flag.SubmissionID]; ok {
						delete(set, conn)
					}
					monitorsMu.Unlock()
				}
			}
		}
	}
}

// BroadcastFlag relays a freshly recorded red flag to every monitor of
// its submission without blocking the caller's request.
func BroadcastFlag(flag *models.RedFlag) {
	go func() { Flags <- flag }()
}
