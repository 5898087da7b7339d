package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and the mapping from team rooms
// to the clients currently joined to them
type Hub struct {
	// All connected clients
	clients map[*Client]bool

	// Clients organized by team room
	rooms map[int64]map[*Client]bool

	// Register requests from new connections
	register chan *Client

	// Unregister requests from closing connections
	unregister chan *Client

	// Mutex for concurrent access to clients and rooms maps
	mu sync.RWMutex

	// Logger for hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and removals
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient registers a new client connection
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

// unregisterClient removes a client connection from the hub and any room
// it was joined to
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	for teamID, members := range h.rooms {
		if _, ok := members[client]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, teamID)
			}
		}
	}
	close(client.send)

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client unregistered")
}

// JoinRoom adds a client to a team room
func (h *Hub) JoinRoom(teamID int64, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[teamID]; !ok {
		h.rooms[teamID] = make(map[*Client]bool)
	}
	h.rooms[teamID][client] = true
}

// LeaveRoom removes a client from a team room
func (h *Hub) LeaveRoom(teamID int64, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[teamID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, teamID)
		}
	}
}

// BroadcastToTeam sends raw event data to every client joined to a team room
func (h *Hub) BroadcastToTeam(teamID int64, data []byte) {
	h.broadcast(teamID, data, nil)
}

// BroadcastToTeamExcept sends raw event data to every client in a team room
// except the given one
func (h *Hub) BroadcastToTeamExcept(teamID int64, data []byte, except *Client) {
	h.broadcast(teamID, data, except)
}

func (h *Hub) broadcast(teamID int64, data []byte, except *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[teamID]
	if !ok {
		h.logger.Debug().
			Int64("teamID", teamID).
			Msg("No clients in room for broadcast")
		return
	}

	for client := range members {
		if client == except {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, drop the event rather than
			// block the whole room
			h.logger.Warn().
				Int64("userID", client.userID).
				Int64("teamID", teamID).
				Msg("Dropped event for slow client")
		}
	}
}

// RoomSize returns the number of connections joined to a team room
func (h *Hub) RoomSize(teamID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[teamID])
}
