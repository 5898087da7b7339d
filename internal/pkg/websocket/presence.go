package websocket

import "sync"

// PresenceTracker records which users are currently present in which team
// rooms. It is an in-memory view rebuilt from connection activity and holds
// no persistent state.
type PresenceTracker struct {
	mu    sync.RWMutex
	rooms map[int64]map[int64]struct{}
}

// NewPresenceTracker creates an empty presence tracker
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		rooms: make(map[int64]map[int64]struct{}),
	}
}

// Add records a user as present in a team room
func (p *PresenceTracker) Add(teamID, userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.rooms[teamID]; !ok {
		p.rooms[teamID] = make(map[int64]struct{})
	}
	p.rooms[teamID][userID] = struct{}{}
}

// Remove removes a user from a team room. The room's entry is deleted when
// its member set becomes empty. Returns true if the user was present.
func (p *PresenceTracker) Remove(teamID, userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, ok := p.rooms[teamID]
	if !ok {
		return false
	}
	if _, present := users[userID]; !present {
		return false
	}

	delete(users, userID)
	if len(users) == 0 {
		delete(p.rooms, teamID)
	}
	return true
}

// List returns the users currently present in a team room
func (p *PresenceTracker) List(teamID int64) []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := make([]int64, 0, len(p.rooms[teamID]))
	for userID := range p.rooms[teamID] {
		users = append(users, userID)
	}
	return users
}

// TeamsOf returns every team room where the user is currently present
func (p *PresenceTracker) TeamsOf(userID int64) []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var teams []int64
	for teamID, users := range p.rooms {
		if _, present := users[userID]; present {
			teams = append(teams, teamID)
		}
	}
	return teams
}

// Count returns the number of users present in a team room
func (p *PresenceTracker) Count(teamID int64) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.rooms[teamID])
}
