package sockets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tycopoly/tycopoly-backend/pkg"
	"github.com/tycopoly/tycopoly-backend/platform/ai"
	"github.com/tycopoly/tycopoly-backend/platform/board"
	"github.com/tycopoly/tycopoly-backend/platform/engine"
)

const (
	// MaxRoomPlayers caps a room at four seats, bots included.
	MaxRoomPlayers = 4
	// RoomIDLength is the size of the alphanumeric room code.
	RoomIDLength = 6

	botTurnDelay = 1500 * time.Millisecond
)

var playerColors = []string{"#ef4444", "#3b82f6", "#22c55e", "#f59e0b"}

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
)

func newPlayer(id int, name string) engine.Player {
	return engine.Player{
		ID:         id,
		Name:       name,
		Color:      playerColors[(id-1)%len(playerColors)],
		Cash:       engine.StartingCash,
		Properties: []int{},
	}
}

// Room ties one engine session to its connected sockets. The session is
// the single writer for game state; the room only tracks seat bookkeeping
// and the AI orchestration loop.
type Room struct {
	ID string

	mu      sync.Mutex
	session *engine.Session
	nextID  int
	conns   map[string]int // socket id -> player id
	aiBusy  bool

	runner *ai.Runner
	ctx    context.Context
	cancel context.CancelFunc
}

// Registry owns all live rooms. Each room is an independent session; there
// is no shared game state between rooms.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// CreateRoom opens a room with the creator seated as player 1. Room ids
// are random with no collision check.
func (r *Registry) CreateRoom(playerName, socketID string) (*Room, engine.Snapshot) {
	session := engine.NewSession(board.Generate(), []engine.Player{newPlayer(1, playerName)})
	ctx, cancel := context.WithCancel(context.Background())
	room := &Room{
		ID:      pkg.RandString(RoomIDLength),
		session: session,
		nextID:  1,
		conns:   map[string]int{socketID: 1},
		runner:  ai.NewRunner(session, ai.NewPolicy(nil), nil, botTurnDelay),
		ctx:     ctx,
		cancel:  cancel,
	}
	r.mu.Lock()
	r.rooms[room.ID] = room
	r.mu.Unlock()
	return room, session.Snapshot()
}

// Get resolves a room id.
func (r *Registry) Get(roomID string) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove discards a room and revokes any in-flight AI turn.
func (r *Registry) Remove(roomID string) {
	r.mu.Lock()
	room, ok := r.rooms[roomID]
	delete(r.rooms, roomID)
	r.mu.Unlock()
	if ok {
		room.cancel()
	}
}

// Len reports the number of live rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Session exposes the room's engine session.
func (room *Room) Session() *engine.Session {
	return room.session
}

// Join seats a new player. Seat order is join order.
func (room *Room) Join(playerName, socketID string) (engine.Snapshot, int, error) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.session.PlayerCount() >= MaxRoomPlayers {
		return room.session.Snapshot(), 0, ErrRoomFull
	}
	room.nextID++
	id := room.nextID
	snap, err := room.session.AddPlayer(newPlayer(id, playerName))
	if err != nil {
		return snap, 0, err
	}
	room.conns[socketID] = id
	return snap, id, nil
}

// AddBot seats an AI player.
func (room *Room) AddBot() (engine.Snapshot, error) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.session.PlayerCount() >= MaxRoomPlayers {
		return room.session.Snapshot(), ErrRoomFull
	}
	room.nextID++
	bot := newPlayer(room.nextID, fmt.Sprintf("Bot %d", room.nextID))
	bot.IsAI = true
	return room.session.AddPlayer(bot)
}

// Leave unseats the player behind socketID. The second return is the
// snapshot after removal, the bool reports whether the room is now empty
// of human players.
func (room *Room) Leave(socketID string) (int, engine.Snapshot, bool, error) {
	room.mu.Lock()
	defer room.mu.Unlock()

	playerID, ok := room.conns[socketID]
	if !ok {
		return 0, room.session.Snapshot(), false, errors.New("socket not seated")
	}
	delete(room.conns, socketID)
	snap, err := room.session.RemovePlayer(playerID)
	return playerID, snap, len(room.conns) == 0, err
}

// PlayerID maps a socket to its seat.
func (room *Room) PlayerID(socketID string) (int, bool) {
	room.mu.Lock()
	defer room.mu.Unlock()
	id, ok := room.conns[socketID]
	return id, ok
}

// RunAITurns drains consecutive bot turns in the background, broadcasting
// after each one. A second call while a drain is running is a no-op; the
// loop stops when the room is discarded.
func (room *Room) RunAITurns(broadcast func(engine.Snapshot)) {
	room.mu.Lock()
	if room.aiBusy || !room.session.IsAITurn() {
		room.mu.Unlock()
		return
	}
	room.aiBusy = true
	room.mu.Unlock()

	go func() {
		defer func() {
			room.mu.Lock()
			room.aiBusy = false
			room.mu.Unlock()
		}()
		for room.session.IsAITurn() {
			if err := room.runner.PlayTurn(room.ctx); err != nil {
				return
			}
			broadcast(room.session.Snapshot())
		}
	}()
}
