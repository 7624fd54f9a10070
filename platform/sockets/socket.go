package sockets

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"

	"github.com/tycopoly/tycopoly-backend/app/models"
	"github.com/tycopoly/tycopoly-backend/platform/cache"
	"github.com/tycopoly/tycopoly-backend/platform/database"
	"github.com/tycopoly/tycopoly-backend/platform/engine"
	"github.com/tycopoly/tycopoly-backend/platform/logging"
)

var log = logging.For("sockets")

func parsePayload(jsonStr string) map[string]string {
	result := map[string]string{}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		log.WithError(err).Warn("malformed payload")
	}
	return result
}

func marshalState(snap engine.Snapshot) string {
	data, err := json.Marshal(snap)
	if err != nil {
		log.WithError(err).Error("failed marshaling snapshot")
		return "{}"
	}
	return string(data)
}

// CreateSocketIOServer runs the online-mode transport. Every room owns an
// independent engine session; this layer validates whose turn it is, routes
// actions into the session and broadcasts the resulting snapshots. It never
// mutates game state directly.
func CreateSocketIOServer() {
	server, err := socketio.NewServer(nil)
	if err != nil {
		log.WithError(err).Fatal("failed creating socket.io server")
	}

	db := database.PostgreSQLConnection()
	defer db.Close()

	pool := cache.CreateRedisPool()
	defer pool.Close()

	registry := NewRegistry()

	broadcastState := func(roomID string) func(engine.Snapshot) {
		return func(snap engine.Snapshot) {
			server.BroadcastToRoom("/", roomID, "game-state", marshalState(snap))
		}
	}

	// resolve finds the room and the seat behind a connection, surfacing
	// protocol errors to the requester only.
	resolve := func(s socketio.Conn, roomID string) (*Room, int, bool) {
		room, err := registry.Get(roomID)
		if err != nil {
			s.Emit("error-message", "Room not found")
			return nil, 0, false
		}
		playerID, ok := room.PlayerID(s.ID())
		if !ok {
			s.Emit("error-message", "You are not in this room")
			return nil, 0, false
		}
		idx, ok := room.Session().PlayerIndexByID(playerID)
		if !ok {
			s.Emit("error-message", "You are no longer in the game")
			return nil, 0, false
		}
		return room, idx, true
	}

	requireTurn := func(s socketio.Conn, room *Room, idx int) bool {
		if room.Session().Snapshot().CurrentTurnIndex != idx {
			s.Emit("error-message", "Not your turn")
			return false
		}
		return true
	}

	// apply runs an engine operation: rejections go back to the caller
	// only, anything else is broadcast.
	apply := func(s socketio.Conn, room *Room, op func() (engine.Snapshot, error)) {
		snap, err := op()
		if err != nil {
			if engine.IsRejection(err) {
				s.Emit("error-message", err.Error())
				return
			}
			log.WithError(err).Error("operation failed")
			return
		}
		broadcastState(room.ID)(snap)
		room.RunAITurns(broadcastState(room.ID))
	}

	trackPresence := func(roomID string, playerID int, name string) {
		conn := pool.Get()
		defer conn.Close()
		if err := cache.HSET("room."+roomID+".players", strconv.Itoa(playerID), name, &conn); err != nil {
			log.WithError(err).Warn("presence update failed")
		}
	}

	dropPresence := func(roomID string, playerID int) {
		conn := pool.Get()
		defer conn.Close()
		_ = cache.HDEL("room."+roomID+".players", strconv.Itoa(playerID), &conn)
	}

	discardRoom := func(roomID string) {
		registry.Remove(roomID)
		conn := pool.Get()
		defer conn.Close()
		_ = cache.Del("room."+roomID+".players", &conn)
		game := &models.Game{Id: roomID}
		if _, err := db.Model(game).WherePK().Delete(); err != nil {
			log.WithError(err).Warn("failed deleting game record")
		}
		log.WithField("room", roomID).Info("room discarded")
	}

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "create-room", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		name := result["player_name"]
		if name == "" {
			s.Emit("error-message", "Player name required")
			return
		}

		room, snap := registry.CreateRoom(name, s.ID())
		s.Join(room.ID)
		trackPresence(room.ID, 1, name)

		game := &models.Game{Id: room.ID, Name: name + "'s game", Status: models.GameStatusOpen, Type: "online"}
		if _, err := db.Model(game).Insert(); err != nil {
			log.WithError(err).Warn("failed recording game")
		}

		s.Emit("room-created", marshalRoom(room.ID, snap))
		log.WithField("room", room.ID).Info("room created")
	})

	server.OnEvent("/", "join-room", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, err := registry.Get(result["room_id"])
		if err != nil {
			s.Emit("error-message", "Room not found")
			return
		}
		name := result["player_name"]
		if name == "" {
			s.Emit("error-message", "Player name required")
			return
		}

		snap, playerID, err := room.Join(name, s.ID())
		if err == ErrRoomFull {
			s.Emit("error-message", "Room is full")
			return
		}
		if err != nil {
			s.Emit("error-message", err.Error())
			return
		}
		s.Join(room.ID)
		trackPresence(room.ID, playerID, name)

		s.Emit("room-joined", marshalRoom(room.ID, snap))
		server.BroadcastToRoom("/", room.ID, "player-joined", strconv.Itoa(playerID))
		broadcastState(room.ID)(snap)
	})

	server.OnEvent("/", "add-bot", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, _, ok := resolve(s, result["room_id"])
		if !ok {
			return
		}
		snap, err := room.AddBot()
		if err == ErrRoomFull {
			s.Emit("error-message", "Room is full")
			return
		}
		if err != nil {
			s.Emit("error-message", err.Error())
			return
		}
		broadcastState(room.ID)(snap)
		room.RunAITurns(broadcastState(room.ID))
	})

	server.OnEvent("/", "roll-dice", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok {
			return
		}
		diceA, errA := strconv.Atoi(result["dice_a"])
		diceB, errB := strconv.Atoi(result["dice_b"])
		if errA != nil || errB != nil {
			s.Emit("error-message", "Invalid dice values")
			return
		}
		apply(s, room, func() (engine.Snapshot, error) {
			return room.Session().ApplyDiceRoll(idx, diceA, diceB)
		})
	})

	server.OnEvent("/", "end-turn", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		apply(s, room, room.Session().EndTurn)
	})

	server.OnEvent("/", "buy-property", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		fieldID, err := strconv.Atoi(result["property_id"])
		if err != nil {
			s.Emit("error-message", "Invalid property id")
			return
		}
		level := 0
		if lv, err := strconv.Atoi(result["level"]); err == nil {
			level = lv
		}
		apply(s, room, func() (engine.Snapshot, error) {
			return room.Session().BuyProperty(idx, fieldID, level)
		})
	})

	server.OnEvent("/", "buy-house", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		fieldID, err := strconv.Atoi(result["property_id"])
		if err != nil {
			s.Emit("error-message", "Invalid property id")
			return
		}
		apply(s, room, func() (engine.Snapshot, error) {
			return room.Session().BuyHouse(idx, fieldID)
		})
	})

	server.OnEvent("/", "upgrade-property", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		fieldID, err := strconv.Atoi(result["property_id"])
		if err != nil {
			s.Emit("error-message", "Invalid property id")
			return
		}
		apply(s, room, func() (engine.Snapshot, error) {
			return room.Session().UpgradeProperty(idx, fieldID)
		})
	})

	server.OnEvent("/", "sell-property", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		fieldID, err := strconv.Atoi(result["property_id"])
		if err != nil {
			s.Emit("error-message", "Invalid property id")
			return
		}
		apply(s, room, func() (engine.Snapshot, error) {
			return room.Session().SellProperty(idx, fieldID)
		})
	})

	server.OnEvent("/", "pay-jail-fee", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok {
			return
		}
		apply(s, room, func() (engine.Snapshot, error) {
			return room.Session().PayJailFee(idx)
		})
	})

	server.OnEvent("/", "pay-debt", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		apply(s, room, room.Session().PayDebt)
	})

	server.OnEvent("/", "declare-bankrupt", func(s socketio.Conn, jsonStr string) {
		result := parsePayload(jsonStr)
		room, idx, ok := resolve(s, result["room_id"])
		if !ok || !requireTurn(s, room, idx) {
			return
		}
		apply(s, room, room.Session().DeclareBankrupt)
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.WithError(e).Warn("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		for _, roomID := range s.Rooms() {
			room, err := registry.Get(roomID)
			if err != nil {
				continue
			}
			playerID, snap, empty, err := room.Leave(s.ID())
			if err != nil {
				continue
			}
			dropPresence(roomID, playerID)
			server.BroadcastToRoom("/", roomID, "player-left", strconv.Itoa(playerID))
			if empty {
				discardRoom(roomID)
				continue
			}
			broadcastState(roomID)(snap)
			room.RunAITurns(broadcastState(roomID))
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowCredentials: true,
	})

	addr := os.Getenv("SOCKET_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	log.WithField("addr", addr).Info("socket server listening")
	if err := http.ListenAndServe(addr, c.Handler(mux)); err != nil {
		log.WithError(err).Fatal("socket server stopped")
	}
}

func marshalRoom(roomID string, snap engine.Snapshot) string {
	data, err := json.Marshal(struct {
		RoomID string         `json:"roomId"`
		State  json.RawMessage `json:"state"`
	}{RoomID: roomID, State: json.RawMessage(marshalState(snap))})
	if err != nil {
		return "{}"
	}
	return string(data)
}
