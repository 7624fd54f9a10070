package engine

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tycopoly/tycopoly-backend/platform/board"
	"github.com/tycopoly/tycopoly-backend/platform/logging"
)

const (
	// BankID is the creditor/debtor sentinel for taxes and jail fees.
	BankID = 0
	// StartBonus is credited when a player completes a circuit past Start.
	StartBonus = 300
	// JailFee buys a player out of jail.
	JailFee = 200
	// StartingCash is each player's opening balance.
	StartingCash = 1500

	maxJailTurns = 3
	maxDoubles   = 3
)

// Player is a participant in one session. IDs are 1-based and stable for
// the session; 0 is reserved for the bank.
type Player struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Cash       int    `json:"money"`
	Position   int    `json:"position"`
	Properties []int  `json:"properties"`
	InJail     bool   `json:"inJail"`
	IsAI       bool   `json:"isAI,omitempty"`
}

// PendingDebt is a suspended obligation blocking normal turn progress.
type PendingDebt struct {
	Amount     int `json:"amount"`
	CreditorID int `json:"creditorId"`
}

// Snapshot is a complete, detached copy of session state. Observers may
// hold it indefinitely; it never aliases engine-owned data.
type Snapshot struct {
	Board            []board.Field `json:"board"`
	Players          []Player      `json:"players"`
	CurrentTurnIndex int           `json:"currentTurnIndex"`
	DoublesCount     int           `json:"doublesCount"`
	JailTurns        []int         `json:"jailTurns"`
	CircuitCompleted []bool        `json:"circuitCompleted"`
	PendingDebt      *PendingDebt  `json:"pendingDebt,omitempty"`
	ForcedSale       bool          `json:"forcedSale,omitempty"`
	CanRollDice      bool          `json:"canRollDice"`
	LastEvent        string        `json:"lastEvent,omitempty"`
}

// Session owns the authoritative state of one game. All mutation goes
// through its operations; each operation is atomic and returns a fresh
// Snapshot. One Session per room.
type Session struct {
	mu sync.Mutex

	board   []board.Field
	players []Player

	current   int
	doubles   int
	jailTurns []int
	circuit   []bool

	debt          *PendingDebt
	debtIsJailFee bool
	forcedSale    bool

	canRoll   bool
	lastEvent string

	log *logrus.Entry
}

// NewSession starts a game on the given board with the given players in
// fixed turn order.
func NewSession(fields []board.Field, players []Player) *Session {
	s := &Session{
		board:     append([]board.Field(nil), fields...),
		players:   make([]Player, len(players)),
		jailTurns: make([]int, len(players)),
		circuit:   make([]bool, len(players)),
		canRoll:   true,
		log:       logging.For("engine"),
	}
	for i, p := range players {
		p.Properties = append([]int(nil), p.Properties...)
		s.players[i] = p
	}
	return s
}

// AddPlayer appends a player to the turn order. Used by the transport
// adapter while a room fills up.
func (s *Session) AddPlayer(p Player) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == BankID {
		return s.snapshotLocked(), reject("invalid player id")
	}
	if s.playerIndexByIDLocked(p.ID) >= 0 {
		return s.snapshotLocked(), reject("player id %d already taken", p.ID)
	}
	p.Properties = append([]int(nil), p.Properties...)
	s.players = append(s.players, p)
	s.jailTurns = append(s.jailTurns, 0)
	s.circuit = append(s.circuit, false)
	s.event("%s joins the game", p.Name)
	return s.snapshotLocked(), nil
}

// RemovePlayer takes a player out of the rotation (disconnect in online
// mode). Their fields return to the bank unowned; a debt owed to them
// falls back to the bank.
func (s *Session) RemovePlayer(playerID int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.playerIndexByIDLocked(playerID)
	if idx < 0 {
		return s.snapshotLocked(), reject("no such player")
	}
	if s.debt != nil {
		if idx == s.current {
			s.clearDebtLocked()
		} else if s.debt.CreditorID == playerID {
			s.debt.CreditorID = BankID
		}
	}
	s.event("%s leaves the game", s.players[idx].Name)
	s.removePlayerLocked(idx)
	return s.snapshotLocked(), nil
}

// Snapshot returns a detached copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// CurrentPlayer returns a copy of the player whose turn it is.
func (s *Session) CurrentPlayer() (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.players) == 0 {
		return Player{}, false
	}
	p := s.players[s.current]
	p.Properties = append([]int(nil), p.Properties...)
	return p, true
}

// IsAITurn reports whether the current player is machine controlled.
func (s *Session) IsAITurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players) > 0 && s.players[s.current].IsAI
}

// PlayerCount returns the number of players still in the rotation.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// PlayerIndexByID maps a stable player id to its current turn-order index.
func (s *Session) PlayerIndexByID(playerID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.playerIndexByIDLocked(playerID)
	return idx, idx >= 0
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Board:            append([]board.Field(nil), s.board...),
		Players:          make([]Player, len(s.players)),
		CurrentTurnIndex: s.current,
		DoublesCount:     s.doubles,
		JailTurns:        append([]int(nil), s.jailTurns...),
		CircuitCompleted: append([]bool(nil), s.circuit...),
		ForcedSale:       s.forcedSale,
		CanRollDice:      s.canRoll,
		LastEvent:        s.lastEvent,
	}
	for i, p := range s.players {
		p.Properties = append([]int(nil), p.Properties...)
		snap.Players[i] = p
	}
	if s.debt != nil {
		d := *s.debt
		snap.PendingDebt = &d
	}
	return snap
}

func (s *Session) playerIndexByIDLocked(playerID int) int {
	for i := range s.players {
		if s.players[i].ID == playerID {
			return i
		}
	}
	return -1
}

func (s *Session) playerByIDLocked(playerID int) *Player {
	if idx := s.playerIndexByIDLocked(playerID); idx >= 0 {
		return &s.players[idx]
	}
	return nil
}

func (s *Session) fieldLocked(fieldID int) *board.Field {
	for i := range s.board {
		if s.board[i].ID == fieldID {
			return &s.board[i]
		}
	}
	return nil
}

// removePlayerLocked drops the player at idx, releases their holdings and
// keeps the turn pointer on a live player.
func (s *Session) removePlayerLocked(idx int) {
	id := s.players[idx].ID
	for i := range s.board {
		if s.board[i].Type == board.Property && s.board[i].OwnerID == id {
			s.board[i].OwnerID = 0
			s.board[i].Level = 0
		}
	}
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	s.jailTurns = append(s.jailTurns[:idx], s.jailTurns[idx+1:]...)
	s.circuit = append(s.circuit[:idx], s.circuit[idx+1:]...)

	if len(s.players) == 0 {
		s.current = 0
		s.canRoll = false
		return
	}
	if idx < s.current {
		s.current--
	} else if idx == s.current {
		// the next player in order now sits at the same index
		if s.current >= len(s.players) {
			s.current = 0
		}
		s.doubles = 0
		s.canRoll = true
	}
}

func (s *Session) openDebtLocked(amount, creditorID int, jailFee bool) {
	s.debt = &PendingDebt{Amount: amount, CreditorID: creditorID}
	s.debtIsJailFee = jailFee
	s.forcedSale = true
	s.canRoll = false
}

func (s *Session) clearDebtLocked() {
	s.debt = nil
	s.debtIsJailFee = false
	s.forcedSale = false
}

func (s *Session) sendToJailLocked(idx int) {
	s.players[idx].Position = board.JailFieldID
	s.players[idx].InJail = true
	s.jailTurns[idx] = 0
	s.doubles = 0
}

func (s *Session) event(format string, args ...interface{}) {
	s.lastEvent = fmt.Sprintf(format, args...)
	s.log.Debug(s.lastEvent)
}
