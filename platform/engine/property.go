package engine

import (
	"github.com/tycopoly/tycopoly-backend/platform/board"
)

// BuyProperty purchases an unowned field, optionally pre-improved up to
// level 3. Level 3 requires a completed circuit. Buying closes the decision
// window for the turn.
func (s *Session) BuyProperty(playerIndex, fieldID, level int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerIndex < 0 || playerIndex >= len(s.players) {
		return s.snapshotLocked(), reject("no such player")
	}
	if s.debt != nil {
		return s.snapshotLocked(), reject("settle your debt before buying")
	}
	field := s.fieldLocked(fieldID)
	if field == nil || field.Type != board.Property {
		return s.snapshotLocked(), reject("field cannot be bought")
	}
	if field.OwnerID != 0 {
		return s.snapshotLocked(), reject("%s is already owned", field.Name)
	}
	if level < 0 || level > 3 {
		return s.snapshotLocked(), reject("invalid improvement level")
	}
	if level == 3 && !s.circuit[playerIndex] {
		return s.snapshotLocked(), reject("complete a full circuit before buying level 3")
	}

	p := &s.players[playerIndex]
	total := field.Price
	for l := 1; l <= level; l++ {
		total += board.ImprovementCost(field.Color, l)
	}
	if p.Cash < total {
		return s.snapshotLocked(), reject("not enough money to buy %s", field.Name)
	}

	p.Cash -= total
	p.Properties = append(p.Properties, field.ID)
	field.OwnerID = p.ID
	field.Level = level
	s.canRoll = false
	s.event("%s buys %s at level %d for $%d", p.Name, field.Name, level, total)
	return s.snapshotLocked(), nil
}

// BuyHouse raises an owned field by one improvement level. Requires the
// whole color group (monopoly rule); reaching level 3 additionally requires
// a completed circuit. Hotels go through UpgradeProperty.
func (s *Session) BuyHouse(playerIndex, fieldID int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerIndex < 0 || playerIndex >= len(s.players) {
		return s.snapshotLocked(), reject("no such player")
	}
	if s.debt != nil {
		return s.snapshotLocked(), reject("settle your debt before building")
	}
	p := &s.players[playerIndex]
	field := s.fieldLocked(fieldID)
	if field == nil || field.Type != board.Property {
		return s.snapshotLocked(), reject("field cannot be improved")
	}
	if field.OwnerID != p.ID {
		return s.snapshotLocked(), reject("you do not own %s", field.Name)
	}
	for _, f := range board.Group(s.board, field.Color) {
		if f.OwnerID != p.ID {
			return s.snapshotLocked(), reject("you must own every %s field to build", field.Color)
		}
	}
	if field.Level >= 3 {
		return s.snapshotLocked(), reject("%s is at level 3; buy a hotel instead", field.Name)
	}
	if field.Level == 2 && !s.circuit[playerIndex] {
		return s.snapshotLocked(), reject("complete a full circuit before building level 3")
	}

	cost := board.ImprovementCost(field.Color, field.Level+1)
	if p.Cash < cost {
		return s.snapshotLocked(), reject("not enough money to improve %s", field.Name)
	}
	p.Cash -= cost
	field.Level++
	s.event("%s improves %s to level %d for $%d", p.Name, field.Name, field.Level, cost)
	return s.snapshotLocked(), nil
}

// UpgradeProperty converts a level-3 field into a hotel.
func (s *Session) UpgradeProperty(playerIndex, fieldID int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerIndex < 0 || playerIndex >= len(s.players) {
		return s.snapshotLocked(), reject("no such player")
	}
	if s.debt != nil {
		return s.snapshotLocked(), reject("settle your debt before building")
	}
	p := &s.players[playerIndex]
	field := s.fieldLocked(fieldID)
	if field == nil || field.Type != board.Property || field.OwnerID != p.ID {
		return s.snapshotLocked(), reject("you do not own this field")
	}
	if field.Level != 3 {
		return s.snapshotLocked(), reject("%s must be at level 3 to buy a hotel", field.Name)
	}

	cost := board.ImprovementCost(field.Color, board.MaxLevel)
	if p.Cash < cost {
		return s.snapshotLocked(), reject("not enough money for a hotel on %s", field.Name)
	}
	p.Cash -= cost
	field.Level = board.MaxLevel
	s.event("%s builds a hotel on %s for $%d", p.Name, field.Name, cost)
	return s.snapshotLocked(), nil
}

// SellProperty liquidates a field back to the bank: half the base price
// plus half of every improvement level bought. Always clears ownership and
// improvements entirely; partial sales are not supported. Selling is the
// one transaction permitted during a forced-sale window.
func (s *Session) SellProperty(playerIndex, fieldID int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerIndex < 0 || playerIndex >= len(s.players) {
		return s.snapshotLocked(), reject("no such player")
	}
	p := &s.players[playerIndex]
	field := s.fieldLocked(fieldID)
	if field == nil || field.Type != board.Property || field.OwnerID != p.ID {
		return s.snapshotLocked(), reject("you do not own this field")
	}

	refund := field.Price / 2
	for l := 1; l <= field.Level; l++ {
		refund += board.ImprovementCost(field.Color, l) / 2
	}
	p.Cash += refund
	for i, id := range p.Properties {
		if id == field.ID {
			p.Properties = append(p.Properties[:i], p.Properties[i+1:]...)
			break
		}
	}
	field.OwnerID = 0
	field.Level = 0
	s.event("%s sells %s for $%d", p.Name, field.Name, refund)
	return s.snapshotLocked(), nil
}
