package engine

import (
	"github.com/tycopoly/tycopoly-backend/platform/board"
)

// ApplyDiceRoll resolves an already-settled dice pair for the player at
// playerIndex: jail sequencing, the speeding rule, movement with
// wraparound, the pass-Start bonus and landing effects. Physics, animation
// and the random source all live outside the engine.
func (s *Session) ApplyDiceRoll(playerIndex, diceA, diceB int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerIndex < 0 || playerIndex >= len(s.players) {
		return s.snapshotLocked(), reject("no such player")
	}
	if playerIndex != s.current {
		return s.snapshotLocked(), reject("not your turn")
	}
	if s.debt != nil {
		return s.snapshotLocked(), reject("settle your debt before rolling")
	}
	if !s.canRoll {
		return s.snapshotLocked(), reject("you have already rolled the dice")
	}
	if diceA < 1 || diceA > 6 || diceB < 1 || diceB > 6 {
		return s.snapshotLocked(), reject("invalid dice values")
	}

	isDoubles := diceA == diceB
	sum := diceA + diceB
	p := &s.players[playerIndex]

	if p.InJail {
		if isDoubles {
			p.InJail = false
			s.jailTurns[playerIndex] = 0
			s.event("%s rolls doubles and leaves jail", p.Name)
		} else {
			s.jailTurns[playerIndex]++
			if s.jailTurns[playerIndex] < maxJailTurns {
				s.event("%s stays in jail (turn %d/%d)", p.Name, s.jailTurns[playerIndex], maxJailTurns)
				s.canRoll = false
				return s.snapshotLocked(), nil
			}
			// third failed roll, the fee is due
			if p.Cash < JailFee {
				s.openDebtLocked(JailFee, BankID, true)
				s.event("%s cannot afford the $%d jail fee", p.Name, JailFee)
				return s.snapshotLocked(), nil
			}
			p.Cash -= JailFee
			p.InJail = false
			s.jailTurns[playerIndex] = 0
			s.event("%s pays the $%d jail fee and moves", p.Name, JailFee)
		}
	}

	if isDoubles {
		s.doubles++
	} else {
		s.doubles = 0
	}
	if s.doubles >= maxDoubles {
		// speeding: straight to jail, no movement
		s.sendToJailLocked(playerIndex)
		s.canRoll = false
		s.event("Third doubles in a row! %s goes to jail", p.Name)
		return s.snapshotLocked(), nil
	}

	newPosition := (p.Position + sum) % board.Size
	if newPosition < p.Position {
		// wrapped past Start; landing effects are not evaluated this step
		p.Position = newPosition
		p.Cash += StartBonus
		s.circuit[playerIndex] = true
		s.canRoll = isDoubles
		s.event("%s passes Start and collects $%d", p.Name, StartBonus)
		return s.snapshotLocked(), nil
	}

	p.Position = newPosition
	field := &s.board[newPosition]
	switch {
	case field.Type == board.GoToJail:
		s.sendToJailLocked(playerIndex)
		s.canRoll = false
		s.event("%s landed on Go To Jail", p.Name)

	case field.Type == board.Property && field.OwnerID != 0 && field.OwnerID != p.ID:
		owner := s.playerByIDLocked(field.OwnerID)
		if owner == nil {
			s.canRoll = isDoubles
			break
		}
		rent := field.Rent * board.RentMultiplier(field.Level)
		if p.Cash < rent {
			s.openDebtLocked(rent, owner.ID, false)
			s.event("%s cannot afford the $%d rent for %s", p.Name, rent, field.Name)
			break
		}
		p.Cash -= rent
		owner.Cash += rent
		s.canRoll = isDoubles
		s.event("%s pays $%d rent to %s for %s", p.Name, rent, owner.Name, field.Name)

	default:
		// unowned property or a field with no movement effect; any buy
		// decision is a separate operation by the caller
		s.canRoll = isDoubles
	}
	return s.snapshotLocked(), nil
}

// EndTurn advances the rotation. It is rejected while a debt is pending so
// a suspended turn cannot be abandoned.
func (s *Session) EndTurn() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) == 0 {
		return s.snapshotLocked(), reject("no players in the game")
	}
	if s.debt != nil {
		return s.snapshotLocked(), reject("settle your debt before ending the turn")
	}
	s.current = (s.current + 1) % len(s.players)
	s.doubles = 0
	s.lastEvent = ""
	s.canRoll = true
	return s.snapshotLocked(), nil
}

// PayJailFee is the voluntary buy-out outside the roll flow. Short cash
// opens the forced-sale window instead of paying.
func (s *Session) PayJailFee(playerIndex int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerIndex < 0 || playerIndex >= len(s.players) {
		return s.snapshotLocked(), reject("no such player")
	}
	if playerIndex != s.current {
		return s.snapshotLocked(), reject("not your turn")
	}
	if s.debt != nil {
		return s.snapshotLocked(), reject("settle your debt first")
	}
	p := &s.players[playerIndex]
	if !p.InJail {
		return s.snapshotLocked(), reject("%s is not in jail", p.Name)
	}
	if p.Cash < JailFee {
		s.openDebtLocked(JailFee, BankID, true)
		s.event("%s cannot afford the $%d jail fee", p.Name, JailFee)
		return s.snapshotLocked(), nil
	}
	p.Cash -= JailFee
	p.InJail = false
	s.jailTurns[playerIndex] = 0
	s.event("%s pays $%d and leaves jail", p.Name, JailFee)
	return s.snapshotLocked(), nil
}
