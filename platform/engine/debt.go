package engine

// PayDebt settles the pending obligation of the current player. Jail-fee
// debts paid to the bank also release the player from jail. The roll gate
// stays closed; the turn still has to be ended.
func (s *Session) PayDebt() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debt == nil {
		return s.snapshotLocked(), reject("no debt to settle")
	}
	debtor := &s.players[s.current]
	if debtor.Cash < s.debt.Amount {
		return s.snapshotLocked(), reject("%s still cannot cover the $%d debt", debtor.Name, s.debt.Amount)
	}

	amount := s.debt.Amount
	debtor.Cash -= amount
	if s.debt.CreditorID == BankID {
		if s.debtIsJailFee && debtor.InJail {
			debtor.InJail = false
			s.jailTurns[s.current] = 0
			s.event("%s pays $%d and leaves jail", debtor.Name, amount)
		} else {
			s.event("%s pays $%d to the bank", debtor.Name, amount)
		}
	} else if creditor := s.playerByIDLocked(s.debt.CreditorID); creditor != nil {
		creditor.Cash += amount
		s.event("%s pays $%d rent to %s", debtor.Name, amount, creditor.Name)
	} else {
		// creditor left the game; the bank collects
		s.event("%s pays $%d to the bank", debtor.Name, amount)
	}
	s.clearDebtLocked()
	return s.snapshotLocked(), nil
}

// DeclareBankrupt ends the game for the current player once their holdings
// are exhausted and the pending debt still cannot be covered. Remaining
// cash goes to a player creditor; fields return to the bank unowned and
// the rotation moves on. A single surviving player wins.
func (s *Session) DeclareBankrupt() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debt == nil {
		return s.snapshotLocked(), reject("no debt outstanding")
	}
	idx := s.current
	debtor := &s.players[idx]
	if len(debtor.Properties) > 0 {
		return s.snapshotLocked(), reject("%s still has holdings to sell", debtor.Name)
	}
	if debtor.Cash >= s.debt.Amount {
		return s.snapshotLocked(), reject("%s can cover the debt", debtor.Name)
	}

	if s.debt.CreditorID != BankID {
		if creditor := s.playerByIDLocked(s.debt.CreditorID); creditor != nil {
			creditor.Cash += debtor.Cash
			debtor.Cash = 0
		}
	}
	name := debtor.Name
	s.clearDebtLocked()
	s.removePlayerLocked(idx)
	if len(s.players) == 1 {
		s.event("%s is bankrupt! %s wins the game", name, s.players[0].Name)
	} else {
		s.event("%s is bankrupt and leaves the game", name)
	}
	return s.snapshotLocked(), nil
}
