package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tycopoly/tycopoly-backend/platform/board"
)

// rentDebtSession puts player 1 (index 0) in debt to player 2 (index 1):
// the owner holds field 24 at level 2 (rent 60) and the debtor lands on it
// holding one cheap property and not enough cash.
func rentDebtSession(t *testing.T, debtorCash int) *Session {
	t.Helper()
	s := twoPlayers()
	_, err := s.BuyProperty(1, 24, 2)
	require.NoError(t, err)

	s.players[0].Cash = debtorCash + 60 // field 1 costs 60
	_, err = s.BuyProperty(0, 1, 0)
	require.NoError(t, err)

	s.canRoll = true
	s.players[0].Position = 18
	snap, err := s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)
	require.NotNil(t, snap.PendingDebt)
	return s
}

func TestForcedSaleThenPayDebt(t *testing.T) {
	s := rentDebtSession(t, 40)

	// not enough yet
	_, err := s.PayDebt()
	require.Error(t, err)
	assert.True(t, IsRejection(err))

	// selling during the forced-sale window is allowed
	snap, err := s.SellProperty(0, 1)
	require.NoError(t, err)
	require.Equal(t, 70, snap.Players[0].Cash)

	ownerCash := snap.Players[1].Cash
	snap, err = s.PayDebt()
	require.NoError(t, err)
	assert.Nil(t, snap.PendingDebt)
	assert.False(t, snap.ForcedSale)
	assert.Equal(t, 10, snap.Players[0].Cash)
	assert.Equal(t, ownerCash+60, snap.Players[1].Cash)
	assert.False(t, snap.CanRollDice, "settling a debt does not reopen the roll")

	_, err = s.EndTurn()
	require.NoError(t, err)
}

func TestEndTurnRejectedDuringDebt(t *testing.T) {
	s := rentDebtSession(t, 40)

	_, err := s.EndTurn()
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	assert.NotNil(t, s.Snapshot().PendingDebt)
}

func TestRollRejectedDuringDebt(t *testing.T) {
	s := rentDebtSession(t, 40)

	_, err := s.ApplyDiceRoll(0, 2, 3)
	require.Error(t, err)
	assert.True(t, IsRejection(err))
}

func TestPayDebtWithoutDebt(t *testing.T) {
	s := twoPlayers()
	_, err := s.PayDebt()
	require.Error(t, err)
	assert.True(t, IsRejection(err))
}

func TestJailFeeDebtReleasesOnPayment(t *testing.T) {
	s := twoPlayers()
	s.players[0].InJail = true
	s.players[0].Position = board.JailFieldID
	s.players[0].Cash = 100
	s.jailTurns[0] = 2
	_, err := s.BuyProperty(0, 24, 0)
	require.Error(t, err, "cannot afford setup purchase")

	s.players[0].Properties = []int{39}
	s.board[39].OwnerID = 1

	snap, err := s.ApplyDiceRoll(0, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, snap.PendingDebt)
	assert.Equal(t, BankID, snap.PendingDebt.CreditorID)

	_, err = s.SellProperty(0, 39)
	require.NoError(t, err)
	require.GreaterOrEqual(t, s.Snapshot().Players[0].Cash, JailFee)

	snap, err = s.PayDebt()
	require.NoError(t, err)
	assert.Nil(t, snap.PendingDebt)
	assert.False(t, snap.Players[0].InJail)
	assert.Equal(t, 0, snap.JailTurns[0])
}

func TestBankruptcyRemovesPlayer(t *testing.T) {
	s := newTestSession(
		Player{ID: 1, Name: "Ala", Cash: StartingCash},
		Player{ID: 2, Name: "Bartek", Cash: StartingCash},
		Player{ID: 3, Name: "Celina", Cash: StartingCash},
	)
	_, err := s.BuyProperty(1, 24, 2)
	require.NoError(t, err)

	s.canRoll = true
	s.players[0].Cash = 50
	s.players[0].Position = 18
	snap, err := s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)
	require.NotNil(t, snap.PendingDebt)

	// holdings remain? not here: straight to bankruptcy
	ownerCash := s.Snapshot().Players[1].Cash
	snap, err = s.DeclareBankrupt()
	require.NoError(t, err)
	assert.Len(t, snap.Players, 2)
	assert.Nil(t, snap.PendingDebt)
	assert.Equal(t, 0, snap.CurrentTurnIndex, "next player moved up in order")
	assert.Equal(t, 2, snap.Players[0].ID)
	assert.True(t, snap.CanRollDice)
	// the creditor collects what little cash was left
	assert.Equal(t, ownerCash+50, snap.Players[0].Cash)
}

func TestBankruptcyReleasesHoldings(t *testing.T) {
	s := twoPlayers()
	_, err := s.BuyProperty(1, 24, 2)
	require.NoError(t, err)

	s.canRoll = true
	s.players[0].Cash = 50
	s.players[0].Position = 18
	_, err = s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)

	// leave one holding: bankruptcy must be refused until it is sold
	s.players[0].Properties = []int{1}
	s.board[1].OwnerID = 1
	_, err = s.DeclareBankrupt()
	require.Error(t, err)
	assert.True(t, IsRejection(err))

	_, err = s.SellProperty(0, 1)
	require.NoError(t, err)
	// still short of 60 after the 30 refund? cash is 50+30=80, so the debt
	// is payable and bankruptcy is refused again
	_, err = s.DeclareBankrupt()
	require.Error(t, err)

	snap, err := s.PayDebt()
	require.NoError(t, err)
	assert.Nil(t, snap.PendingDebt)
}

func TestBankruptcyDeclaresWinner(t *testing.T) {
	s := rentDebtSession(t, 10)

	_, err := s.SellProperty(0, 1)
	require.NoError(t, err)
	// 10 + 30 refund < 60: exhausted and still short
	snap, err := s.DeclareBankrupt()
	require.NoError(t, err)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 2, snap.Players[0].ID)
	assert.Contains(t, snap.LastEvent, "wins")
}
