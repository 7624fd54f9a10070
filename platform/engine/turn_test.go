package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tycopoly/tycopoly-backend/platform/board"
)

func newTestSession(players ...Player) *Session {
	return NewSession(board.Generate(), players)
}

func twoPlayers() *Session {
	return newTestSession(
		Player{ID: 1, Name: "Ala", Color: "#ef4444", Cash: StartingCash},
		Player{ID: 2, Name: "Bartek", Color: "#3b82f6", Cash: StartingCash},
	)
}

func TestDoublesStreakSendsToJail(t *testing.T) {
	s := twoPlayers()

	snap, err := s.ApplyDiceRoll(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.DoublesCount)
	assert.True(t, snap.CanRollDice)

	snap, err = s.ApplyDiceRoll(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.DoublesCount)
	assert.True(t, snap.CanRollDice)

	snap, err = s.ApplyDiceRoll(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.DoublesCount)
	assert.Equal(t, board.JailFieldID, snap.Players[0].Position)
	assert.True(t, snap.Players[0].InJail)
	assert.False(t, snap.CanRollDice)
	// speeding skips movement entirely: position 4 + 2 would be 6
	assert.NotEqual(t, 6, snap.Players[0].Position)
}

func TestPassStartBonus(t *testing.T) {
	s := twoPlayers()
	s.players[0].Position = 38

	snap, err := s.ApplyDiceRoll(0, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Players[0].Position)
	assert.Equal(t, StartingCash+StartBonus, snap.Players[0].Cash)
	assert.True(t, snap.CircuitCompleted[0])
	assert.False(t, snap.CanRollDice)
}

func TestWrapSkipsLandingEffects(t *testing.T) {
	s := twoPlayers()
	// second player owns field 1; a wrapping roll that lands there must
	// grant the bonus and charge no rent
	_, err := s.BuyProperty(1, 1, 0)
	require.NoError(t, err)
	ownerCash := s.players[1].Cash

	s.canRoll = true
	s.players[0].Position = 39
	snap, err := s.ApplyDiceRoll(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Players[0].Position)
	assert.Equal(t, StartingCash+StartBonus, snap.Players[0].Cash)
	assert.Equal(t, ownerCash, snap.Players[1].Cash)
	assert.Nil(t, snap.PendingDebt)
	assert.True(t, snap.CanRollDice, "doubles still grant another roll on a wrap")
}

func TestEndTurnTwiceAdvancesByTwo(t *testing.T) {
	s := newTestSession(
		Player{ID: 1, Name: "Ala", Cash: StartingCash},
		Player{ID: 2, Name: "Bartek", Cash: StartingCash},
		Player{ID: 3, Name: "Celina", Cash: StartingCash},
	)

	snap, err := s.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentTurnIndex)

	snap, err = s.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.CurrentTurnIndex)
	assert.True(t, snap.CanRollDice)
	assert.Equal(t, 0, snap.DoublesCount)
	assert.Empty(t, snap.LastEvent)
}

func TestJailStayAndRelease(t *testing.T) {
	s := twoPlayers()
	s.players[0].InJail = true
	s.players[0].Position = board.JailFieldID

	// first failed roll
	snap, err := s.ApplyDiceRoll(0, 2, 5)
	require.NoError(t, err)
	assert.True(t, snap.Players[0].InJail)
	assert.Equal(t, 1, snap.JailTurns[0])
	assert.Equal(t, board.JailFieldID, snap.Players[0].Position)
	assert.False(t, snap.CanRollDice)

	_, err = s.EndTurn()
	require.NoError(t, err)
	_, err = s.EndTurn()
	require.NoError(t, err)

	// doubles release and move the full sum
	snap, err = s.ApplyDiceRoll(0, 3, 3)
	require.NoError(t, err)
	assert.False(t, snap.Players[0].InJail)
	assert.Equal(t, 0, snap.JailTurns[0])
	assert.Equal(t, board.JailFieldID+6, snap.Players[0].Position)
}

func TestThirdJailTurnPaysFee(t *testing.T) {
	s := twoPlayers()
	s.players[0].InJail = true
	s.players[0].Position = board.JailFieldID
	s.jailTurns[0] = 2

	snap, err := s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)
	assert.False(t, snap.Players[0].InJail)
	assert.Equal(t, StartingCash-JailFee, snap.Players[0].Cash)
	assert.Equal(t, board.JailFieldID+6, snap.Players[0].Position)
	assert.Equal(t, 0, snap.JailTurns[0])
}

func TestThirdJailTurnWithoutCashOpensDebt(t *testing.T) {
	s := twoPlayers()
	s.players[0].InJail = true
	s.players[0].Position = board.JailFieldID
	s.players[0].Cash = 150
	s.jailTurns[0] = 2

	snap, err := s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)
	require.NotNil(t, snap.PendingDebt)
	assert.Equal(t, JailFee, snap.PendingDebt.Amount)
	assert.Equal(t, BankID, snap.PendingDebt.CreditorID)
	assert.True(t, snap.ForcedSale)
	assert.False(t, snap.CanRollDice)
	assert.True(t, snap.Players[0].InJail, "release only happens once the fee is paid")
	assert.Equal(t, 150, snap.Players[0].Cash)
}

func TestGoToJailLanding(t *testing.T) {
	s := twoPlayers()
	s.players[0].Position = 25

	snap, err := s.ApplyDiceRoll(0, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, board.JailFieldID, snap.Players[0].Position)
	assert.True(t, snap.Players[0].InJail)
	assert.False(t, snap.CanRollDice)
	assert.Equal(t, 0, snap.DoublesCount)
}

func TestRentTransfer(t *testing.T) {
	s := twoPlayers()
	_, err := s.BuyProperty(1, 24, 0) // base rent 20
	require.NoError(t, err)
	ownerCash := s.players[1].Cash

	s.canRoll = true
	s.players[0].Position = 18
	snap, err := s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 24, snap.Players[0].Position)
	assert.Equal(t, StartingCash-20, snap.Players[0].Cash)
	assert.Equal(t, ownerCash+20, snap.Players[1].Cash)
	assert.Nil(t, snap.PendingDebt)
	assert.False(t, snap.CanRollDice)
}

func TestRentBeyondCashOpensDebt(t *testing.T) {
	s := twoPlayers()
	// owner holds field 24 (base rent 20) at level 2: rent 20*3 = 60
	_, err := s.BuyProperty(1, 24, 2)
	require.NoError(t, err)
	ownerCash := s.players[1].Cash

	s.canRoll = true
	s.players[0].Position = 18
	s.players[0].Cash = 50
	snap, err := s.ApplyDiceRoll(0, 2, 4)
	require.NoError(t, err)
	require.NotNil(t, snap.PendingDebt)
	assert.Equal(t, 60, snap.PendingDebt.Amount)
	assert.Equal(t, 2, snap.PendingDebt.CreditorID)
	assert.False(t, snap.CanRollDice)
	assert.Equal(t, 50, snap.Players[0].Cash, "no partial transfer")
	assert.Equal(t, ownerCash, snap.Players[1].Cash)
}

func TestHotelRentUsesTopMultiplier(t *testing.T) {
	s := twoPlayers()
	s.circuit[1] = true
	_, err := s.BuyProperty(1, 3, 3) // brown, base rent 4
	require.NoError(t, err)
	_, err = s.UpgradeProperty(1, 3)
	require.NoError(t, err)
	require.Equal(t, board.MaxLevel, s.board[3].Level)
	ownerCash := s.players[1].Cash
	payerCash := s.players[0].Cash

	s.canRoll = true
	snap, err := s.ApplyDiceRoll(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Players[0].Position)
	assert.Equal(t, payerCash-4*5, snap.Players[0].Cash)
	assert.Equal(t, ownerCash+4*5, snap.Players[1].Cash)
}

func TestRollRejections(t *testing.T) {
	s := twoPlayers()

	_, err := s.ApplyDiceRoll(1, 2, 3)
	require.Error(t, err)
	assert.True(t, IsRejection(err))

	_, err = s.ApplyDiceRoll(0, 0, 3)
	require.Error(t, err)
	assert.True(t, IsRejection(err))

	_, err = s.ApplyDiceRoll(5, 2, 3)
	require.Error(t, err)
	assert.True(t, IsRejection(err))

	// a non-doubles roll closes the gate
	_, err = s.ApplyDiceRoll(0, 2, 3)
	require.NoError(t, err)
	_, err = s.ApplyDiceRoll(0, 2, 3)
	require.Error(t, err)
	assert.True(t, IsRejection(err))
}

func TestPayJailFee(t *testing.T) {
	s := twoPlayers()
	s.players[0].InJail = true
	s.players[0].Position = board.JailFieldID
	s.jailTurns[0] = 1

	snap, err := s.PayJailFee(0)
	require.NoError(t, err)
	assert.False(t, snap.Players[0].InJail)
	assert.Equal(t, StartingCash-JailFee, snap.Players[0].Cash)
	assert.Equal(t, 0, snap.JailTurns[0])

	_, err = s.PayJailFee(0)
	require.Error(t, err)
	assert.True(t, IsRejection(err))
}

func TestPayJailFeeShortCashOpensDebt(t *testing.T) {
	s := twoPlayers()
	s.players[0].InJail = true
	s.players[0].Position = board.JailFieldID
	s.players[0].Cash = 120

	snap, err := s.PayJailFee(0)
	require.NoError(t, err)
	require.NotNil(t, snap.PendingDebt)
	assert.Equal(t, JailFee, snap.PendingDebt.Amount)
	assert.Equal(t, BankID, snap.PendingDebt.CreditorID)
	assert.True(t, snap.Players[0].InJail)
	assert.False(t, snap.CanRollDice)
}
