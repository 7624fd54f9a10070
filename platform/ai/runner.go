package ai

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tycopoly/tycopoly-backend/platform/engine"
	"github.com/tycopoly/tycopoly-backend/platform/logging"
)

// Runner plays out AI turns against a session using only the engine's
// public operations. Thinking/dice pacing is plain timer delays so a whole
// turn can be revoked through the context when the session ends.
type Runner struct {
	session *engine.Session
	policy  *Policy
	rng     *rand.Rand
	delay   time.Duration
	log     *logrus.Entry
}

// NewRunner wires a runner to a session. delay paces each visible action;
// rng rolls the dice (nil gets a time-seeded source).
func NewRunner(session *engine.Session, policy *Policy, rng *rand.Rand, delay time.Duration) *Runner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Runner{
		session: session,
		policy:  policy,
		rng:     rng,
		delay:   delay,
		log:     logging.For("ai"),
	}
}

// PlayTurn rolls, resolves any debt, makes the buy decision and ends the
// turn, re-rolling on doubles. It returns early when ctx is cancelled.
func (r *Runner) PlayTurn(ctx context.Context) error {
	if !r.session.IsAITurn() {
		return nil
	}
	for {
		if err := r.pause(ctx); err != nil {
			return err
		}
		snap := r.session.Snapshot()
		idx := snap.CurrentTurnIndex
		if !snap.CanRollDice {
			break
		}

		diceA, diceB := r.rng.Intn(6)+1, r.rng.Intn(6)+1
		snap, err := r.session.ApplyDiceRoll(idx, diceA, diceB)
		if err != nil {
			return err
		}
		r.log.WithFields(logrus.Fields{
			"dice":   []int{diceA, diceB},
			"player": snap.Players[idx].Name,
		}).Debug("ai rolled")

		if snap.PendingDebt != nil {
			removed, err := r.settleDebt(ctx, idx)
			if err != nil {
				return err
			}
			if removed {
				// bankrupt: the rotation has already moved on
				return nil
			}
			break
		}

		if field := snap.Board[snap.Players[idx].Position]; r.policy.ShouldBuy(snap, idx, field) {
			if _, err := r.session.BuyProperty(idx, field.ID, 0); err != nil {
				r.log.WithError(err).Debug("buy skipped")
			}
		}
		for _, fieldID := range r.policy.BuildTargets(r.session.Snapshot(), idx) {
			if _, err := r.session.BuyHouse(idx, fieldID); err != nil {
				break
			}
		}

		if !r.session.Snapshot().CanRollDice {
			break
		}
		// doubles: roll again
	}
	_, err := r.session.EndTurn()
	return err
}

// settleDebt liquidates holdings in policy order until the debt is covered,
// then pays it; with nothing left to sell it declares bankruptcy. Returns
// true when the player went bankrupt.
func (r *Runner) settleDebt(ctx context.Context, idx int) (bool, error) {
	for {
		snap := r.session.Snapshot()
		if snap.PendingDebt == nil {
			return false, nil
		}
		if snap.Players[idx].Cash >= snap.PendingDebt.Amount {
			_, err := r.session.PayDebt()
			return false, err
		}
		order := r.policy.SaleOrder(snap, idx)
		if len(order) == 0 {
			_, err := r.session.DeclareBankrupt()
			return err == nil, err
		}
		if err := r.pause(ctx); err != nil {
			return false, err
		}
		if _, err := r.session.SellProperty(idx, order[0]); err != nil {
			return false, err
		}
	}
}

func (r *Runner) pause(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
