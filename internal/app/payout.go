package app

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"tournachain/internal/codec"
	"tournachain/internal/state"
)

// validateWinners checks structure and participant membership for an ordered
// winner list before anything is paid. requireNonDefault additionally rejects
// empty player ids explicitly, which the match-distribution path does.
func validateWinners(t *state.Tournament, winners []codec.WinnerEntry, requireNonDefault bool) error {
	if len(winners) == 0 {
		return errorsmod.Wrap(ErrInvalidWinnerCount, "winner list is empty")
	}
	for i, w := range winners {
		if w.IsGroup() {
			if w.Player != "" {
				return errorsmod.Wrapf(ErrInvalidWinner, "winner %d mixes individual and group forms", i)
			}
			if len(w.Players) == 0 {
				return errorsmod.Wrapf(ErrInvalidWinnerCount, "winner group %d has no players", i)
			}
			if w.Positions == 0 {
				return errorsmod.Wrapf(ErrInvalidWinnerCount, "winner group %d consumes no positions", i)
			}
			for _, p := range w.Players {
				if requireNonDefault && p == "" {
					return errorsmod.Wrapf(ErrInvalidWinner, "winner group %d names an empty player", i)
				}
				if !t.IsParticipant(p) {
					return errorsmod.Wrapf(ErrWinnerNotParticipant, "player %q", p)
				}
			}
		} else {
			if requireNonDefault && w.Player == "" {
				return errorsmod.Wrapf(ErrInvalidWinner, "winner %d names an empty player", i)
			}
			if !t.IsParticipant(w.Player) {
				return errorsmod.Wrapf(ErrWinnerNotParticipant, "player %q", w.Player)
			}
		}
	}
	return nil
}

// resolveAccount finds the transfer destination for player among the accounts
// the caller provided with the operation.
func resolveAccount(accounts []string, player string) (string, error) {
	for _, a := range accounts {
		if a == player {
			return a, nil
		}
	}
	return "", errorsmod.Wrapf(ErrMissingWinnerAccount, "player %q", player)
}

// distributePositions walks the ordered winner list against a basis-point
// payout schedule, paying each consumed position out of the tournament's
// escrow. The position counter advances over individuals by one and over a
// tied group by the group's consumed position count. An individual whose
// position falls past the end of the schedule consumes the position but
// receives nothing. A tied group's combined amount is split evenly with the
// last player absorbing the integer-division remainder, so the combined
// amount is distributed exactly.
//
// Returns the total paid and the flattened recipient list in payout order.
func distributePositions(
	st *state.State,
	t *state.Tournament,
	pool sdkmath.Int,
	schedule []uint16,
	winners []codec.WinnerEntry,
	accounts []string,
	requirePositiveIndividual bool,
) (sdkmath.Int, []string, error) {
	position := 0
	total := sdkmath.ZeroInt()
	recipients := make([]string, 0, len(winners))

	for _, w := range winners {
		if !w.IsGroup() {
			if position < len(schedule) {
				amount, err := bpsAmount(pool, uint32(schedule[position]))
				if err != nil {
					return sdkmath.ZeroInt(), nil, err
				}
				if requirePositiveIndividual && amount.IsZero() {
					return sdkmath.ZeroInt(), nil, errorsmod.Wrapf(ErrNoMatchRewards, "position %d pays zero", position)
				}
				dest, err := resolveAccount(accounts, w.Player)
				if err != nil {
					return sdkmath.ZeroInt(), nil, err
				}
				if _, err := payFromEscrow(st, t.ID, dest, amount); err != nil {
					return sdkmath.ZeroInt(), nil, err
				}
				total = total.Add(amount)
			}
			recipients = append(recipients, w.Player)
			position++
			continue
		}

		// Positions past the schedule end contribute nothing to the combined
		// percentage but are still consumed.
		var combinedBps uint32
		for i := position; i < position+int(w.Positions); i++ {
			if i < len(schedule) {
				combinedBps += uint32(schedule[i])
			}
		}
		combined, err := bpsAmount(pool, combinedBps)
		if err != nil {
			return sdkmath.ZeroInt(), nil, err
		}

		perPlayer := combined.Quo(sdkmath.NewInt(int64(len(w.Players))))
		remaining := combined
		for idx, p := range w.Players {
			share := perPlayer
			if idx == len(w.Players)-1 {
				share = remaining
			}
			if share.IsZero() {
				return sdkmath.ZeroInt(), nil, errorsmod.Wrapf(ErrNoMatchRewards, "tied winner %q receives zero", p)
			}
			dest, err := resolveAccount(accounts, p)
			if err != nil {
				return sdkmath.ZeroInt(), nil, err
			}
			if _, err := payFromEscrow(st, t.ID, dest, share); err != nil {
				return sdkmath.ZeroInt(), nil, err
			}
			remaining = remaining.Sub(share)
			total = total.Add(share)
			recipients = append(recipients, p)
		}
		position += int(w.Positions)
	}

	// Sanity check, not redistribution: a schedule summing to 10000 can never
	// pay out more than the pool.
	if total.GT(pool) {
		return sdkmath.ZeroInt(), nil, errorsmod.Wrapf(ErrCalculationOverflow, "distributed %s exceeds pool %s", total, pool)
	}
	return total, recipients, nil
}
