package app

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"

	"tournachain/internal/codec"
	"tournachain/internal/state"
)

func handleTournamentCreate(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentCreateTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/create value"))
	}
	if err := requireCreatorAuth(st, env); err != nil {
		return errTx(err)
	}
	if msg.EntryFee == 0 {
		return errTx(errorsmod.Wrap(ErrInvalidBuyInAmount, "entry fee must be positive"))
	}
	if msg.MaxPlayers < state.MinPlayers || msg.MaxPlayers > state.MaxPlayersLimit {
		return errTx(errorsmod.Wrapf(ErrInvalidMaxPlayers, "got %d, want %d..%d", msg.MaxPlayers, state.MinPlayers, state.MaxPlayersLimit))
	}
	if msg.MatchSize < state.MinPlayers || msg.MatchSize > msg.MaxPlayers {
		return errTx(errorsmod.Wrapf(ErrInvalidMatchSize, "got %d with max players %d", msg.MatchSize, msg.MaxPlayers))
	}
	if msg.OperatorFeeBps == 0 || msg.OperatorFeeBps > state.MaxOperatorFeeBps {
		return errTx(errorsmod.Wrapf(ErrOperatorFeeInvalid, "got %d bps, want 1..%d", msg.OperatorFeeBps, state.MaxOperatorFeeBps))
	}
	// Sum in uint32: the three uint16 splits may individually be large.
	if sum := uint32(msg.TournamentPrizeBps) + uint32(msg.MatchPrizeBps) + uint32(msg.OperatorFeeBps); sum != state.BpsDenominator {
		return errTx(errorsmod.Wrapf(ErrInvalidPercentages, "splits sum to %d bps", sum))
	}
	if msg.TournamentPrizeBps < state.MinTournamentPrizeBps {
		return errTx(errorsmod.Wrapf(ErrTournamentPrizeLow, "got %d bps, want >= %d", msg.TournamentPrizeBps, state.MinTournamentPrizeBps))
	}

	id := st.NextTournamentID
	st.NextTournamentID++
	st.Tournaments[id] = &state.Tournament{
		ID:                 id,
		Authority:          env.Signer,
		EntryFee:           msg.EntryFee,
		MaxPlayers:         msg.MaxPlayers,
		MatchSize:          msg.MatchSize,
		TournamentPrizeBps: msg.TournamentPrizeBps,
		MatchPrizeBps:      msg.MatchPrizeBps,
		OperatorFeeBps:     msg.OperatorFeeBps,
		Phase:              state.PhaseRegistration,
	}

	return okEvent(EventTypeTournamentCreated, map[string]string{
		"tournamentId":       fmt.Sprintf("%d", id),
		"entryFee":           fmt.Sprintf("%d", msg.EntryFee),
		"maxPlayers":         fmt.Sprintf("%d", msg.MaxPlayers),
		"matchSize":          fmt.Sprintf("%d", msg.MatchSize),
		"tournamentPrizeBps": fmt.Sprintf("%d", msg.TournamentPrizeBps),
		"matchPrizeBps":      fmt.Sprintf("%d", msg.MatchPrizeBps),
		"operatorFeeBps":     fmt.Sprintf("%d", msg.OperatorFeeBps),
		"authority":          env.Signer,
		"timestamp":          fmt.Sprintf("%d", now),
	})
}

func handleTournamentRegister(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentRegisterTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/register value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	// Registration is the player's own act: their signature is the
	// entry-fee payment capability.
	if err := requireAccountAuth(st, env, msg.Player); err != nil {
		return errTx(err)
	}
	if t.Phase != state.PhaseRegistration {
		return errTx(errorsmod.Wrapf(ErrInvalidPhase, "phase %s", t.Phase))
	}
	if t.CurrentPlayers() >= int(t.MaxPlayers) {
		return errTx(errorsmod.Wrapf(ErrTournamentFull, "%d players", t.MaxPlayers))
	}
	if t.IsParticipant(msg.Player) {
		return errTx(errorsmod.Wrapf(ErrAlreadyRegistered, "player %q", msg.Player))
	}

	if err := depositToEscrow(st, t.ID, msg.Player, t.EntryFee); err != nil {
		return errTx(err)
	}
	t.Participants = append(t.Participants, msg.Player)

	return okEvent(EventTypePlayerRegistered, map[string]string{
		"tournamentId":   fmt.Sprintf("%d", t.ID),
		"player":         msg.Player,
		"entryFee":       fmt.Sprintf("%d", t.EntryFee),
		"currentPlayers": fmt.Sprintf("%d", t.CurrentPlayers()),
		"timestamp":      fmt.Sprintf("%d", now),
	})
}

func validateSchedule(schedule []uint16, maxLen int, name string) error {
	if len(schedule) == 0 || len(schedule) > maxLen {
		return errorsmod.Wrapf(ErrInvalidPayoutCount, "%s schedule has %d entries, want 1..%d", name, len(schedule), maxLen)
	}
	var sum uint32
	for i, pct := range schedule {
		if pct == 0 || pct > state.BpsDenominator {
			return errorsmod.Wrapf(ErrInvalidPayoutPct, "%s schedule entry %d is %d bps", name, i, pct)
		}
		sum += uint32(pct)
	}
	if sum != state.BpsDenominator {
		return errorsmod.Wrapf(ErrInvalidPercentages, "%s schedule sums to %d bps", name, sum)
	}
	return nil
}

func handleTournamentStart(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentStartTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/start value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	if err := requireAuthorityAuth(st, env, t); err != nil {
		return errTx(err)
	}
	if t.Phase != state.PhaseRegistration {
		return errTx(errorsmod.Wrapf(ErrInvalidPhase, "phase %s", t.Phase))
	}
	if t.CurrentPlayers() == 0 {
		return errTx(errorsmod.Wrap(ErrNotEnoughPlayers, "no registered players"))
	}
	if err := validateSchedule(msg.PayoutPercentages, state.MaxPayoutPositions, "tournament payout"); err != nil {
		return errTx(err)
	}
	if len(msg.PayoutPercentages) > t.CurrentPlayers() {
		return errTx(errorsmod.Wrapf(ErrTooManyPayouts, "%d positions for %d players", len(msg.PayoutPercentages), t.CurrentPlayers()))
	}
	if err := validateSchedule(msg.MatchPayoutPercentages, state.MaxMatchPayoutEntries, "match payout"); err != nil {
		return errTx(err)
	}

	t.TournamentPayouts = msg.PayoutPercentages
	t.MatchPayoutPercentages = msg.MatchPayoutPercentages
	t.Phase = state.PhasePlaying

	return okEvent(EventTypeTournamentStarted, map[string]string{
		"tournamentId":    fmt.Sprintf("%d", t.ID),
		"currentPlayers":  fmt.Sprintf("%d", t.CurrentPlayers()),
		"payoutPositions": fmt.Sprintf("%d", len(t.TournamentPayouts)),
		"matchPositions":  fmt.Sprintf("%d", len(t.MatchPayoutPercentages)),
		"timestamp":       fmt.Sprintf("%d", now),
	})
}

func handleTournamentFinalize(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentFinalizeTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/finalize value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	if err := requireAuthorityAuth(st, env, t); err != nil {
		return errTx(err)
	}
	if t.Phase != state.PhasePlaying {
		return errTx(errorsmod.Wrapf(ErrInvalidPhase, "phase %s", t.Phase))
	}
	if err := validateWinners(t, msg.Winners, false); err != nil {
		return errTx(err)
	}

	totalBuyIns := totalEntryPool(t.CurrentPlayers(), t.EntryFee)
	pool, err := bpsAmount(totalBuyIns, uint32(t.TournamentPrizeBps))
	if err != nil {
		return errTx(err)
	}

	total, recipients, err := distributePositions(st, t, pool, t.TournamentPayouts, msg.Winners, msg.Accounts, false)
	if err != nil {
		return errTx(err)
	}
	t.Phase = state.PhaseFinalized

	return okEvent(EventTypeTournamentFinalized, map[string]string{
		"tournamentId":     fmt.Sprintf("%d", t.ID),
		"winners":          joinPlayers(recipients),
		"totalDistributed": total.String(),
		"timestamp":        fmt.Sprintf("%d", now),
	})
}

func handleTournamentDistributeMatch(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentDistributeMatchTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/distribute_match value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	if err := requireAuthorityAuth(st, env, t); err != nil {
		return errTx(err)
	}
	if t.Phase != state.PhaseFinalized {
		return errTx(errorsmod.Wrapf(ErrNotFinalized, "phase %s", t.Phase))
	}
	if t.HasPaidMatch(msg.MatchID) {
		return errTx(errorsmod.Wrapf(ErrMatchAlreadyPaid, "match %d", msg.MatchID))
	}
	if err := validateWinners(t, msg.Winners, true); err != nil {
		return errTx(err)
	}

	totalBuyIns := totalEntryPool(t.CurrentPlayers(), t.EntryFee)
	totalMatchPool, err := bpsAmount(totalBuyIns, uint32(t.MatchPrizeBps))
	if err != nil {
		return errTx(err)
	}

	// ceil(players / match size); cannot be zero while players > 0, but the
	// division below must never see a zero divisor.
	numMatches := (t.CurrentPlayers() + int(t.MatchSize) - 1) / int(t.MatchSize)
	if numMatches == 0 {
		return errTx(errorsmod.Wrap(ErrInvalidMatchCount, "zero matches"))
	}
	matchPool := totalMatchPool.Quo(sdkmath.NewInt(int64(numMatches)))
	if matchPool.IsZero() {
		return errTx(errorsmod.Wrapf(ErrNoMatchRewards, "match pool %s over %d matches", totalMatchPool, numMatches))
	}

	total, recipients, err := distributePositions(st, t, matchPool, t.MatchPayoutPercentages, msg.Winners, msg.Accounts, true)
	if err != nil {
		return errTx(err)
	}
	t.PaidMatchIDs = append(t.PaidMatchIDs, msg.MatchID)

	return okEvent(EventTypeMatchDistributed, map[string]string{
		"tournamentId":     fmt.Sprintf("%d", t.ID),
		"matchId":          fmt.Sprintf("%d", msg.MatchID),
		"winners":          joinPlayers(recipients),
		"totalDistributed": total.String(),
		"timestamp":        fmt.Sprintf("%d", now),
	})
}

func handleTournamentWithdrawFee(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentWithdrawFeeTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/withdraw_fee value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	if err := requireAuthorityAuth(st, env, t); err != nil {
		return errTx(err)
	}
	if t.Phase != state.PhaseFinalized {
		return errTx(errorsmod.Wrapf(ErrNotFinalized, "phase %s", t.Phase))
	}
	if t.OperatorFeeWithdrawn {
		return errTx(ErrFeeAlreadyWithdrawn)
	}
	if msg.Recipient == "" {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "missing fee recipient"))
	}

	totalBuyIns := totalEntryPool(t.CurrentPlayers(), t.EntryFee)
	fee, err := bpsAmount(totalBuyIns, uint32(t.OperatorFeeBps))
	if err != nil {
		return errTx(err)
	}
	paid, err := payFromEscrow(st, t.ID, msg.Recipient, fee)
	if err != nil {
		return errTx(err)
	}
	t.OperatorFeeWithdrawn = true

	return okEvent(EventTypeOperatorFeePaid, map[string]string{
		"tournamentId": fmt.Sprintf("%d", t.ID),
		"recipient":    msg.Recipient,
		"amount":       fmt.Sprintf("%d", paid),
		"timestamp":    fmt.Sprintf("%d", now),
	})
}

func handleTournamentCancel(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentCancelTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/cancel value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	if err := requireAuthorityAuth(st, env, t); err != nil {
		return errTx(err)
	}
	// Cancellation is only reachable from registration; a started tournament
	// can never be cancelled.
	if t.Phase != state.PhaseRegistration {
		return errTx(errorsmod.Wrapf(ErrAlreadyStarted, "phase %s", t.Phase))
	}
	t.Phase = state.PhaseCancelled

	return okEvent(EventTypeTournamentCancelled, map[string]string{
		"tournamentId": fmt.Sprintf("%d", t.ID),
		"timestamp":    fmt.Sprintf("%d", now),
	})
}

func handleTournamentRefund(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.TournamentRefundTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad tournament/refund value"))
	}
	t := st.Tournaments[msg.TournamentID]
	if t == nil {
		return errTx(errorsmod.Wrapf(ErrTournamentNotFound, "id %d", msg.TournamentID))
	}
	if err := requireAuthorityAuth(st, env, t); err != nil {
		return errTx(err)
	}
	if t.Phase != state.PhaseCancelled {
		return errTx(errorsmod.Wrapf(ErrNotCancelled, "phase %s", t.Phase))
	}
	if !t.IsParticipant(msg.Participant) {
		return errTx(errorsmod.Wrapf(ErrParticipantNotFound, "player %q", msg.Participant))
	}
	if t.IsRefunded(msg.Participant) {
		return errTx(errorsmod.Wrapf(ErrAlreadyRefunded, "player %q", msg.Participant))
	}

	paid, err := payFromEscrow(st, t.ID, msg.Participant, sdkmath.NewIntFromUint64(t.EntryFee))
	if err != nil {
		return errTx(err)
	}
	t.RefundedParticipants = append(t.RefundedParticipants, msg.Participant)

	return okEvent(EventTypeParticipantRefunded, map[string]string{
		"tournamentId": fmt.Sprintf("%d", t.ID),
		"participant":  msg.Participant,
		"amount":       fmt.Sprintf("%d", paid),
		"timestamp":    fmt.Sprintf("%d", now),
	})
}
