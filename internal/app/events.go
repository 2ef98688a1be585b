package app

import (
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"
)

// Event types emitted by successful operations.
const (
	EventTypeBankMinted        = "BankMinted"
	EventTypeBankSent          = "BankSent"
	EventTypeAccountRegistered = "AccountRegistered"

	EventTypeTournamentCreated   = "TournamentCreated"
	EventTypePlayerRegistered    = "PlayerRegistered"
	EventTypeTournamentStarted   = "TournamentStarted"
	EventTypeTournamentFinalized = "TournamentFinalized"
	EventTypeMatchDistributed    = "MatchRewardsDistributed"
	EventTypeOperatorFeePaid     = "OperatorFeeWithdrawn"
	EventTypeTournamentCancelled = "TournamentCancelled"
	EventTypeParticipantRefunded = "ParticipantRefunded"
)

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{ev},
	}
}

// errTx converts a handler error into a failed tx result, carrying the
// registered codespace and code when the error is a sentinel.
func errTx(err error) *abci.ExecTxResult {
	space, code, log := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Code: code, Codespace: space, Log: log}
}

func joinPlayers(players []string) string {
	return strings.Join(players, ",")
}
