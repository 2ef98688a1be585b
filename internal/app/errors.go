package app

import errorsmod "cosmossdk.io/errors"

const errCodespace = "tournament"

// Sentinel errors for the tournament escrow state machine. Codes are stable:
// they surface as ABCI tx result codes.
var (
	ErrInvalidRequest       = errorsmod.Register(errCodespace, 1, "invalid request")
	ErrUnauthorized         = errorsmod.Register(errCodespace, 2, "unauthorized")
	ErrInvalidNonce         = errorsmod.Register(errCodespace, 3, "invalid tx nonce")
	ErrTournamentNotFound   = errorsmod.Register(errCodespace, 4, "tournament not found")
	ErrInvalidPhase         = errorsmod.Register(errCodespace, 5, "invalid tournament phase for this operation")
	ErrTournamentFull       = errorsmod.Register(errCodespace, 6, "tournament is full")
	ErrAlreadyRegistered    = errorsmod.Register(errCodespace, 7, "player has already registered for this tournament")
	ErrNotEnoughPlayers     = errorsmod.Register(errCodespace, 8, "not enough players to start the tournament")
	ErrInvalidBuyInAmount   = errorsmod.Register(errCodespace, 9, "invalid entry fee amount")
	ErrInvalidMaxPlayers    = errorsmod.Register(errCodespace, 10, "invalid max players")
	ErrInvalidMatchSize     = errorsmod.Register(errCodespace, 11, "invalid match size")
	ErrInvalidPercentages   = errorsmod.Register(errCodespace, 12, "invalid percentages, must sum to 100%")
	ErrTournamentPrizeLow   = errorsmod.Register(errCodespace, 13, "tournament prize percentage too low")
	ErrOperatorFeeInvalid   = errorsmod.Register(errCodespace, 14, "invalid operator fee percentage")
	ErrInvalidPayoutCount   = errorsmod.Register(errCodespace, 15, "invalid number of payout positions")
	ErrTooManyPayouts       = errorsmod.Register(errCodespace, 16, "too many payout positions")
	ErrInvalidPayoutPct     = errorsmod.Register(errCodespace, 17, "invalid payout percentage")
	ErrInvalidWinnerCount   = errorsmod.Register(errCodespace, 18, "invalid number of winners")
	ErrInvalidWinner        = errorsmod.Register(errCodespace, 19, "invalid winner entry")
	ErrWinnerNotParticipant = errorsmod.Register(errCodespace, 20, "winner is not a tournament participant")
	ErrMissingWinnerAccount = errorsmod.Register(errCodespace, 21, "missing winner account in provided accounts")
	ErrCalculationOverflow  = errorsmod.Register(errCodespace, 22, "calculation overflow")
	ErrNoMatchRewards       = errorsmod.Register(errCodespace, 23, "no rewards to distribute")
	ErrInvalidMatchCount    = errorsmod.Register(errCodespace, 24, "invalid match count")
	ErrMatchAlreadyPaid     = errorsmod.Register(errCodespace, 25, "match has already been paid")
	ErrNotFinalized         = errorsmod.Register(errCodespace, 26, "tournament must be finalized first")
	ErrFeeAlreadyWithdrawn  = errorsmod.Register(errCodespace, 27, "operator fee has already been withdrawn")
	ErrAlreadyStarted       = errorsmod.Register(errCodespace, 28, "tournament already started")
	ErrNotCancelled         = errorsmod.Register(errCodespace, 29, "tournament not cancelled")
	ErrParticipantNotFound  = errorsmod.Register(errCodespace, 30, "participant not found")
	ErrAlreadyRefunded      = errorsmod.Register(errCodespace, 31, "participant already refunded")
	ErrInsufficientFunds    = errorsmod.Register(errCodespace, 32, "insufficient funds")
)
