package app

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"tournachain/internal/state"
)

// EscrowAccount names the vault account pooling a tournament's entry fees.
// These are the only two functions that move value into or out of a vault,
// and handlers call them strictly after all validation for the operation
// has passed.
func EscrowAccount(tournamentID uint64) string {
	return fmt.Sprintf("escrow/tournament/%d", tournamentID)
}

func depositToEscrow(st *state.State, tournamentID uint64, player string, amount uint64) error {
	if err := st.Debit(player, amount); err != nil {
		return errorsmod.Wrap(ErrInsufficientFunds, err.Error())
	}
	if err := st.Credit(EscrowAccount(tournamentID), amount); err != nil {
		return errorsmod.Wrap(ErrCalculationOverflow, err.Error())
	}
	return nil
}

func payFromEscrow(st *state.State, tournamentID uint64, dest string, amount sdkmath.Int) (uint64, error) {
	u, err := amountToUint64(amount, "escrow payout")
	if err != nil {
		return 0, err
	}
	if err := st.Debit(EscrowAccount(tournamentID), u); err != nil {
		return 0, errorsmod.Wrap(ErrInsufficientFunds, err.Error())
	}
	if err := st.Credit(dest, u); err != nil {
		return 0, errorsmod.Wrap(ErrCalculationOverflow, err.Error())
	}
	return u, nil
}
