package app

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"tournachain/internal/state"
)

var bpsDenominator = sdkmath.NewInt(state.BpsDenominator)

// totalEntryPool is entry fee × registered player count. Computed as a wide
// integer; callers narrow back to uint64 only at the transfer boundary.
func totalEntryPool(players int, entryFee uint64) sdkmath.Int {
	return sdkmath.NewInt(int64(players)).Mul(sdkmath.NewIntFromUint64(entryFee))
}

// bpsAmount is total × bps / 10000. A computed share larger than the total it
// was cut from means the basis points were out of range; reject rather than
// overdraw the pool.
func bpsAmount(total sdkmath.Int, bps uint32) (sdkmath.Int, error) {
	amount := total.Mul(sdkmath.NewIntFromUint64(uint64(bps))).Quo(bpsDenominator)
	if amount.GT(total) {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrCalculationOverflow, "share %s exceeds pool %s", amount, total)
	}
	return amount, nil
}

// amountToUint64 narrows a pool amount to the transferable unit width.
func amountToUint64(amount sdkmath.Int, field string) (uint64, error) {
	if amount.IsNegative() || !amount.IsUint64() {
		return 0, errorsmod.Wrapf(ErrCalculationOverflow, "%s does not fit in uint64", field)
	}
	return amount.Uint64(), nil
}
