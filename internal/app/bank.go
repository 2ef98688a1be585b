package app

import (
	"bytes"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"tournachain/internal/codec"
	"tournachain/internal/state"
)

// handleBankMint credits freshly minted units. Localnet faucet: mint is
// unauthenticated, the same as genesis-funded balances.
func handleBankMint(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.BankMintTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad bank/mint value"))
	}
	if msg.To == "" || msg.Amount == 0 {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "missing to/amount"))
	}
	if err := st.Credit(msg.To, msg.Amount); err != nil {
		return errTx(errorsmod.Wrap(ErrCalculationOverflow, err.Error()))
	}
	return okEvent(EventTypeBankMinted, map[string]string{
		"to":        msg.To,
		"amount":    fmt.Sprintf("%d", msg.Amount),
		"timestamp": fmt.Sprintf("%d", now),
	})
}

func handleBankSend(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.BankSendTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad bank/send value"))
	}
	if msg.From == "" || msg.To == "" || msg.Amount == 0 {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "missing from/to/amount"))
	}
	if err := requireAccountAuth(st, env, msg.From); err != nil {
		return errTx(err)
	}
	if err := st.Debit(msg.From, msg.Amount); err != nil {
		return errTx(errorsmod.Wrap(ErrInsufficientFunds, err.Error()))
	}
	if err := st.Credit(msg.To, msg.Amount); err != nil {
		return errTx(errorsmod.Wrap(ErrCalculationOverflow, err.Error()))
	}
	return okEvent(EventTypeBankSent, map[string]string{
		"from":      msg.From,
		"to":        msg.To,
		"amount":    fmt.Sprintf("%d", msg.Amount),
		"timestamp": fmt.Sprintf("%d", now),
	})
}

func handleRegisterAccount(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	var msg codec.AuthRegisterAccountTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return errTx(errorsmod.Wrap(ErrInvalidRequest, "bad auth/register_account value"))
	}
	if err := requireRegisterAccountAuth(env, msg); err != nil {
		return errTx(err)
	}
	if existing := st.AccountKeys[msg.Account]; len(existing) > 0 && !bytes.Equal(existing, msg.PubKey) {
		return errTx(errorsmod.Wrapf(ErrUnauthorized, "account %q already has a registered key", msg.Account))
	}
	if err := consumeNonce(st, env); err != nil {
		return errTx(err)
	}
	st.AccountKeys[msg.Account] = msg.PubKey
	return okEvent(EventTypeAccountRegistered, map[string]string{
		"account":   msg.Account,
		"timestamp": fmt.Sprintf("%d", now),
	})
}
