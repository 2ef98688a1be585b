package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the v1 transaction container.
//
// CometBFT transactions are opaque bytes. We use JSON-encoded txs; this is
// NOT a final wire protocol, but it keeps the escrow logic independent of
// the encoding.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Tx auth:
	// - Nonce: included in the signed message for replay protection (must increase per signer).
	// - Signer: logical signer account.
	// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ---- Bank ----

type BankMintTx struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type BankSendTx struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// ---- Auth ----

// Account pubkey registration for tx authentication.
type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Tournament ----

// WinnerEntry is one entry in an ordered winner list: either an individual
// winner (Player set) or a group of tied winners sharing Positions ranked
// payout positions (Players set). Exactly one of the two forms must be used.
type WinnerEntry struct {
	Player string `json:"player,omitempty"`

	Players   []string `json:"players,omitempty"`
	Positions uint8    `json:"positions,omitempty"`
}

// IsGroup reports whether the entry uses the tied-group form.
func (w WinnerEntry) IsGroup() bool {
	return len(w.Players) > 0 || w.Positions > 0
}

type TournamentCreateTx struct {
	EntryFee   uint64 `json:"entryFee"`
	MaxPlayers uint8  `json:"maxPlayers"`
	MatchSize  uint8  `json:"matchSize"`

	TournamentPrizeBps uint16 `json:"tournamentPrizeBps"`
	MatchPrizeBps      uint16 `json:"matchPrizeBps"`
	OperatorFeeBps     uint16 `json:"operatorFeeBps"`
}

type TournamentRegisterTx struct {
	TournamentID uint64 `json:"tournamentId"`
	Player       string `json:"player"`
}

type TournamentStartTx struct {
	TournamentID           uint64   `json:"tournamentId"`
	PayoutPercentages      []uint16 `json:"payoutPercentages"`
	MatchPayoutPercentages []uint16 `json:"matchPayoutPercentages"`
}

type TournamentFinalizeTx struct {
	TournamentID uint64        `json:"tournamentId"`
	Winners      []WinnerEntry `json:"winners"`

	// Accounts the caller provides as transfer destinations. Every player
	// named in Winners must appear here.
	Accounts []string `json:"accounts"`
}

type TournamentDistributeMatchTx struct {
	TournamentID uint64        `json:"tournamentId"`
	MatchID      uint32        `json:"matchId"`
	Winners      []WinnerEntry `json:"winners"`
	Accounts     []string      `json:"accounts"`
}

type TournamentWithdrawFeeTx struct {
	TournamentID uint64 `json:"tournamentId"`
	Recipient    string `json:"recipient"`
}

type TournamentCancelTx struct {
	TournamentID uint64 `json:"tournamentId"`
}

type TournamentRefundTx struct {
	TournamentID uint64 `json:"tournamentId"`
	Participant  string `json:"participant"`
}
