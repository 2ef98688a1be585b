package app

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"strconv"
	"testing"
)

func TestBankMintAndSend(t *testing.T) {
	e := newTestEnv(t)
	e.registerAccount("alice")
	e.registerAccount("bob")
	e.mint("alice", 100)

	res := mustOk(t, e.deliverSigned("bank/send", map[string]any{
		"from": "alice", "to": "bob", "amount": uint64(40),
	}, "alice"))
	if findEvent(res.Events, EventTypeBankSent) == nil {
		t.Fatalf("expected BankSent event")
	}
	if e.a.st.Balance("alice") != 60 || e.a.st.Balance("bob") != 40 {
		t.Fatalf("balances: alice=%d bob=%d", e.a.st.Balance("alice"), e.a.st.Balance("bob"))
	}

	mustFail(t, e.deliverSigned("bank/send", map[string]any{
		"from": "alice", "to": "bob", "amount": uint64(61),
	}, "alice"), abciCode(ErrInsufficientFunds))
}

func TestBankSend_RequiresOwnerSignature(t *testing.T) {
	e := newTestEnv(t)
	e.registerAccount("alice")
	e.registerAccount("mallory")
	e.mint("alice", 100)

	res := e.deliverSigned("bank/send", map[string]any{
		"from": "alice", "to": "mallory", "amount": uint64(100),
	}, "mallory")
	if res.Code != abciCode(ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got code=%d log=%q", res.Code, res.Log)
	}
	if e.a.st.Balance("alice") != 100 {
		t.Fatalf("theft succeeded: alice=%d", e.a.st.Balance("alice"))
	}
}

func TestRegisterAccount_KeyIsSticky(t *testing.T) {
	e := newTestEnv(t)
	e.registerAccount("alice")
	pub, _ := testEd25519Key("alice")
	if !bytes.Equal(e.a.st.AccountKeys["alice"], pub) {
		t.Fatalf("stored key does not match registered key")
	}

	// Re-registering the same key is a no-op; a different key is rejected.
	e.registerAccount("alice")

	// Registration txs are verified against the key in the message, so sign
	// the overwrite attempt with the new key.
	otherPub, otherPriv := testEd25519Key("alice-other")
	value := mustMarshal(t, map[string]any{"account": "alice", "pubKey": []byte(otherPub)})
	e.nonces["alice"]++
	nonce := strconv.FormatUint(e.nonces["alice"], 10)
	sig := ed25519.Sign(otherPriv, txAuthSignBytesV1("auth/register_account", value, nonce, "alice"))
	tx := mustMarshal(t, map[string]any{
		"type":   "auth/register_account",
		"value":  json.RawMessage(value),
		"nonce":  nonce,
		"signer": "alice",
		"sig":    sig,
	})
	res := e.a.deliverTx(tx, e.height, testBlockTime)
	if res.Code == 0 {
		t.Fatalf("key overwrite accepted")
	}
	if !bytes.Equal(e.a.st.AccountKeys["alice"], pub) {
		t.Fatalf("stored key changed")
	}
}
