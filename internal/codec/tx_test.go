package codec

import (
	"encoding/json"
	"testing"
)

func TestDecodeTxEnvelope(t *testing.T) {
	env, err := DecodeTxEnvelope([]byte(`{
		"type": "tournament/register",
		"value": {"tournamentId": 3, "player": "alice"},
		"nonce": "7",
		"signer": "alice",
		"sig": "c2ln"
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Type != "tournament/register" || env.Nonce != "7" || env.Signer != "alice" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	var msg TournamentRegisterTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if msg.TournamentID != 3 || msg.Player != "alice" {
		t.Fatalf("unexpected value: %+v", msg)
	}
}

func TestDecodeTxEnvelope_Rejects(t *testing.T) {
	if _, err := DecodeTxEnvelope([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if _, err := DecodeTxEnvelope([]byte(`{"value": {}}`)); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestWinnerEntryIsGroup(t *testing.T) {
	if (WinnerEntry{Player: "alice"}).IsGroup() {
		t.Fatalf("individual entry reported as group")
	}
	if !(WinnerEntry{Players: []string{"alice", "bob"}, Positions: 2}).IsGroup() {
		t.Fatalf("tied entry not reported as group")
	}
	// A positions count alone marks the group form; validation rejects the
	// missing players later.
	if !(WinnerEntry{Positions: 1}).IsGroup() {
		t.Fatalf("positions-only entry not reported as group")
	}
}

func TestWinnerEntryJSONForms(t *testing.T) {
	var w WinnerEntry
	if err := json.Unmarshal([]byte(`{"player": "alice"}`), &w); err != nil {
		t.Fatalf("decode individual: %v", err)
	}
	if w.IsGroup() || w.Player != "alice" {
		t.Fatalf("unexpected individual entry: %+v", w)
	}

	var g WinnerEntry
	if err := json.Unmarshal([]byte(`{"players": ["alice", "bob"], "positions": 2}`), &g); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if !g.IsGroup() || len(g.Players) != 2 || g.Positions != 2 {
		t.Fatalf("unexpected group entry: %+v", g)
	}
}
