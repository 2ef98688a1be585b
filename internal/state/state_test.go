package state

import (
	"bytes"
	"math"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()

	st := NewState()
	st.Height = 7
	st.NextTournamentID = 3
	st.Accounts["alice"] = 500
	st.AccountKeys["alice"] = bytes.Repeat([]byte{1}, 32)
	st.NonceMax["alice"] = 9
	st.Authorities = []string{"operator"}
	st.Tournaments[1] = &Tournament{
		ID:           1,
		Authority:    "operator",
		EntryFee:     100,
		MaxPlayers:   4,
		MatchSize:    2,
		Phase:        PhasePlaying,
		Participants: []string{"alice", "bob"},
		PaidMatchIDs: []uint32{3},
	}
	if err := st.Save(home); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got.AppHash(), st.AppHash()) {
		t.Fatalf("round trip changed app hash")
	}
	if got.Tournaments[1].Phase != PhasePlaying {
		t.Fatalf("phase: got %s", got.Tournaments[1].Phase)
	}
	if got.NonceMax["alice"] != 9 {
		t.Fatalf("nonce: got %d", got.NonceMax["alice"])
	}
}

func TestLoadMissingFileReturnsFreshState(t *testing.T) {
	st, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.NextTournamentID != 1 {
		t.Fatalf("next tournament id: got %d want 1", st.NextTournamentID)
	}
	if st.Accounts == nil || st.Tournaments == nil {
		t.Fatalf("maps not initialized")
	}
}

func TestCloneIsolation(t *testing.T) {
	st := NewState()
	st.Accounts["alice"] = 100
	st.Tournaments[1] = &Tournament{ID: 1, Phase: PhaseRegistration, Participants: []string{"alice"}}

	clone, err := st.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	clone.Accounts["alice"] = 0
	clone.Tournaments[1].Phase = PhaseCancelled
	clone.Tournaments[1].Participants = append(clone.Tournaments[1].Participants, "bob")

	if st.Accounts["alice"] != 100 {
		t.Fatalf("clone mutated original balance")
	}
	if st.Tournaments[1].Phase != PhaseRegistration {
		t.Fatalf("clone mutated original phase")
	}
	if len(st.Tournaments[1].Participants) != 1 {
		t.Fatalf("clone mutated original participants")
	}
}

func TestAppHashDeterministicAcrossInsertionOrder(t *testing.T) {
	balances := map[string]uint64{"alice": 1, "bob": 2, "carol": 3}
	build := func(keys ...string) *State {
		st := NewState()
		for _, k := range keys {
			st.Accounts[k] = balances[k]
			st.NonceMax[k] = balances[k]
		}
		return st
	}
	a := build("alice", "bob", "carol")
	b := build("carol", "alice", "bob")

	if !bytes.Equal(a.AppHash(), b.AppHash()) {
		t.Fatalf("app hash depends on map insertion order")
	}
}

func TestAppHashChangesWithState(t *testing.T) {
	st := NewState()
	before := st.AppHash()
	st.Accounts["alice"] = 1
	if bytes.Equal(before, st.AppHash()) {
		t.Fatalf("app hash ignored balance change")
	}
}

func TestCreditOverflow(t *testing.T) {
	st := NewState()
	if err := st.Credit("alice", math.MaxUint64); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if err := st.Credit("alice", 1); err == nil {
		t.Fatalf("expected overflow error")
	}
	if st.Balance("alice") != math.MaxUint64 {
		t.Fatalf("failed credit changed balance: %d", st.Balance("alice"))
	}
}

func TestDebitInsufficient(t *testing.T) {
	st := NewState()
	st.Accounts["alice"] = 5
	if err := st.Debit("alice", 6); err == nil {
		t.Fatalf("expected insufficient funds error")
	}
	if err := st.Debit("alice", 5); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if st.Balance("alice") != 0 {
		t.Fatalf("balance: got %d want 0", st.Balance("alice"))
	}
}

func TestTournamentMembershipHelpers(t *testing.T) {
	tn := &Tournament{
		Participants:         []string{"alice", "bob"},
		PaidMatchIDs:         []uint32{2, 5},
		RefundedParticipants: []string{"bob"},
	}
	if !tn.IsParticipant("alice") || tn.IsParticipant("eve") {
		t.Fatalf("IsParticipant wrong")
	}
	if tn.CurrentPlayers() != 2 {
		t.Fatalf("CurrentPlayers: got %d", tn.CurrentPlayers())
	}
	if !tn.HasPaidMatch(5) || tn.HasPaidMatch(1) {
		t.Fatalf("HasPaidMatch wrong")
	}
	if !tn.IsRefunded("bob") || tn.IsRefunded("alice") {
		t.Fatalf("IsRefunded wrong")
	}
}

func TestIsAuthority(t *testing.T) {
	st := NewState()
	st.Authorities = []string{"operator", "backup"}
	if !st.IsAuthority("backup") || st.IsAuthority("alice") {
		t.Fatalf("IsAuthority wrong")
	}
}
