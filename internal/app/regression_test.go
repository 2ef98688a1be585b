package app

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
)

// A distribute_match that fails after paying some winners must leave no trace:
// tx execution is staged on a clone and only committed wholesale.
func TestRegression_FailedDistributionLeavesStateUntouched(t *testing.T) {
	e, id := setupTournament(t)
	registerFour(e, id)
	startDefault(e, id)
	mustOk(t, e.deliverSigned("tournament/finalize", map[string]any{
		"tournamentId": id,
		"winners":      []map[string]any{{"player": "bob"}},
		"accounts":     []string{"bob"},
	}, "operator"))

	escrowBefore := e.a.st.Balance(EscrowAccount(id))
	carolBefore := e.a.st.Balance("carol")

	// carol resolves and would be paid first; dave's missing account then
	// aborts the tx.
	mustFail(t, e.deliverSigned("tournament/distribute_match", map[string]any{
		"tournamentId": id,
		"matchId":      uint32(1),
		"winners":      []map[string]any{{"player": "carol"}, {"player": "dave"}},
		"accounts":     []string{"carol"},
	}, "operator"), abciCode(ErrMissingWinnerAccount))

	if got := e.a.st.Balance(EscrowAccount(id)); got != escrowBefore {
		t.Fatalf("escrow changed on failed tx: got %d want %d", got, escrowBefore)
	}
	if got := e.a.st.Balance("carol"); got != carolBefore {
		t.Fatalf("carol paid on failed tx: got %d want %d", got, carolBefore)
	}
	if len(e.a.st.Tournaments[id].PaidMatchIDs) != 0 {
		t.Fatalf("match marked paid on failed tx: %v", e.a.st.Tournaments[id].PaidMatchIDs)
	}
}

// Escrowing a second max-uint64 entry fee overflows the vault balance; the
// deposit must fail cleanly and the player's debit must not stick.
func TestRegression_EscrowCreditOverflowRejected(t *testing.T) {
	e := newTestEnv(t)
	e.a.st.Authorities = []string{"operator"}
	e.registerAccount("operator")
	for _, p := range []string{"alice", "bob"} {
		e.registerAccount(p)
		e.mint(p, math.MaxUint64)
	}

	p := defaultCreateParams()
	p["entryFee"] = uint64(math.MaxUint64)
	res := mustOk(t, e.deliverSigned("tournament/create", p, "operator"))
	id := parseU64(t, attr(findEvent(res.Events, EventTypeTournamentCreated), "tournamentId"))

	mustOk(t, e.deliverSigned("tournament/register", map[string]any{
		"tournamentId": id, "player": "alice",
	}, "alice"))
	mustFail(t, e.deliverSigned("tournament/register", map[string]any{
		"tournamentId": id, "player": "bob",
	}, "bob"), abciCode(ErrCalculationOverflow))

	if got := e.a.st.Balance("bob"); got != math.MaxUint64 {
		t.Fatalf("bob debited on failed deposit: got %d", got)
	}
	if tn := e.a.st.Tournaments[id]; tn.CurrentPlayers() != 1 {
		t.Fatalf("bob registered on failed deposit: %v", tn.Participants)
	}
}

// Finalizing a max-fee tournament exercises the wide intermediate product
// (fee x players x bps) before narrowing back to uint64 transfers.
func TestRegression_MaxFeeFinalizePaysExactShare(t *testing.T) {
	e := newTestEnv(t)
	e.a.st.Authorities = []string{"operator"}
	e.registerAccount("operator")
	e.registerAccount("alice")
	e.mint("alice", math.MaxUint64)

	p := defaultCreateParams()
	p["entryFee"] = uint64(math.MaxUint64)
	res := mustOk(t, e.deliverSigned("tournament/create", p, "operator"))
	id := parseU64(t, attr(findEvent(res.Events, EventTypeTournamentCreated), "tournamentId"))

	mustOk(t, e.deliverSigned("tournament/register", map[string]any{
		"tournamentId": id, "player": "alice",
	}, "alice"))
	mustOk(t, e.deliverSigned("tournament/start", map[string]any{
		"tournamentId":           id,
		"payoutPercentages":      []uint16{10000},
		"matchPayoutPercentages": []uint16{10000},
	}, "operator"))
	mustOk(t, e.deliverSigned("tournament/finalize", map[string]any{
		"tournamentId": id,
		"winners":      []map[string]any{{"player": "alice"}},
		"accounts":     []string{"alice"},
	}, "operator"))

	// floor(maxUint64 * 6000 / 10000) fits in uint64; alice gets it back.
	want := sdkmath.NewIntFromUint64(math.MaxUint64).MulRaw(6000).QuoRaw(10000).Uint64()
	if got := e.a.st.Balance("alice"); got != want {
		t.Fatalf("alice balance: got %d want %d", got, want)
	}
}
