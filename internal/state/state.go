package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type State struct {
	Height int64 `json:"height"`

	NextTournamentID uint64                 `json:"nextTournamentId"`
	Accounts         map[string]uint64      `json:"accounts"`
	AccountKeys      map[string][]byte      `json:"accountKeys,omitempty"` // addr -> ed25519 pubkey (32 bytes)
	NonceMax         map[string]uint64      `json:"nonceMax,omitempty"`    // signer -> last accepted tx.nonce (u64), for replay protection
	Authorities      []string               `json:"authorities,omitempty"` // accounts allowed to create tournaments (genesis-supplied)
	Tournaments      map[uint64]*Tournament `json:"tournaments"`
}

func NewState() *State {
	return &State{
		Height:           0,
		NextTournamentID: 1,
		Accounts:         map[string]uint64{},
		AccountKeys:      map[string][]byte{},
		NonceMax:         map[string]uint64{},
		Tournaments:      map[uint64]*Tournament{},
	}
}

func Load(home string) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.normalize()
	return &st, nil
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.normalize()
	return &out, nil
}

func (s *State) normalize() {
	if s.Accounts == nil {
		s.Accounts = map[string]uint64{}
	}
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Tournaments == nil {
		s.Tournaments = map[uint64]*Tournament{}
	}
	if s.NextTournamentID == 0 {
		s.NextTournamentID = 1
	}
}

func (s *State) AppHash() []byte {
	// Deterministic JSON hash: marshal with stable key ordering by serializing
	// a normalized view.
	//
	// Note: encoding/json does NOT guarantee map key order, so we manually
	// normalize maps into slices.
	type accountKV struct {
		Addr    string `json:"addr"`
		Balance uint64 `json:"balance"`
	}
	type accountKeyKV struct {
		Addr   string `json:"addr"`
		PubKey []byte `json:"pubKey"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}
	type tournamentKV struct {
		ID         uint64      `json:"id"`
		Tournament *Tournament `json:"tournament"`
	}

	accounts := make([]accountKV, 0, len(s.Accounts))
	for k, v := range s.Accounts {
		accounts = append(accounts, accountKV{Addr: k, Balance: v})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Addr < accounts[j].Addr })

	accountKeys := make([]accountKeyKV, 0, len(s.AccountKeys))
	for k, v := range s.AccountKeys {
		accountKeys = append(accountKeys, accountKeyKV{Addr: k, PubKey: v})
	}
	sort.Slice(accountKeys, func(i, j int) bool { return accountKeys[i].Addr < accountKeys[j].Addr })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	tournaments := make([]tournamentKV, 0, len(s.Tournaments))
	for id, t := range s.Tournaments {
		tournaments = append(tournaments, tournamentKV{ID: id, Tournament: t})
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].ID < tournaments[j].ID })

	normalized := struct {
		Height           int64          `json:"height"`
		NextTournamentID uint64         `json:"nextTournamentId"`
		Accounts         []accountKV    `json:"accounts"`
		AccountKeys      []accountKeyKV `json:"accountKeys,omitempty"`
		NonceMax         []nonceKV      `json:"nonceMax,omitempty"`
		Authorities      []string       `json:"authorities,omitempty"`
		Tournaments      []tournamentKV `json:"tournaments"`
	}{
		Height:           s.Height,
		NextTournamentID: s.NextTournamentID,
		Accounts:         accounts,
		AccountKeys:      accountKeys,
		NonceMax:         nonces,
		Authorities:      s.Authorities,
		Tournaments:      tournaments,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

// ---- Bank ----

func (s *State) Balance(addr string) uint64 {
	return s.Accounts[addr]
}

func (s *State) Credit(addr string, amount uint64) error {
	bal := s.Accounts[addr]
	if bal > ^uint64(0)-amount {
		return fmt.Errorf("balance overflow: have=%d add=%d", bal, amount)
	}
	s.Accounts[addr] = bal + amount
	return nil
}

func (s *State) Debit(addr string, amount uint64) error {
	bal := s.Accounts[addr]
	if bal < amount {
		return fmt.Errorf("insufficient funds: have=%d need=%d", bal, amount)
	}
	s.Accounts[addr] = bal - amount
	return nil
}

func (s *State) IsAuthority(addr string) bool {
	for _, a := range s.Authorities {
		if a == addr {
			return true
		}
	}
	return false
}

// ---- Tournament ----

type Phase string

const (
	PhaseRegistration Phase = "registration"
	PhasePlaying      Phase = "playing"
	PhaseFinalized    Phase = "finalized"
	PhaseCancelled    Phase = "cancelled"
)

// Structural bounds on tournament configuration and payout schedules.
const (
	MinPlayers            = 2
	MaxPlayersLimit       = 100
	MaxPayoutPositions    = 20
	MaxMatchPayoutEntries = 8
	BpsDenominator        = 10_000
	MinTournamentPrizeBps = 5_000
	MaxOperatorFeeBps     = 1_500
)

// Tournament is one prize-escrow state machine instance. Funds for a
// tournament live in its escrow account, never on the tournament record
// itself.
type Tournament struct {
	ID        uint64 `json:"id"`
	Authority string `json:"authority"`

	EntryFee   uint64 `json:"entryFee"`
	MaxPlayers uint8  `json:"maxPlayers"`
	MatchSize  uint8  `json:"matchSize"`

	TournamentPrizeBps uint16 `json:"tournamentPrizeBps"`
	MatchPrizeBps      uint16 `json:"matchPrizeBps"`
	OperatorFeeBps     uint16 `json:"operatorFeeBps"`

	Phase Phase `json:"phase"`

	// Insertion order = buy-in order. Unique.
	Participants []string `json:"participants,omitempty"`

	// Basis-point schedules, set once at the playing transition.
	TournamentPayouts      []uint16 `json:"tournamentPayouts,omitempty"`
	MatchPayoutPercentages []uint16 `json:"matchPayoutPercentages,omitempty"`

	// Idempotency ledgers.
	PaidMatchIDs         []uint32 `json:"paidMatchIds,omitempty"`
	RefundedParticipants []string `json:"refundedParticipants,omitempty"`

	OperatorFeeWithdrawn bool `json:"operatorFeeWithdrawn"`
}

// CurrentPlayers is the registered player count. Participants is append-only,
// so the count can never disagree with the list.
func (t *Tournament) CurrentPlayers() int {
	return len(t.Participants)
}

// IsParticipant reports whether player bought in. Linear scan: participant
// counts are capped at MaxPlayersLimit.
func (t *Tournament) IsParticipant(player string) bool {
	for _, p := range t.Participants {
		if p == player {
			return true
		}
	}
	return false
}

func (t *Tournament) HasPaidMatch(matchID uint32) bool {
	for _, id := range t.PaidMatchIDs {
		if id == matchID {
			return true
		}
	}
	return false
}

func (t *Tournament) IsRefunded(player string) bool {
	for _, p := range t.RefundedParticipants {
		if p == player {
			return true
		}
	}
	return false
}
