package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"

	"tournachain/internal/codec"
	"tournachain/internal/state"
)

const (
	AppVersion uint64 = 1
)

// TournApp is the ABCI application hosting the tournament prize-escrow state
// machine. All txs in a block are delivered under one mutex; each tx executes
// against a cloned state that replaces the live state only on success, so a
// failed operation can never leave a partial mutation or a dangling escrow
// debit behind.
type TournApp struct {
	*abci.BaseApplication

	home   string
	logger log.Logger

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(home string, logger log.Logger) (*TournApp, error) {
	appHome := filepath.Join(home, "app")
	st, err := state.Load(appHome)
	if err != nil {
		return nil, err
	}
	a := &TournApp{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		logger:          logger.With("module", "tournament"),
		st:              st,
		lastHash:        st.AppHash(),
	}
	return a, nil
}

func (a *TournApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "tournachain (v1)",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *TournApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	// Structural validation only; auth and semantics run at delivery.
	_, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

// genesisState is the app_state document supplied in the CometBFT genesis
// file. Authorities is the allow-list of tournament creators; Accounts funds
// initial balances.
type genesisState struct {
	Authorities []string          `json:"authorities,omitempty"`
	Accounts    map[string]uint64 `json:"accounts,omitempty"`
}

func (a *TournApp) InitChain(_ context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(req.AppStateBytes) > 0 {
		var gs genesisState
		if err := json.Unmarshal(req.AppStateBytes, &gs); err != nil {
			return nil, err
		}
		a.st.Authorities = gs.Authorities
		for addr, bal := range gs.Accounts {
			if err := a.st.Credit(addr, bal); err != nil {
				return nil, err
			}
		}
		a.lastHash = a.st.AppHash()
	}
	return &abci.InitChainResponse{AppHash: a.lastHash}, nil
}

func (a *TournApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height
	now := req.Time.Unix()

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTx(txBytes, req.Height, now)
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *TournApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	appHome := filepath.Join(a.home, "app")
	if err := a.st.Save(appHome); err != nil {
		// CometBFT expects Commit to not crash; return error so node halts loudly.
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}

func (a *TournApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Paths:
	// - /account/<addr>
	// - /tournament/<id>
	// - /tournaments
	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/tournaments":
		ids := make([]uint64, 0, len(a.st.Tournaments))
		for id := range a.st.Tournaments {
			ids = append(ids, id)
		}
		b, _ := json.Marshal(ids)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case strings.HasPrefix(path, "/account/"):
		addr := strings.TrimPrefix(path, "/account/")
		bal := a.st.Balance(addr)
		b, _ := json.Marshal(map[string]any{"addr": addr, "balance": bal})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case strings.HasPrefix(path, "/tournament/"):
		raw := strings.TrimPrefix(path, "/tournament/")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &abci.QueryResponse{Code: 1, Log: "invalid tournament id", Height: a.st.Height}, nil
		}
		t, ok := a.st.Tournaments[id]
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "tournament not found", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(t)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.st.Height}, nil
	}
}

// deliverTx stages the tx against a cloned state and swaps the clone in only
// on success. Validation inside handlers still precedes transfers, but the
// clone guarantees a failed late check discards everything.
func (a *TournApp) deliverTx(txBytes []byte, height int64, now int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return &abci.ExecTxResult{Code: 1, Log: err.Error()}
	}

	staged, err := a.st.Clone()
	if err != nil {
		return &abci.ExecTxResult{Code: 1, Log: "stage state: " + err.Error()}
	}
	staged.Height = height

	res := routeTx(staged, env, now)
	if res.Code == 0 {
		a.st = staged
		a.logger.Info("tx applied", "type", env.Type, "height", height)
	} else {
		a.logger.Debug("tx rejected", "type", env.Type, "code", res.Code, "log", res.Log)
	}
	return res
}

func routeTx(st *state.State, env codec.TxEnvelope, now int64) *abci.ExecTxResult {
	switch env.Type {
	case "bank/mint":
		return handleBankMint(st, env, now)
	case "bank/send":
		return handleBankSend(st, env, now)
	case "auth/register_account":
		return handleRegisterAccount(st, env, now)
	case "tournament/create":
		return handleTournamentCreate(st, env, now)
	case "tournament/register":
		return handleTournamentRegister(st, env, now)
	case "tournament/start":
		return handleTournamentStart(st, env, now)
	case "tournament/finalize":
		return handleTournamentFinalize(st, env, now)
	case "tournament/distribute_match":
		return handleTournamentDistributeMatch(st, env, now)
	case "tournament/withdraw_fee":
		return handleTournamentWithdrawFee(st, env, now)
	case "tournament/cancel":
		return handleTournamentCancel(st, env, now)
	case "tournament/refund":
		return handleTournamentRefund(st, env, now)
	default:
		return &abci.ExecTxResult{Code: 1, Log: "unknown tx type: " + env.Type}
	}
}
