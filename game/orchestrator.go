package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/luca-patrignani/coin-flip/chain"
	"github.com/luca-patrignani/coin-flip/config"
	"github.com/luca-patrignani/coin-flip/escrow"
	"github.com/luca-patrignani/coin-flip/flip"
	"github.com/luca-patrignani/coin-flip/ledger"
)

// Wallet is the wallet capability the orchestrator consumes. It never
// manages the wallet lifecycle.
type Wallet interface {
	Connected() bool
	// Address returns the current account; ok is false without one.
	Address() (address string, ok bool)
	SignAndExecute(ctx context.Context, intent escrow.Intent) (*chain.TransactionResult, error)
}

// Builder produces the escrow intents.
type Builder interface {
	BuildCreate(entryAmount uint64) escrow.Intent
	BuildJoin(gameID string, entryAmount uint64) escrow.Intent
	BuildFinish(gameID string, winner string) escrow.Intent
	EscrowType() chain.TypeTag
}

// Coin draws the local outcome of a round.
type Coin interface {
	Toss(gameID string) (flip.Receipt, error)
}

// Journal records finished rounds.
type Journal interface {
	Append(r ledger.Round) (ledger.Block, error)
}

// Orchestrator sequences create, join, flip and finish for one round at a
// time and owns the RoundState.
type Orchestrator struct {
	cfg     config.Config
	wallet  Wallet
	builder Builder
	coin    Coin
	journal Journal

	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	observer func(RoundState)

	mu    sync.Mutex
	state RoundState
	wg    sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithJournal records every round in j.
func WithJournal(j Journal) Option {
	return func(o *Orchestrator) {
		o.journal = j
	}
}

// WithObserver registers fn to be called with a copy of the state after
// every transition. fn is called outside the lock, usually from the round
// goroutine.
func WithObserver(fn func(RoundState)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// WithSleep replaces the timer used for the flip animation delay.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

// NewOrchestrator wires the collaborators of a game.
func NewOrchestrator(cfg config.Config, wallet Wallet, builder Builder, coin Coin, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		wallet:  wallet,
		builder: builder,
		coin:    coin,
		logger:  slog.Default(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RequestFlip starts a round and reports whether it did. It is a no-op when
// the wallet is not connected, no stake is configured, or a round is
// already in flight. The round runs on its own goroutine with ctx.
func (o *Orchestrator) RequestFlip(ctx context.Context) bool {
	address, ok := o.wallet.Address()
	if !o.wallet.Connected() || !ok {
		o.logger.Info("flip ignored", "err", newError(KindConnection, "request", errors.New("wallet not connected")))
		return false
	}
	if !o.cfg.EntryAmountConfigured() {
		o.logger.Info("flip ignored", "err", newError(KindConfiguration, "request", errors.New("entry amount not configured")))
		return false
	}

	o.mu.Lock()
	if o.state.Phase != PhaseIdle {
		o.mu.Unlock()
		o.logger.Debug("flip ignored, round in flight", "phase", o.State().Phase)
		return false
	}
	o.state.Phase = PhaseCreating
	o.state.Flipping = true
	o.state.Result = flip.None
	o.state.GameID = ""
	o.state.Settlement = SettlementNone
	o.state.Err = nil
	snapshot := o.state
	o.wg.Add(1)
	o.mu.Unlock()

	o.notify(snapshot)
	go func() {
		defer o.wg.Done()
		o.runRound(ctx, address)
	}()
	return true
}

// Play runs one round to completion and reports whether it started.
func (o *Orchestrator) Play(ctx context.Context) bool {
	if !o.RequestFlip(ctx) {
		return false
	}
	o.Wait()
	return true
}

// Wait blocks until the round in flight, if any, is back to Idle.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// State returns a copy of the current RoundState.
func (o *Orchestrator) State() RoundState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// View returns the presentation view of the current state.
func (o *Orchestrator) View() View {
	s := o.State()
	address, ok := o.wallet.Address()
	connected := o.wallet.Connected() && ok
	return View{
		IsConnected:  connected,
		Address:      address,
		StatusLabel:  statusLabel(connected, s),
		IsFlipping:   s.Flipping,
		Result:       s.Result,
		RoundsPlayed: s.RoundsPlayed,
		CanFlip:      connected && s.Phase == PhaseIdle && o.cfg.EntryAmountConfigured(),
	}
}

func (o *Orchestrator) runRound(ctx context.Context, address string) {
	amount := o.cfg.EntryAmount
	rec := ledger.Round{Stage: ledger.StageCreate, StartedAt: time.Now()}
	defer func() {
		rec.EndedAt = time.Now()
		o.record(rec)
	}()

	created, err := o.submit(ctx, o.builder.BuildCreate(amount))
	if err != nil {
		o.abort(&rec, newError(KindTransaction, "create", err))
		return
	}
	rec.CreateDigest = created.Digest
	gameID, err := chain.CreatedObjectID(created, o.builder.EscrowType())
	if err != nil {
		o.abort(&rec, newError(KindObjectExtraction, "create", err))
		return
	}
	rec.GameID = gameID
	o.logger.Info("game escrow created", "game_id", gameID, "digest", created.Digest)

	rec.Stage = ledger.StageJoin
	o.update(func(s *RoundState) {
		s.Phase = PhaseJoining
		s.GameID = gameID
	})
	joined, err := o.submit(ctx, o.builder.BuildJoin(gameID, amount))
	if err != nil {
		o.abort(&rec, newError(KindTransaction, "join", err))
		return
	}
	rec.JoinDigest = joined.Digest

	rec.Stage = ledger.StageFlip
	o.update(func(s *RoundState) { s.Phase = PhaseAwaitingFlip })
	if err := o.sleep(ctx, o.cfg.FlipDuration); err != nil {
		o.abort(&rec, newError(KindAborted, "flip", err))
		return
	}
	receipt, err := o.coin.Toss(gameID)
	if err != nil {
		o.abort(&rec, newError(KindAborted, "flip", err))
		return
	}
	outcome := receipt.Outcome
	winner := o.winner(address, outcome)
	rec.Result = outcome
	rec.Receipt = &receipt
	rec.Winner = winner

	rec.Stage = ledger.StageFinish
	optimistic := o.cfg.SettlementPolicy != config.PolicyConfirmed
	o.update(func(s *RoundState) {
		s.Phase = PhaseFinishing
		if optimistic {
			s.Flipping = false
			s.Result = outcome
		}
	})
	finished, err := o.submit(ctx, o.builder.BuildFinish(gameID, winner))
	if err != nil {
		settleErr := newError(KindTransaction, "finish", err)
		if !optimistic {
			o.abort(&rec, settleErr)
			return
		}
		rec.Error = settleErr.Error()
		o.logger.Error("finishing game on-chain failed", "game_id", gameID, "winner", winner, "err", settleErr)
		o.complete(outcome, SettlementUnsettled, settleErr)
		return
	}
	rec.FinishDigest = finished.Digest
	rec.Settled = true
	rec.Stage = ledger.StageSettled
	o.logger.Info("game settled", "game_id", gameID, "winner", winner, "result", outcome, "digest", finished.Digest)
	o.complete(outcome, SettlementSettled, nil)
}

// submit signs and executes intent and treats failed effects as an error.
func (o *Orchestrator) submit(ctx context.Context, intent escrow.Intent) (*chain.TransactionResult, error) {
	result, err := o.wallet.SignAndExecute(ctx, intent)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// winner picks the account on a win, the opponent otherwise. Without an
// opponent the stake goes back to the player.
func (o *Orchestrator) winner(address string, outcome flip.Outcome) string {
	if outcome == flip.Win {
		return address
	}
	if o.cfg.OpponentAddress == "" {
		o.logger.Warn("no opponent address configured, settling to the player")
		return address
	}
	return o.cfg.OpponentAddress
}

func (o *Orchestrator) abort(rec *ledger.Round, err *Error) {
	rec.Error = err.Error()
	o.logger.Error("round aborted", "step", err.Step, "game_id", rec.GameID, "err", err)
	o.update(func(s *RoundState) {
		s.Phase = PhaseIdle
		s.Flipping = false
		s.Result = flip.None
		s.Settlement = SettlementErrored
		s.Err = err
	})
}

func (o *Orchestrator) complete(outcome flip.Outcome, settlement Settlement, err error) {
	o.update(func(s *RoundState) {
		s.Phase = PhaseIdle
		s.Flipping = false
		s.Result = outcome
		s.RoundsPlayed++
		s.Settlement = settlement
		s.Err = err
	})
}

func (o *Orchestrator) update(fn func(*RoundState)) {
	o.mu.Lock()
	fn(&o.state)
	snapshot := o.state
	o.mu.Unlock()
	o.notify(snapshot)
}

func (o *Orchestrator) notify(s RoundState) {
	if o.observer != nil {
		o.observer(s)
	}
}

func (o *Orchestrator) record(r ledger.Round) {
	if o.journal == nil {
		return
	}
	if _, err := o.journal.Append(r); err != nil {
		o.logger.Error("journal append failed", "game_id", r.GameID, "err", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
