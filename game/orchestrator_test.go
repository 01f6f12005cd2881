package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/coin-flip/chain"
	"github.com/luca-patrignani/coin-flip/config"
	"github.com/luca-patrignani/coin-flip/escrow"
	"github.com/luca-patrignani/coin-flip/flip"
	"github.com/luca-patrignani/coin-flip/ledger"
)

const (
	testPackage  = "0x2a"
	testAccount  = "0xme"
	testOpponent = "0xcpu"
	testGameID   = "0xabc"
)

type response struct {
	result *chain.TransactionResult
	err    error
}

type fakeWallet struct {
	mu        sync.Mutex
	connected bool
	responses map[string]response
	calls     []escrow.Intent
	// gate, when set, blocks create_game until closed.
	gate chan struct{}
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		connected: true,
		responses: map[string]response{
			escrow.FunctionCreate: {result: &chain.TransactionResult{
				Digest: "create-digest",
				ObjectChanges: []chain.ObjectChange{
					{Type: chain.ChangeMutated, ObjectType: "0x2::coin::Coin<0x2::sui::SUI>", ObjectID: "0xgas"},
					{Type: chain.ChangeCreated, ObjectType: testPackage + "::escrow::GameEscrow", ObjectID: testGameID},
				},
			}},
			escrow.FunctionJoin:   {result: &chain.TransactionResult{Digest: "join-digest"}},
			escrow.FunctionFinish: {result: &chain.TransactionResult{Digest: "finish-digest"}},
		},
	}
}

func (w *fakeWallet) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *fakeWallet) Address() (string, bool) {
	if !w.Connected() {
		return "", false
	}
	return testAccount, true
}

func (w *fakeWallet) SignAndExecute(_ context.Context, intent escrow.Intent) (*chain.TransactionResult, error) {
	if intent.Function == escrow.FunctionCreate && w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, intent)
	r := w.responses[intent.Function]
	return r.result, r.err
}

func (w *fakeWallet) functions() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var fns []string
	for _, c := range w.calls {
		fns = append(fns, c.Function)
	}
	return fns
}

func (w *fakeWallet) call(function string) (escrow.Intent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.calls {
		if c.Function == function {
			return c, true
		}
	}
	return escrow.Intent{}, false
}

type fixedCoin struct {
	outcome flip.Outcome
	err     error
}

func (c fixedCoin) Toss(gameID string) (flip.Receipt, error) {
	if c.err != nil {
		return flip.Receipt{}, c.err
	}
	return flip.Receipt{GameID: gameID, Outcome: c.outcome}, nil
}

type recorder struct {
	mu     sync.Mutex
	states []RoundState
}

func (r *recorder) observe(s RoundState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) snapshot() []RoundState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RoundState(nil), r.states...)
}

func (r *recorder) sawPhase(p Phase) bool {
	for _, s := range r.snapshot() {
		if s.Phase == p {
			return true
		}
	}
	return false
}

func testConfig() config.Config {
	return config.Config{
		PackageID:        testPackage,
		EntryAmount:      1_000_000,
		Network:          "testnet",
		OpponentAddress:  testOpponent,
		FlipDuration:     time.Second,
		SettlementPolicy: config.PolicyOptimistic,
	}
}

type harness struct {
	o       *Orchestrator
	wallet  *fakeWallet
	journal *ledger.Journal
	rec     *recorder
	slept   []time.Duration
}

func newHarness(t *testing.T, cfg config.Config, coin Coin) *harness {
	t.Helper()
	builder, err := escrow.NewBuilder(cfg.PackageID)
	require.NoError(t, err)
	h := &harness{
		wallet:  newFakeWallet(),
		journal: ledger.NewJournal(),
		rec:     &recorder{},
	}
	h.o = NewOrchestrator(cfg, h.wallet, builder, coin,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithJournal(h.journal),
		WithObserver(h.rec.observe),
		WithSleep(func(_ context.Context, d time.Duration) error {
			h.slept = append(h.slept, d)
			return nil
		}),
	)
	return h
}

func TestPlaySettledWin(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})

	require.True(t, h.o.Play(context.Background()))

	require.Equal(t, []string{escrow.FunctionCreate, escrow.FunctionJoin, escrow.FunctionFinish}, h.wallet.functions())
	join, _ := h.wallet.call(escrow.FunctionJoin)
	require.Equal(t, testGameID, join.Args[0].Object)
	finish, _ := h.wallet.call(escrow.FunctionFinish)
	require.Equal(t, testGameID, finish.Args[0].Object)
	require.Equal(t, testAccount, finish.Args[1].Address)
	require.Equal(t, []time.Duration{time.Second}, h.slept)

	s := h.o.State()
	require.Equal(t, PhaseIdle, s.Phase)
	require.Equal(t, flip.Win, s.Result)
	require.Equal(t, 1, s.RoundsPlayed)
	require.Equal(t, SettlementSettled, s.Settlement)
	require.False(t, s.Flipping)
	require.NoError(t, s.Err)

	v := h.o.View()
	require.Equal(t, LabelWin, v.StatusLabel)
	require.True(t, v.CanFlip)

	rounds := h.journal.Rounds()
	require.Len(t, rounds, 1)
	require.True(t, rounds[0].Settled)
	require.Equal(t, ledger.StageSettled, rounds[0].Stage)
	require.Equal(t, "finish-digest", rounds[0].FinishDigest)
	require.NoError(t, h.journal.Verify())
}

func TestPlayLoseSettlesToOpponent(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Lose})

	require.True(t, h.o.Play(context.Background()))

	finish, ok := h.wallet.call(escrow.FunctionFinish)
	require.True(t, ok)
	require.Equal(t, testOpponent, finish.Args[1].Address)
	require.Equal(t, LabelLose, h.o.View().StatusLabel)
}

func TestPlayLoseWithoutOpponentSettlesToPlayer(t *testing.T) {
	cfg := testConfig()
	cfg.OpponentAddress = ""
	h := newHarness(t, cfg, fixedCoin{outcome: flip.Lose})

	require.True(t, h.o.Play(context.Background()))

	finish, ok := h.wallet.call(escrow.FunctionFinish)
	require.True(t, ok)
	require.Equal(t, testAccount, finish.Args[1].Address)
}

func TestFlipIgnoredWhenDisconnected(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	h.wallet.connected = false

	require.False(t, h.o.RequestFlip(context.Background()))
	h.o.Wait()

	require.Empty(t, h.wallet.functions())
	require.Equal(t, RoundState{}, h.o.State())
	v := h.o.View()
	require.False(t, v.IsConnected)
	require.False(t, v.CanFlip)
	require.Equal(t, LabelConnect, v.StatusLabel)
	require.Equal(t, 0, h.journal.Len())
}

func TestFlipIgnoredWithoutEntryAmount(t *testing.T) {
	cfg := testConfig()
	cfg.EntryAmount = 0
	h := newHarness(t, cfg, fixedCoin{outcome: flip.Win})

	require.False(t, h.o.Play(context.Background()))
	require.Empty(t, h.wallet.functions())
	require.Equal(t, PhaseIdle, h.o.State().Phase)
}

func TestMissingGameIDAbortsBeforeJoin(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	h.wallet.responses[escrow.FunctionCreate] = response{result: &chain.TransactionResult{Digest: "create-digest"}}

	require.True(t, h.o.Play(context.Background()))

	require.Equal(t, []string{escrow.FunctionCreate}, h.wallet.functions())
	s := h.o.State()
	require.Equal(t, PhaseIdle, s.Phase)
	require.Equal(t, SettlementErrored, s.Settlement)
	require.Equal(t, flip.None, s.Result)
	require.Equal(t, 0, s.RoundsPlayed)
	require.ErrorIs(t, s.Err, ErrObjectExtraction)
	require.ErrorIs(t, s.Err, chain.ErrObjectNotFound)
	require.False(t, h.rec.sawPhase(PhaseJoining))

	rounds := h.journal.Rounds()
	require.Len(t, rounds, 1)
	require.Equal(t, ledger.StageCreate, rounds[0].Stage)
	require.False(t, rounds[0].Orphaned())
}

func TestCreateRejectedAborts(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	h.wallet.responses[escrow.FunctionCreate] = response{result: &chain.TransactionResult{
		Digest:  "create-digest",
		Effects: &chain.Effects{Status: chain.ExecutionStatus{Status: "failure", Error: "InsufficientGas"}},
	}}

	require.True(t, h.o.Play(context.Background()))

	s := h.o.State()
	require.ErrorIs(t, s.Err, ErrTransaction)
	require.ErrorIs(t, s.Err, chain.ErrExecutionFailed)
	require.Equal(t, 0, s.RoundsPlayed)
}

func TestJoinFailureAbortsBeforeFlip(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	h.wallet.responses[escrow.FunctionJoin] = response{err: errors.New("user rejected the request")}

	require.True(t, h.o.Play(context.Background()))

	require.Equal(t, []string{escrow.FunctionCreate, escrow.FunctionJoin}, h.wallet.functions())
	s := h.o.State()
	require.Equal(t, PhaseIdle, s.Phase)
	require.Equal(t, SettlementErrored, s.Settlement)
	require.Equal(t, flip.None, s.Result)
	require.Equal(t, 0, s.RoundsPlayed)
	require.ErrorIs(t, s.Err, ErrTransaction)
	require.False(t, h.rec.sawPhase(PhaseAwaitingFlip))
	require.Empty(t, h.slept)

	var e *Error
	require.ErrorAs(t, s.Err, &e)
	require.Equal(t, "join", e.Step)

	orphans := h.journal.Orphans()
	require.Len(t, orphans, 1)
	require.Equal(t, testGameID, orphans[0].GameID)
}

func TestFinishFailureStillCompletesRound(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	h.wallet.responses[escrow.FunctionFinish] = response{err: errors.New("object already finished")}

	require.True(t, h.o.Play(context.Background()))

	s := h.o.State()
	require.Equal(t, PhaseIdle, s.Phase)
	require.Equal(t, flip.Win, s.Result)
	require.Equal(t, 1, s.RoundsPlayed)
	require.Equal(t, SettlementUnsettled, s.Settlement)
	require.ErrorIs(t, s.Err, ErrTransaction)
	require.Equal(t, LabelWin, h.o.View().StatusLabel)

	rounds := h.journal.Rounds()
	require.Len(t, rounds, 1)
	require.False(t, rounds[0].Settled)
	require.True(t, rounds[0].Orphaned())
}

func TestOptimisticRevealPrecedesSettlement(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Lose})

	require.True(t, h.o.Play(context.Background()))

	var finishing []RoundState
	for _, s := range h.rec.snapshot() {
		if s.Phase == PhaseFinishing {
			finishing = append(finishing, s)
		}
	}
	require.Len(t, finishing, 1)
	require.Equal(t, flip.Lose, finishing[0].Result)
	require.False(t, finishing[0].Flipping)
	require.Equal(t, 0, finishing[0].RoundsPlayed)
}

func TestConfirmedPolicyRevealsAfterSettlement(t *testing.T) {
	cfg := testConfig()
	cfg.SettlementPolicy = config.PolicyConfirmed
	h := newHarness(t, cfg, fixedCoin{outcome: flip.Win})

	require.True(t, h.o.Play(context.Background()))

	for _, s := range h.rec.snapshot() {
		if s.Phase != PhaseIdle {
			require.Equal(t, flip.None, s.Result, "result shown in phase %s", s.Phase)
			require.True(t, s.Flipping)
		}
	}
	s := h.o.State()
	require.Equal(t, flip.Win, s.Result)
	require.Equal(t, 1, s.RoundsPlayed)
	require.Equal(t, SettlementSettled, s.Settlement)
}

func TestConfirmedPolicyHidesResultOnFinishFailure(t *testing.T) {
	cfg := testConfig()
	cfg.SettlementPolicy = config.PolicyConfirmed
	h := newHarness(t, cfg, fixedCoin{outcome: flip.Win})
	h.wallet.responses[escrow.FunctionFinish] = response{err: errors.New("rpc unavailable")}

	require.True(t, h.o.Play(context.Background()))

	s := h.o.State()
	require.Equal(t, flip.None, s.Result)
	require.Equal(t, 0, s.RoundsPlayed)
	require.Equal(t, SettlementErrored, s.Settlement)
	require.ErrorIs(t, s.Err, ErrTransaction)
}

func TestFlipRequestWhileInFlightIsNoOp(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	h.wallet.gate = make(chan struct{})

	require.True(t, h.o.RequestFlip(context.Background()))
	before := h.o.State()
	require.Equal(t, PhaseCreating, before.Phase)

	for i := 0; i < 3; i++ {
		require.False(t, h.o.RequestFlip(context.Background()))
	}
	require.Equal(t, before, h.o.State())
	require.False(t, h.o.View().CanFlip)

	close(h.wallet.gate)
	h.o.Wait()

	s := h.o.State()
	require.Equal(t, 1, s.RoundsPlayed)
	require.Equal(t, []string{escrow.FunctionCreate, escrow.FunctionJoin, escrow.FunctionFinish}, h.wallet.functions())
	require.Equal(t, 1, h.journal.Len())
}

func TestRoundCounterCountsCompletedRounds(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})

	require.True(t, h.o.Play(context.Background()))
	h.wallet.responses[escrow.FunctionFinish] = response{err: errors.New("finish rejected")}
	require.True(t, h.o.Play(context.Background()))
	h.wallet.responses[escrow.FunctionJoin] = response{err: errors.New("join rejected")}
	require.True(t, h.o.Play(context.Background()))

	require.Equal(t, 2, h.o.State().RoundsPlayed)
	require.Equal(t, 3, h.journal.Len())
	require.Len(t, h.journal.Orphans(), 2)
}

func TestResultResetOnNewFlip(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	require.True(t, h.o.Play(context.Background()))

	h.wallet.gate = make(chan struct{})
	require.True(t, h.o.RequestFlip(context.Background()))
	s := h.o.State()
	require.Equal(t, flip.None, s.Result)
	require.True(t, s.Flipping)
	require.Equal(t, LabelFlipping, h.o.View().StatusLabel)
	close(h.wallet.gate)
	h.o.Wait()
}

func TestCanceledDuringFlipAborts(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{outcome: flip.Win})
	ctx, cancel := context.WithCancel(context.Background())
	h.o.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}

	require.True(t, h.o.Play(ctx))

	s := h.o.State()
	require.ErrorIs(t, s.Err, ErrAborted)
	require.ErrorIs(t, s.Err, context.Canceled)
	require.Equal(t, 0, s.RoundsPlayed)
	require.Equal(t, []string{escrow.FunctionCreate, escrow.FunctionJoin}, h.wallet.functions())
}

func TestTossFailureAborts(t *testing.T) {
	h := newHarness(t, testConfig(), fixedCoin{err: errors.New("no entropy")})

	require.True(t, h.o.Play(context.Background()))

	s := h.o.State()
	require.ErrorIs(t, s.Err, ErrAborted)
	require.Equal(t, flip.None, s.Result)
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))
}
