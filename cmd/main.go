package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/coin-flip/chain"
	"github.com/luca-patrignani/coin-flip/config"
	"github.com/luca-patrignani/coin-flip/escrow"
	"github.com/luca-patrignani/coin-flip/flip"
	"github.com/luca-patrignani/coin-flip/game"
	"github.com/luca-patrignani/coin-flip/ledger"
	"github.com/luca-patrignani/coin-flip/wallet"
)

const (
	actionConnect    = "Connect wallet"
	actionDisconnect = "Disconnect wallet"
	actionFlip       = "Flip the coin"
	actionInspect    = "Inspect last game"
	actionJournal    = "Show journal"
	actionQuit       = "Quit"
)

func main() {
	// Create a new slog handler with the default PTerm logger
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Coin ", pterm.FgYellow.ToStyle()),
		putils.LettersFromStringWithStyle("Flip", pterm.FgDarkGray.ToStyle()),
	).Render()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint())
	if err != nil {
		logger.Error("invalid RPC endpoint", "endpoint", cfg.Endpoint(), "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := chain.Dial(ctx, endpoint, chain.WithTimeout(cfg.RPCTimeout), chain.WithLogger(logger))
	if err != nil {
		logger.Error("failed to dial RPC endpoint", "endpoint", endpoint, "err", err)
		os.Exit(1)
	}
	defer client.Close()
	pterm.Info.Printfln("Using %s (%s)", endpoint, cfg.ChainID())

	keypair, err := loadKeypair(cfg, client)
	if err != nil {
		logger.Error("failed to load wallet", "err", err)
		os.Exit(1)
	}
	builder, err := escrow.NewBuilder(cfg.PackageID)
	if err != nil {
		logger.Error("invalid package id", "package", cfg.PackageID, "err", err)
		os.Exit(1)
	}
	coin := flip.NewCoin()
	journal := ledger.NewJournal()
	progress := &progress{}
	orchestrator := game.NewOrchestrator(cfg, keypair, builder, coin,
		game.WithLogger(logger),
		game.WithJournal(journal),
		game.WithObserver(progress.observe),
	)

	for {
		view := orchestrator.View()
		printView(view, orchestrator.State(), cfg.EntryAmount)
		selected, err := pterm.DefaultInteractiveSelect.WithDefaultText("What next?").WithOptions(menu(view)).Show()
		if err != nil {
			logger.Error("reading selection failed", "err", err)
			return
		}
		pterm.Println()
		switch selected {
		case actionConnect:
			keypair.Connect()
			pterm.Success.Printfln("Connected as %s", wallet.FormatAddress(mustAddress(keypair), 6, 4))
		case actionDisconnect:
			keypair.Disconnect()
			pterm.Info.Println("Wallet disconnected")
		case actionFlip:
			if !orchestrator.Play(ctx) {
				pterm.Warning.Println("A flip cannot start right now")
			}
		case actionInspect:
			inspect(ctx, client, orchestrator.State().GameID)
		case actionJournal:
			printJournal(journal, coin.PublicKey())
		case actionQuit:
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func menu(v game.View) []string {
	var actions []string
	if v.IsConnected {
		if v.CanFlip {
			actions = append(actions, actionFlip)
		}
		actions = append(actions, actionDisconnect)
	} else {
		actions = append(actions, actionConnect)
	}
	return append(actions, actionInspect, actionJournal, actionQuit)
}

func loadKeypair(cfg config.Config, submitter wallet.Submitter) (*wallet.Keypair, error) {
	if cfg.WalletSeed == "" {
		pterm.Warning.Println("WALLET_SEED not set, using a throwaway key for this session")
		return wallet.GenerateKeypair(submitter, wallet.WithGasBudget(cfg.GasBudget), wallet.WithChain(cfg.ChainID()))
	}
	seed, err := wallet.ParseSeed(cfg.WalletSeed)
	if err != nil {
		return nil, err
	}
	return wallet.NewKeypair(seed, submitter, wallet.WithGasBudget(cfg.GasBudget), wallet.WithChain(cfg.ChainID()))
}

func mustAddress(k *wallet.Keypair) string {
	address, _ := k.Address()
	return address
}

func inspect(ctx context.Context, reader escrow.ObjectReader, gameID string) {
	if gameID == "" {
		pterm.Info.Println("No game created yet")
		return
	}
	spinner, _ := pterm.DefaultSpinner.Start("Fetching escrow " + wallet.FormatAddress(gameID, 8, 6) + " ...")
	g, err := escrow.ReadGame(ctx, reader, gameID)
	if errors.Is(err, escrow.ErrGameNotFound) {
		spinner.Warning("Escrow " + gameID + " no longer exists")
		return
	}
	if err != nil {
		spinner.Fail(err.Error())
		return
	}
	spinner.Success()
	printGame(g)
}

// progress drives a spinner from orchestrator transitions.
type progress struct {
	spinner *pterm.SpinnerPrinter
}

func (p *progress) observe(s game.RoundState) {
	text := phaseText(s)
	if s.Phase == game.PhaseIdle {
		if p.spinner == nil {
			return
		}
		if s.Err != nil {
			p.spinner.Fail(text)
		} else {
			p.spinner.Success(text)
		}
		p.spinner = nil
		return
	}
	if p.spinner == nil {
		p.spinner, _ = pterm.DefaultSpinner.Start(text)
		return
	}
	p.spinner.UpdateText(text)
}

func phaseText(s game.RoundState) string {
	switch s.Phase {
	case game.PhaseCreating:
		return "Creating the game escrow ..."
	case game.PhaseJoining:
		return "Joining the game ..."
	case game.PhaseAwaitingFlip:
		return game.LabelFlipping
	case game.PhaseFinishing:
		if s.Result != flip.None {
			return "Result: " + s.Result.String() + ", settling on-chain ..."
		}
		return "Settling on-chain ..."
	}
	switch s.Settlement {
	case game.SettlementSettled:
		return "Round settled"
	case game.SettlementUnsettled:
		return "Round played, settlement failed"
	default:
		return "Round aborted"
	}
}
