package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"go.dedis.ch/kyber/v4"

	"github.com/luca-patrignani/coin-flip/escrow"
	"github.com/luca-patrignani/coin-flip/flip"
	"github.com/luca-patrignani/coin-flip/game"
	"github.com/luca-patrignani/coin-flip/ledger"
	"github.com/luca-patrignani/coin-flip/wallet"
)

func resultString(o flip.Outcome) string {
	switch o {
	case flip.Win:
		return pterm.LightGreen("WIN")
	case flip.Lose:
		return pterm.LightRed("LOSE")
	default:
		return pterm.Gray("-")
	}
}

func statusString(v game.View) string {
	switch {
	case !v.IsConnected:
		return pterm.LightYellow(v.StatusLabel)
	case v.IsFlipping:
		return pterm.LightCyan(v.StatusLabel)
	case v.Result == flip.Win:
		return pterm.LightGreen(v.StatusLabel)
	case v.Result == flip.Lose:
		return pterm.LightRed(v.StatusLabel)
	default:
		return v.StatusLabel
	}
}

func settlementString(s game.Settlement) string {
	switch s {
	case game.SettlementSettled:
		return pterm.LightGreen("settled on-chain")
	case game.SettlementUnsettled:
		return pterm.LightRed("not settled, escrow left open")
	case game.SettlementErrored:
		return pterm.LightRed("round failed")
	default:
		return pterm.Gray("-")
	}
}

func printView(v game.View, s game.RoundState, stake uint64) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(6).WithTopPadding(1).WithBottomPadding(1)
	address := pterm.Gray("not connected")
	if v.IsConnected {
		address = pterm.LightCyan(wallet.FormatAddress(v.Address, 6, 4))
	}
	status := pbox.WithTitle(pterm.LightYellow("|COIN FLIP|")).WithTitleTopCenter().Sprintf(
		"%s\n\nWallet: %s\nStake: %d\nRounds played: %d",
		statusString(v), address, stake, v.RoundsPlayed,
	)
	last := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1).
		WithTitle("|LAST ROUND|").WithTitleTopLeft().Sprintf(
		"Result: %s\nGame: %s\nSettlement: %s",
		resultString(v.Result), formatObjectID(s.GameID), settlementString(s.Settlement),
	)
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{{Data: status}, {Data: last}},
	}).Render()
	if s.Err != nil {
		pterm.Error.Println(s.Err.Error())
	}
}

func formatObjectID(id string) string {
	if id == "" {
		return pterm.Gray("-")
	}
	return wallet.FormatAddress(id, 8, 6)
}

// journalRows lays out the journal for a table, verifying each receipt
// against the session key.
func journalRows(rounds []ledger.Round, pub kyber.Point) [][]string {
	rows := [][]string{{"#", "Game", "Stage", "Result", "Winner", "Settled", "Receipt"}}
	for i, r := range rounds {
		receipt := "-"
		if r.Receipt != nil {
			receipt = "valid"
			if err := flip.VerifyReceipt(pub, *r.Receipt); err != nil {
				receipt = "INVALID"
			}
		}
		settled := "yes"
		if !r.Settled {
			settled = "no"
		}
		result := "-"
		if r.Result != flip.None {
			result = r.Result.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			orDash(wallet.FormatAddress(r.GameID, 8, 6)),
			string(r.Stage),
			result,
			orDash(wallet.FormatAddress(r.Winner, 6, 4)),
			settled,
			receipt,
		})
	}
	return rows
}

func printJournal(j *ledger.Journal, pub kyber.Point) {
	if j.Len() == 0 {
		pterm.Info.Println("No rounds played yet")
		return
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(journalRows(j.Rounds(), pub)).Render()
	if err := j.Verify(); err != nil {
		pterm.Error.Printfln("Journal is corrupted: %s", err)
	} else {
		pterm.Success.Printfln("Journal verified, %d rounds", j.Len())
	}
	for _, o := range j.Orphans() {
		msg := "escrow " + o.GameID + " was never settled"
		if o.Error != "" {
			msg += ": " + o.Error
		}
		pterm.Warning.Println(msg)
	}
}

// gameRows lays out the content fields of an escrow object, sorted by name.
func gameRows(g escrow.Game) [][]string {
	rows := [][]string{{"Field", "Value"}}
	names := make([]string, 0, len(g.Fields))
	for name := range g.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []string{name, string(g.Fields[name])})
	}
	return rows
}

func printGame(g escrow.Game) {
	pterm.DefaultSection.Println(fmt.Sprintf("Escrow %s (version %s)", g.ID, g.Version))
	pterm.Info.Println(g.Type)
	pterm.DefaultTable.WithHasHeader().WithData(gameRows(g)).Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
