// Command walletsim drives the session state machine against an
// in-process score service with a scripted wallet, printing the session
// snapshot after each step. Useful for eyeballing the connection
// lifecycle without a browser or a real wallet.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fancred/fancred/internal/adapters/genai"
	"github.com/fancred/fancred/internal/adapters/ledger"
	"github.com/fancred/fancred/internal/app"
	"github.com/fancred/fancred/internal/domain/session"
	"github.com/fancred/fancred/pkg/logger"
)

const (
	demoAccount  = "0x22821210811e59de6A493A6C774134c311546554"
	otherAccount = "0x87971c681F613C5d15aA2e2425881204644e43A9"
	wrongChainID = int64(1)

	settleDelay = 300 * time.Millisecond
)

// scriptedWallet is an EventSource that confirms every request
// immediately, first on the wrong chain to show the mismatch path.
type scriptedWallet struct {
	events  chan session.WalletEvent
	chainID int64
}

func newScriptedWallet() *scriptedWallet {
	return &scriptedWallet{
		events:  make(chan session.WalletEvent, 8),
		chainID: wrongChainID,
	}
}

func (w *scriptedWallet) Events() <-chan session.WalletEvent { return w.events }

func (w *scriptedWallet) RequestConnect(ctx context.Context) error {
	w.events <- session.WalletEvent{
		Type:    session.EventProviderConfirmed,
		Account: demoAccount,
		ChainID: w.chainID,
	}
	return nil
}

func (w *scriptedWallet) RequestSwitchNetwork(ctx context.Context, chainID int64) error {
	w.chainID = chainID
	w.events <- session.WalletEvent{Type: session.EventSwitchResult, Succeeded: true}
	return nil
}

func (w *scriptedWallet) Disconnect(ctx context.Context) error {
	w.events <- session.WalletEvent{Type: session.EventDisconnected}
	return nil
}

func (w *scriptedWallet) switchAccount(account string) {
	w.events <- session.WalletEvent{
		Type:    session.EventAccountChanged,
		Account: account,
		ChainID: w.chainID,
	}
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	_ = logger.SetLevelString("warn") // keep the walkthrough output readable

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := app.New(app.WithLedger(ledger.NewSimReader()))
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	wallet := newScriptedWallet()
	machine := session.New(wallet, svc,
		session.WithGenerator(genai.NewSimGenerator(genai.WithLatency(10*time.Millisecond))),
	)
	machine.Start(ctx)
	defer machine.Stop()

	step := func(name string, fn func()) {
		fn()
		time.Sleep(settleDelay)
		st := machine.Snapshot()
		fmt.Printf("== %s\n   status=%s network_ok=%v account=%s\n", name, st.Status, st.OnCorrectNetwork, st.Account)
		if st.Score != nil {
			fmt.Printf("   score=%d level=%s nfts=%d rituals=%d\n",
				st.Score.Score, st.Score.FanLevel, st.Score.NFTsHeld, st.Score.RitualsCompleted)
		}
		if st.LastError != "" {
			fmt.Printf("   last_error=%s\n", st.LastError)
		}
	}

	step("connect (lands on wrong chain)", func() { machine.RequestConnect(ctx) })
	step("switch to target network", func() { machine.RequestSwitchNetwork(ctx) })
	step("switch active account", func() { wallet.switchAccount(otherAccount) })
	step("generate fan analysis", func() {
		if _, err := machine.Generate(ctx, genai.KindFanAnalysis, ""); err != nil {
			fmt.Printf("   generation error: %v\n", err)
		}
	})
	step("disconnect", func() { machine.Disconnect(ctx) })
}
