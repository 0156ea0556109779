// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"bitrwa.org/bridge/client/bridge"
	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	"github.com/ethereum/go-ethereum/ethclient"
)

const usage = `Usage: bridgectl [options] <action> [args]

Actions:
  status                    Connect and print the session snapshot.
  verify                    Run the contract connectivity diagnostic.
  bind <destAddress>        Bind the wallet to a destination-chain address.
  approve <amount>          Approve the bridge to spend <amount> tokens.
  lock <amount> [holder]    Lock <amount> tokens for bridging.
  check <amount> [holder]   Pre-flight the lock without submitting anything.
  switch <chainID>          Ask the wallet to switch networks.
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, args, err := resolveConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New(usage)
	}
	action, actionArgs := args[0], args[1:]

	lm, err := rwa.NewLoggerMaker(os.Stderr, cfg.DebugLevel)
	if err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}
	log := lm.NewLogger("BCTL")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := bridge.NewBoundStore(filepath.Join(cfg.AppData, defaultBindingsDir), lm.SubLogger("SESS", "DB"))
	if err != nil {
		return err
	}
	defer store.Close()

	connector := bridge.NewKeystoreConnector(cfg.KeystoreDir, cfg.WalletPass, cfg.RPCURL, lm.NewLogger("CONN"))
	session, err := bridge.NewManager(&bridge.Config{
		Net:        cfg.Net,
		Connectors: []bridge.Connector{connector},
		Store:      store,
		Logger:     lm.NewLogger("SESS"),
		DialDestination: func(ctx context.Context, params *networks.ChainParams) (bridge.BalanceReader, error) {
			url := cfg.DestRPCURL
			if url == "" && len(params.RPCURLs) > 0 {
				url = params.RPCURLs[0]
			}
			return ethclient.DialContext(ctx, url)
		},
	})
	if err != nil {
		return err
	}

	if err := session.Connect(ctx, ""); err != nil {
		// An unsupported network still yields a usable session for the
		// switch action.
		if action != "switch" {
			return err
		}
		log.Warnf("Connected on an unsupported network: %v", err)
	}
	defer session.Disconnect()

	orch := bridge.NewOrchestrator(session, lm.NewLogger("ORCH"))

	switch action {
	case "status":
		return printJSON(session.Snapshot())

	case "verify":
		if err := session.VerifyContracts(ctx); err != nil {
			return err
		}
		fmt.Println("contracts OK")
		return nil

	case "bind":
		if len(actionArgs) != 1 {
			return fmt.Errorf("bind takes exactly one argument\n%s", usage)
		}
		txHash, err := session.BindWallet(ctx, actionArgs[0])
		if err != nil {
			return err
		}
		fmt.Println(txHash)
		return printJSON(session.Snapshot())

	case "approve":
		if len(actionArgs) != 1 {
			return fmt.Errorf("approve takes exactly one argument\n%s", usage)
		}
		txHash, err := orch.ApproveForBridge(ctx, actionArgs[0])
		if err != nil {
			return err
		}
		fmt.Println(txHash)
		return nil

	case "lock":
		amount, holder, err := amountAndHolder(actionArgs)
		if err != nil {
			return err
		}
		txHash, err := orch.LockAndBridge(ctx, amount, holder)
		if err != nil {
			return err
		}
		fmt.Println(txHash)
		return printJSON(session.Snapshot())

	case "check":
		amount, holder, err := amountAndHolder(actionArgs)
		if err != nil {
			return err
		}
		status, err := orch.CheckBridgeStatus(ctx, amount, holder)
		if err != nil {
			return err
		}
		return printJSON(status)

	case "switch":
		if len(actionArgs) != 1 {
			return fmt.Errorf("switch takes exactly one argument\n%s", usage)
		}
		chainID, err := strconv.ParseUint(actionArgs[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad chain id %q: %w", actionArgs[0], err)
		}
		if err := session.SwitchNetwork(ctx, chainID); err != nil {
			return err
		}
		// The refresh runs in the session's event loop. Wait for it to land
		// before printing, or the snapshot still shows the old chain.
		deadline := time.Now().Add(time.Minute)
		for {
			snap := session.Snapshot()
			settled := snap.ChainID == chainID &&
				(snap.ConnectionErr != "" || len(snap.Balances) > 0)
			if settled {
				return printJSON(snap)
			}
			if time.Now().After(deadline) {
				log.Warnf("Timed out waiting for the post-switch refresh.")
				return printJSON(snap)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
		}
	}

	return fmt.Errorf("unknown action %q\n%s", action, usage)
}

func amountAndHolder(args []string) (amount, holder string, err error) {
	switch len(args) {
	case 1:
		return args[0], "", nil
	case 2:
		return args[0], args[1], nil
	}
	return "", "", fmt.Errorf("expected <amount> [holder]\n%s", usage)
}

func printJSON(thing interface{}) error {
	b, err := json.MarshalIndent(thing, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
