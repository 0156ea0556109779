// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/config"
	"bitrwa.org/bridge/rwa/networks"
	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "bridgectl.conf"
	defaultBindingsDir    = "bindings"
)

// Config is the bridgectl configuration, settable by file or command line.
// Command-line settings take priority.
type Config struct {
	AppData    string `long:"appdata" description:"Path to application directory."`
	ConfigPath string `long:"config" description:"Path to an INI configuration file."`

	Testnet bool `long:"testnet" description:"Use the testnet deployment (Sepolia -> Rootstock testnet)."`
	Simnet  bool `long:"simnet" description:"Use the local simnet harness."`

	RPCURL     string `long:"rpcurl" description:"Source-chain RPC endpoint. Defaults to the registry entry for the selected network."`
	DestRPCURL string `long:"destrpcurl" description:"Destination-chain RPC endpoint for read-only balance lookups. Defaults to the registry entry."`

	KeystoreDir string `long:"keystore" description:"Path to a geth keystore directory holding the signing account."`
	WalletPass  string `long:"walletpass" description:"Keystore passphrase. Prefer setting this in the config file over the command line."`

	DebugLevel string `long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical}, or subsys=level pairs." default:"info"`

	// Net is resolved from the network flags after parsing.
	Net rwa.Network
}

func defaultAppDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".bridgectl")
}

// resolveConfig parses the command line and the config file. A repeated
// command-line parse after the file load gives the command line priority.
// Returns the config and the remaining positional arguments.
func resolveConfig() (*Config, []string, error) {
	cfg := &Config{AppData: defaultAppDataDir()}

	preParser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash|flags.IgnoreUnknown)
	args, err := preParser.Parse()
	if err != nil {
		return nil, nil, err
	}

	if cfg.ConfigPath == "" {
		cfg.ConfigPath = filepath.Join(cfg.AppData, defaultConfigFilename)
	}
	if _, statErr := os.Stat(cfg.ConfigPath); statErr == nil {
		if err := config.Parse(cfg.ConfigPath, cfg); err != nil {
			return nil, nil, fmt.Errorf("error parsing config file at %q: %w", cfg.ConfigPath, err)
		}
		// Command line beats the file.
		parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
		if args, err = parser.Parse(); err != nil {
			return nil, nil, err
		}
	}

	switch {
	case cfg.Testnet && cfg.Simnet:
		return nil, nil, fmt.Errorf("--testnet and --simnet are mutually exclusive")
	case cfg.Testnet:
		cfg.Net = rwa.Testnet
	case cfg.Simnet:
		cfg.Net = rwa.Simnet
	default:
		cfg.Net = rwa.Mainnet
	}

	if cfg.RPCURL == "" {
		if params, found := networks.Chain(networks.SourceChainIDs[cfg.Net]); found {
			cfg.RPCURL = params.RPCURLs[0]
		}
	}
	if cfg.DestRPCURL == "" {
		if params, found := networks.Chain(networks.DestinationChainIDs[cfg.Net]); found {
			cfg.DestRPCURL = params.RPCURLs[0]
		}
	}
	if cfg.KeystoreDir == "" {
		cfg.KeystoreDir = filepath.Join(cfg.AppData, "keystore")
	}

	if err := os.MkdirAll(cfg.AppData, 0700); err != nil {
		return nil, nil, fmt.Errorf("error creating app directory: %w", err)
	}

	return cfg, args, nil
}
