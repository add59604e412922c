package main

import (
	"os"
	"path/filepath"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/revwallet/internal/application/wallet"
	"github.com/altuslabsxyz/revwallet/internal/balance"
	"github.com/altuslabsxyz/revwallet/internal/config"
	"github.com/altuslabsxyz/revwallet/internal/confirm"
	"github.com/altuslabsxyz/revwallet/internal/infrastructure/indexer"
	"github.com/altuslabsxyz/revwallet/internal/infrastructure/keystore"
	"github.com/altuslabsxyz/revwallet/internal/infrastructure/node"
	"github.com/altuslabsxyz/revwallet/internal/infrastructure/persistence"
	"github.com/altuslabsxyz/revwallet/internal/ledger"
	"github.com/altuslabsxyz/revwallet/internal/poller"
	"github.com/altuslabsxyz/revwallet/internal/submit"
)

// App holds the wired engine for one command invocation.
type App struct {
	Config   *config.Config
	Network  config.Network
	Node     *node.Client
	Keystore *keystore.Keystore
	Ledger   *ledger.Ledger
	Cache    *balance.Cache
	Resolver *confirm.Resolver
	Poller   *poller.Orchestrator
	Service  *wallet.Service
	Logger   log.Logger
}

// newApp loads configuration and wires the engine against the selected
// network. Everything is constructed here and injected; no package-level
// engine state exists.
func newApp() (*App, error) {
	logger := log.NewNopLogger()
	if verbose {
		logger = log.NewLogger(os.Stderr)
	}

	cfg, err := config.Load(effectiveConfigPath())
	if err != nil {
		return nil, err
	}
	net, err := cfg.Lookup(networkName)
	if err != nil {
		return nil, err
	}

	nodeClient := node.NewClient(node.Endpoints{
		Validator: net.ValidatorURL,
		ReadOnly:  net.ReadOnlyURL,
		Admin:     net.AdminURL,
	}, logger)

	ks, err := keystore.NewKeystore(filepath.Join(homeDir, "keystore"), logger)
	if err != nil {
		return nil, err
	}

	store, err := persistence.NewFileStore(filepath.Join(homeDir, "data", net.Name))
	if err != nil {
		return nil, err
	}
	led, err := ledger.NewLedger(store, logger)
	if err != nil {
		return nil, err
	}

	cache := balance.NewCache(nodeClient, logger)
	idx := indexer.NewClient(net.IndexerURL, cfg.PageOrigin, logger)
	resolver := confirm.NewResolver(idx, nodeClient, logger)
	submitter := submit.NewSubmitter(nodeClient, logger)
	sink := wallet.NewLogSink(log.NewLogger(os.Stderr))
	orch := poller.NewOrchestrator(led, resolver, cache, nodeClient, sink, logger)

	svc := wallet.NewService(nodeClient, ks, cache, led, submitter, orch, wallet.Options{
		ShardID: net.ShardID,
	}, logger)

	return &App{
		Config:   cfg,
		Network:  net,
		Node:     nodeClient,
		Keystore: ks,
		Ledger:   led,
		Cache:    cache,
		Resolver: resolver,
		Poller:   orch,
		Service:  svc,
		Logger:   logger,
	}, nil
}
