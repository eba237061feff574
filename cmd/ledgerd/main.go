// Command ledgerd boots the ledger node: it loads configuration, opens
// the chain store, wires the ledger index and serves the HTTP API plus a
// /metrics endpoint.
package main

import (
	"log"
	"net/http"

	"ledgerbank/internal/api"
	"ledgerbank/internal/config"
	"ledgerbank/internal/keystore"
	"ledgerbank/internal/ledger"
	"ledgerbank/internal/logging"
	"ledgerbank/internal/store"
)

// withCORS lets a browser-based explorer on a different origin call this
// API without being blocked.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func openStore(cfg config.Config) store.ChainStore {
	if cfg.StoreBackend == "bbolt" {
		st, err := store.OpenBboltStore(cfg.DataFile)
		if err != nil {
			log.Fatalf("open bbolt store: %v", err)
		}
		return st
	}
	return &store.JSONStore{Path: cfg.DataFile}
}

func main() {
	cfg := config.Load()

	logger, err := logging.New(false)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	ks, err := keystore.Open("node-wallet.json")
	if err != nil {
		logger.Fatalw("open node keystore", "err", err)
	}
	minerAddr, ok := ks.Address("node")
	if !ok {
		minerAddr, err = ks.Create("node")
		if err != nil {
			logger.Fatalw("create node wallet", "err", err)
		}
		if err := ks.Save(); err != nil {
			logger.Fatalw("save node keystore", "err", err)
		}
	}
	minerPriv, _ := ks.PrivateKey("node")
	logger.Infow("node wallet ready", "address", minerAddr)

	chainStore := openStore(cfg)
	l := ledger.New(chainStore, minerPriv, cfg.Difficulty, cfg.BlockReward, ledger.WithLogger(logger))
	if err := l.Reload(); err != nil {
		logger.Fatalw("initial chain load", "err", err)
	}

	srv := api.NewServer(l, logger)
	handler := withCORS(srv.Router())

	logger.Infow("listening", "addr", cfg.HTTPAddr, "difficulty", cfg.Difficulty, "store", cfg.StoreBackend)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Fatalw("server failed", "err", err)
	}
}
