// Package api exposes the ledger over HTTP: balance and history lookups,
// transaction submission, block sealing and the block explorer endpoints
// (§4.6), using gorilla/mux for routing the way the original wallet API
// did, and a Prometheus /metrics endpoint alongside it.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledgerbank/internal/codec"
	"ledgerbank/internal/ledger"
	"ledgerbank/internal/logging"
	"ledgerbank/internal/tx"
)

// Server wires the ledger index into HTTP handlers.
type Server struct {
	Ledger *ledger.Ledger
	Log    *logging.Logger
}

// NewServer constructs a Server bound to l, logging through log.
func NewServer(l *ledger.Ledger, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{Ledger: l, Log: log}
}

// Router builds the mux.Router for the server's endpoints.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/balance/{addr}", s.GetBalance).Methods(http.MethodGet)
	r.HandleFunc("/history/{addr}", s.GetHistory).Methods(http.MethodGet)
	r.HandleFunc("/send_tx", s.SendTx).Methods(http.MethodPost)
	r.HandleFunc("/reload", s.Reload).Methods(http.MethodGet)
	r.HandleFunc("/tx/{hash}", s.GetTx).Methods(http.MethodGet)
	r.HandleFunc("/make_block", s.MakeBlock).Methods(http.MethodGet)
	r.HandleFunc("/blocks", s.ListBlocks).Methods(http.MethodGet)
	r.HandleFunc("/blocks/{num}", s.GetBlock).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())
	r.Use(s.withRequestID)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps a domain error to an HTTP status the way §7 separates
// validation failures (client error) from I/O failures (server error).
func statusFor(err error) int {
	switch err.(type) {
	case *tx.InvalidError, *codec.BadEncodingError, notFoundError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetBalance serves GET /balance/{addr}.
func (s *Server) GetBalance(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["addr"]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": addr,
		"balance": s.Ledger.Balance(addr),
	})
}

// GetHistory serves GET /history/{addr}.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["addr"]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":      addr,
		"transactions": s.Ledger.History(addr),
	})
}

// SendTx serves POST /send_tx: decodes a signed transaction and submits
// it to the ledger index.
func (s *Server) SendTx(w http.ResponseWriter, r *http.Request) {
	var txn tx.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		writeError(w, http.StatusBadRequest, &codec.BadEncodingError{Kind: "transaction", Err: err})
		return
	}
	if err := s.Ledger.Submit(&txn); err != nil {
		s.Log.Warnw("send_tx rejected", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hash": codec.ToB64(txn.Hash())})
}

// Reload serves GET /reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.Ledger.Reload(); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// GetTx serves GET /tx/{hash}, where hash is the base64url transaction
// content hash.
func (s *Server) GetTx(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]
	t, ok := s.Ledger.Tx(hash)
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound("transaction"))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// MakeBlock serves GET /make_block: seals the current open block.
func (s *Server) MakeBlock(w http.ResponseWriter, r *http.Request) {
	b, err := s.Ledger.SealCurrentBlock(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ListBlocks serves the supplemented GET /blocks explorer endpoint.
func (s *Server) ListBlocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Ledger.Blocks())
}

// GetBlock serves the supplemented GET /blocks/{num} explorer endpoint.
func (s *Server) GetBlock(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.Atoi(mux.Vars(r)["num"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errNotFound("block"))
		return
	}
	b, ok := s.Ledger.Block(num)
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound("block"))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type notFoundError struct{ what string }

func (e notFoundError) Error() string { return e.what + " not found" }

func errNotFound(what string) error { return notFoundError{what: what} }
