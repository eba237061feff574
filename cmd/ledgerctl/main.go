// Command ledgerctl is the wallet CLI: it holds named ed25519 keys in a
// local keystore file and talks to a running ledgerd over HTTP to build,
// sign and submit transactions, following the subcommand-per-flag.FlagSet
// style of the example pack's blockchain CLI.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"ledgerbank/internal/keystore"
	"ledgerbank/internal/tx"
)

func printUsage() {
	fmt.Println(`Usage:
  ledgerctl createwallet -name NAME
  ledgerctl balance -name NAME
  ledgerctl history -name NAME
  ledgerctl send -name NAME -to ADDR -amount N -input HASH -index I -input-amount A [-msg TEXT]
  ledgerctl send_raw -file PATH
  ledgerctl reload
  ledgerctl make_block`)
}

func keystorePath() string {
	if p := os.Getenv("LEDGERCTL_KEYSTORE"); p != "" {
		return p
	}
	return "wallets.json"
}

func serverAddr() string {
	if a := os.Getenv("LEDGERCTL_SERVER"); a != "" {
		return a
	}
	return "http://127.0.0.1:8080"
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func getJSON(path string, out interface{}) {
	resp, err := http.Get(serverAddr() + path)
	if err != nil {
		fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fatalf("%s: %s", path, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			fatalf("decode response from %s: %v", path, err)
		}
	}
}

func postTx(t *tx.Transaction) {
	raw, err := json.Marshal(t)
	if err != nil {
		fatalf("encode transaction: %v", err)
	}
	resp, err := http.Post(serverAddr()+"/send_tx", "application/json", bytes.NewReader(raw))
	if err != nil {
		fatalf("send_tx: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fatalf("send_tx rejected: %s", string(body))
	}
	fmt.Println(string(body))
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	createSubCmd := flag.NewFlagSet("createwallet", flag.ExitOnError)
	createName := createSubCmd.String("name", "", "login name for the new wallet")

	balanceSubCmd := flag.NewFlagSet("balance", flag.ExitOnError)
	balanceName := balanceSubCmd.String("name", "", "wallet to query")

	historySubCmd := flag.NewFlagSet("history", flag.ExitOnError)
	historyName := historySubCmd.String("name", "", "wallet to query")

	sendSubCmd := flag.NewFlagSet("send", flag.ExitOnError)
	sendName := sendSubCmd.String("name", "", "sending wallet")
	sendTo := sendSubCmd.String("to", "", "recipient address")
	sendAmount := sendSubCmd.Int("amount", 0, "amount to send")
	sendInputHash := sendSubCmd.String("input", "", "base64url hash of the prior transaction to spend")
	sendInputIndex := sendSubCmd.Int("index", 0, "output index within the prior transaction")
	sendInputAmount := sendSubCmd.Int("input-amount", 0, "amount of the spent output")
	sendMsg := sendSubCmd.String("msg", "", "transaction message")

	sendRawSubCmd := flag.NewFlagSet("send_raw", flag.ExitOnError)
	sendRawFile := sendRawSubCmd.String("file", "", "path to a JSON-encoded transaction")

	reloadSubCmd := flag.NewFlagSet("reload", flag.ExitOnError)
	makeBlockSubCmd := flag.NewFlagSet("make_block", flag.ExitOnError)

	switch os.Args[1] {
	case "createwallet":
		_ = createSubCmd.Parse(os.Args[2:])
	case "balance":
		_ = balanceSubCmd.Parse(os.Args[2:])
	case "history":
		_ = historySubCmd.Parse(os.Args[2:])
	case "send":
		_ = sendSubCmd.Parse(os.Args[2:])
	case "send_raw":
		_ = sendRawSubCmd.Parse(os.Args[2:])
	case "reload":
		_ = reloadSubCmd.Parse(os.Args[2:])
	case "make_block":
		_ = makeBlockSubCmd.Parse(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}

	if createSubCmd.Parsed() {
		if *createName == "" {
			createSubCmd.Usage()
			os.Exit(1)
		}
		ks, err := keystore.Open(keystorePath())
		if err != nil {
			fatalf("open keystore: %v", err)
		}
		addr, err := ks.Create(*createName)
		if err != nil {
			fatalf("create wallet: %v", err)
		}
		if err := ks.Save(); err != nil {
			fatalf("save keystore: %v", err)
		}
		fmt.Println(addr)
	}

	if balanceSubCmd.Parsed() {
		if *balanceName == "" {
			balanceSubCmd.Usage()
			os.Exit(1)
		}
		addr := resolveAddress(*balanceName)
		var out map[string]interface{}
		getJSON("/balance/"+addr, &out)
		fmt.Println(out["balance"])
	}

	if historySubCmd.Parsed() {
		if *historyName == "" {
			historySubCmd.Usage()
			os.Exit(1)
		}
		addr := resolveAddress(*historyName)
		var out map[string]interface{}
		getJSON("/history/"+addr, &out)
		raw, _ := json.MarshalIndent(out["transactions"], "", "  ")
		fmt.Println(string(raw))
	}

	if sendSubCmd.Parsed() {
		if *sendName == "" || *sendTo == "" || *sendAmount <= 0 || *sendInputHash == "" {
			sendSubCmd.Usage()
			os.Exit(1)
		}
		ks, err := keystore.Open(keystorePath())
		if err != nil {
			fatalf("open keystore: %v", err)
		}
		priv, ok := ks.PrivateKey(*sendName)
		if !ok {
			fatalf("no such wallet: %s", *sendName)
		}
		txn := &tx.Transaction{
			Inputs:  []tx.TxInput{{Hash: *sendInputHash, Index: *sendInputIndex, Amount: *sendInputAmount}},
			Outputs: []tx.TxOutput{{Address: *sendTo, Amount: *sendAmount}},
			Message: *sendMsg,
		}
		txn.Sign(priv)
		postTx(txn)
	}

	if sendRawSubCmd.Parsed() {
		if *sendRawFile == "" {
			sendRawSubCmd.Usage()
			os.Exit(1)
		}
		raw, err := os.ReadFile(*sendRawFile)
		if err != nil {
			fatalf("read %s: %v", *sendRawFile, err)
		}
		var txn tx.Transaction
		if err := json.Unmarshal(raw, &txn); err != nil {
			fatalf("decode %s: %v", *sendRawFile, err)
		}
		postTx(&txn)
	}

	if reloadSubCmd.Parsed() {
		getJSON("/reload", nil)
		fmt.Println("reloaded")
	}

	if makeBlockSubCmd.Parsed() {
		var out map[string]interface{}
		getJSON("/make_block", &out)
		raw, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(raw))
	}
}

// resolveAddress treats name as a literal address if it isn't a known
// keystore entry, so ledgerctl can be pointed at third-party addresses too.
func resolveAddress(name string) string {
	ks, err := keystore.Open(keystorePath())
	if err != nil {
		return name
	}
	if addr, ok := ks.Address(name); ok {
		return addr
	}
	return name
}
