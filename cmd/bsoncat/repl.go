package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/lazybson/lazybson/pkg/bson"
)

// replDoc is one document reachable from the REPL: its position in the
// stream and the lazy Document itself.
type replDoc struct {
	index int
	doc   *bson.Document
}

// REPL is bsoncat's interactive command loop over a single opened Buffer.
type REPL struct {
	buf    *bson.Buffer
	cfg    Config
	liner  *liner.State
	cur    *replDoc // currently selected document, nil until "next"
	loaded []replDoc
	it     *bson.BufferIterator
}

func newREPL(data []byte, cfg Config) (*REPL, error) {
	buf, err := bson.NewBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("opening buffer: %w", err)
	}

	return &REPL{buf: buf, cfg: cfg, it: buf.Iterate()}, nil
}

func (r *REPL) close() error {
	return r.buf.Close()
}

// historyFile returns the configured history path, or ~/.bsoncat_history.
func (r *REPL) historyFile() string {
	if r.cfg.HistoryFile != "" {
		return r.cfg.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".bsoncat_history")
}

func (r *REPL) run(sourcePath string) error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(r.historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("bsoncat - %s\n", sourcePath)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("bsoncat> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "next", "n":
			r.cmdNext()

		case "keys":
			r.cmdKeys()

		case "get":
			r.cmdGet(args)

		case "len":
			r.cmdLen()

		case "inflate":
			r.cmdInflate()

		case "dump":
			r.cmdDump(args)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := r.historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"next", "n", "keys", "get", "len", "inflate", "dump",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  next / n          Advance to and select the next document in the stream")
	fmt.Println("  keys              List the selected document's keys")
	fmt.Println("  get <key>         Print the selected document's value for key")
	fmt.Println("  len               Print the selected document's field count")
	fmt.Println("  inflate           Force the selected document to inflate")
	fmt.Println("  dump [n]          Print the selected document's full repr (n must be a number; it does not limit depth)")
	fmt.Println("  help              Show this help")
	fmt.Println("  exit / quit / q   Exit")
}

func (r *REPL) requireSelected() (*bson.Document, bool) {
	if r.cur == nil {
		fmt.Println("No document selected. Use 'next' first.")

		return nil, false
	}

	return r.cur.doc, true
}

func (r *REPL) cmdNext() {
	doc, ok, err := r.it.Next()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	if !ok {
		fmt.Println("(end of stream)")

		return
	}

	idx := len(r.loaded)
	entry := replDoc{index: idx, doc: doc}
	r.loaded = append(r.loaded, entry)
	r.cur = &r.loaded[idx]

	fmt.Printf("Selected document %d\n", idx)
}

func (r *REPL) cmdKeys() {
	doc, ok := r.requireSelected()
	if !ok {
		return
	}

	keys, err := doc.Keys()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	if len(keys) == 0 {
		fmt.Println("(no keys)")

		return
	}

	for i, k := range keys {
		fmt.Printf("%3d. %s\n", i+1, k)
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")

		return
	}

	doc, ok := r.requireSelected()
	if !ok {
		return
	}

	v, err := doc.Get(args[0])
	if err != nil {
		var keyErr *bson.KeyError
		if errors.As(err, &keyErr) {
			fmt.Println("(key not found)")

			return
		}

		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Println(formatValue(v))
}

func (r *REPL) cmdLen() {
	doc, ok := r.requireSelected()
	if !ok {
		return
	}

	n, err := doc.Len()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("Fields: %d\n", n)
}

func (r *REPL) cmdInflate() {
	doc, ok := r.requireSelected()
	if !ok {
		return
	}

	if err := doc.Inflate(); err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Println("OK: inflated")
}

func (r *REPL) cmdDump(args []string) {
	doc, ok := r.requireSelected()
	if !ok {
		return
	}

	if len(args) >= 1 {
		if _, err := strconv.Atoi(args[0]); err != nil {
			fmt.Println("Usage: dump [n]")

			return
		}
	}

	fmt.Println(doc.String())
}

func formatValue(v any) string {
	switch x := v.(type) {
	case *bson.Document:
		return x.String()
	case string:
		return strconv.Quote(x)
	case nil:
		return "None"
	default:
		return fmt.Sprint(x)
	}
}
