// bsoncat is an interactive inspector for files holding a stream of
// length-prefixed BSON documents back to back: it opens the file once,
// decodes documents lazily on demand, and lets you walk, print, or dump them
// without ever mutating the underlying bytes.
//
// Usage:
//
//	bsoncat [flags] <bson-file>
//
// Flags:
//
//	-c, --config string   Path to an explicit JSONC config file
//	-p, --pretty           Label each document in --dump output
//	    --show-config       Print the resolved config and exit
//	    --dump string       Decode every document to <string> and exit (no REPL)
package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lazybson/lazybson/internal/fs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	flagSet := flag.NewFlagSet("bsoncat", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	configPath := flagSet.StringP("config", "c", "", "path to an explicit JSONC config file")
	pretty := flagSet.BoolP("pretty", "p", false, "label each document in --dump output")
	showConfig := flagSet.Bool("show-config", false, "print the resolved config and exit")
	dumpTo := flagSet.String("dump", "", "decode every document to this file and exit (no REPL)")

	flagSet.Usage = func() { printUsage(errOut) }

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 2
	}

	if hasHelpFlag(args) {
		printUsage(out)

		return 0
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	cfg, _, err := LoadConfig(workDir, *configPath, Config{Pretty: *pretty}, flagSet.Changed("pretty"), os.Environ())
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	if *showConfig {
		formatted, err := FormatConfig(cfg)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)

			return 1
		}

		fmt.Fprintln(out, formatted)

		return 0
	}

	if flagSet.NArg() < 1 {
		printUsage(errOut)

		return 2
	}

	bsonPath := flagSet.Arg(0)

	real := fs.NewReal()

	data, err := real.ReadFile(bsonPath)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	if *dumpTo != "" {
		if err := runDump(real, data, *dumpTo, cfg); err != nil {
			fmt.Fprintln(errOut, "error:", err)

			return 1
		}

		return 0
	}

	repl, err := newREPL(data, cfg)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}
	defer repl.close()

	if err := repl.run(bsonPath); err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	return 0
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return true
		}
	}

	return false
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: bsoncat [flags] <bson-file>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  -c, --config string   path to an explicit JSONC config file")
	fmt.Fprintln(out, "  -p, --pretty           label each document in --dump output")
	fmt.Fprintln(out, "      --show-config      print the resolved config and exit")
	fmt.Fprintln(out, "      --dump string      decode every document to this file and exit (no REPL)")
}
