// Command mw-log is a tool for viewing and analyzing driver protocol log
// files.
//
// Log files are created with the -protocol-log flag of mw-console, or by
// any application that wires a log.FileLogger into its Device.
//
// Usage:
//
//	mw-log <command> [flags] <file.mwlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	mw-log view session.mwlog
//
//	# View only raw bus transfers
//	mw-log view -layer bus session.mwlog
//
//	# View only bytes clocked in from the device
//	mw-log view -direction in session.mwlog
//
//	# Show statistics
//	mw-log stats session.mwlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/microwire-protocol/microwire-go/cmd/mw-log/commands"
	"github.com/microwire-protocol/microwire-go/pkg/log"
)

const usage = `mw-log - Driver Protocol Log Analyzer

Usage:
  mw-log <command> [flags] <file.mwlog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "mw-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	session := fs.String("session", "", "filter by session ID")
	layer := fs.String("layer", "", "filter by layer (bus, command, device)")
	direction := fs.String("direction", "", "filter by direction (in, out)")
	_ = fs.Parse(args)

	path := requirePath(fs)

	filter, err := commands.BuildFilter(*session, *layer, *direction)
	if err != nil {
		fatal(err)
	}
	if err := commands.View(os.Stdout, path, filter); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	session := fs.String("session", "", "filter by session ID")
	_ = fs.Parse(args)

	path := requirePath(fs)

	if err := commands.Stats(os.Stdout, path, log.Filter{SessionID: *session}); err != nil {
		fatal(err)
	}
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one log file argument")
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "mw-log: %v\n", err)
	os.Exit(1)
}
