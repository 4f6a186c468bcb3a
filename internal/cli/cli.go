package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add    *AddCommand
	List   *ListCommand
	Delete *DeleteCommand
	Stats  *StatsCommand
	Status *StatusCommand
	Purge  *PurgeCommand
	Serve  *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "timerlog"
	parser.LongDescription = "Record timed sessions locally and sync them with a record service when it is reachable."

	cmds := &commands{
		Add:    &AddCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Delete: &DeleteCommand{globals: &globals, version: version},
		Stats:  &StatsCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
		Serve:  &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("add", "Record a finished session", "Record a finished session. It is stored locally first and pushed to the record service when reachable.", cmds.Add)
	parser.AddCommand("list", "List sessions", "List sessions, newest first. The record service's set replaces the local cache when reachable.", cmds.List)
	parser.AddCommand("delete", "Delete a session", "Delete a session locally and, when reachable, on the record service.", cmds.Delete)
	parser.AddCommand("stats", "Show session statistics", "Show totals, average duration and daily session counts.", cmds.Stats)
	parser.AddCommand("status", "Show configuration and sync status", "Show configuration summary, local cache size and record service reachability.", cmds.Status)
	parser.AddCommand("purge", "Clear the local cache", "Delete every locally cached session. The record service is not touched.", cmds.Purge)
	parser.AddCommand("serve", "Run the record service", "Run the reference record service over HTTP.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the timerlog CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("timerlog %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
