// Package cli implements the droidview command-line interface.
//
// This package provides commands for capturing live pages, converting
// snapshots into Android layout resources, browsing the resulting view
// tree, and managing the conversion cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Convert a snapshot file into layout XML and debug formats
//   - capture: Load a page in headless Chrome and save its snapshot
//   - inspect: Browse the view tree of a snapshot in the terminal
//   - cache: Manage the conversion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so pipeline stages log with the same
// settings as the command.
//
// # Example
//
//	import "github.com/matzehuels/droidview/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
