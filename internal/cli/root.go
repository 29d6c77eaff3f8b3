package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/matzehuels/carousel/pkg/errors"
)

// Execute runs the carousel CLI and returns an error if any command fails.
// This is the main entry point for the CLI application. Failures are
// printed to stderr before returning; cancellation is not.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, plus layout/cache/store/HTTP events
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		reportError(os.Stderr, err)
	}
	return err
}

// reportError prints err. Caller mistakes show only the message; other
// failures keep the code and cause for bug reports.
func reportError(w io.Writer, err error) {
	if errors.IsPrecondition(err) || errors.Is(err, errors.ErrCodePresetNotFound) {
		printError(w, "%s", errors.UserMessage(err))
		return
	}
	printError(w, "%v", err)
}
