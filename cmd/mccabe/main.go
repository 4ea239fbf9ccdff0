// Command mccabe designs binary distillation columns with the McCabe-Thiele
// method. See internal/cli for the subcommands.
//
// Exit status is 0 on success, 2 when the design or flags are invalid, 130
// when interrupted and 1 for any other failure.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/internal/cli"
	"github.com/matzehuels/mccabe/pkg/errors"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(os.Stderr, err))
}

// newRoot wires the global verbosity flags onto the CLI's root command.
func newRoot() *cobra.Command {
	var verbose, quiet bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log cache hits, solver steps and timings")
	flags.BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cobra.OnInitialize(func() {
		switch {
		case verbose:
			c.SetLogLevel(cli.LogDebug)
		case quiet:
			c.SetLogLevel(cli.LogWarn)
		}
	})
	return root
}

// exitCode prints err for the terminal and maps it to an exit status.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, context.Canceled):
		fmt.Fprintln(w, "mccabe: interrupted")
		return exitInterrupted
	case errors.IsInput(err):
		msg := describe(err)
		if field := errors.FieldOf(err); field != "" {
			msg = field + ": " + msg
		}
		fmt.Fprintf(w, "mccabe: invalid design: %s\n", msg)
		return exitInvalid
	}
	if code := errors.GetCode(err); code != "" {
		fmt.Fprintf(w, "mccabe: %s [%s]\n", describe(err), code)
	} else {
		fmt.Fprintf(w, "mccabe: %v\n", err)
	}
	return exitFailure
}

// describe is the error message without its code, followed by the cause.
func describe(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Cause == nil {
		return errors.UserMessage(err)
	}
	return e.Message + ": " + e.Cause.Error()
}
