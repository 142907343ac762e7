package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"tomlfmt/internal/observ"
	"tomlfmt/internal/trace"
)

// session is the process-wide state set up before a command runs: tracing,
// profiling and the timings collector. It is torn down exactly once, also when
// the command fails and cobra skips the post-run hook.
var session struct {
	once     sync.Once
	trace    *trace.Session
	stopProf func()
	timer    *observ.Timer
}

func setupSession(cmd *cobra.Command, _ []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	session.stopProf = stopProf

	sess, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	session.trace = sess
	ctx = trace.WithSession(ctx, sess)

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		session.timer = observ.NewTimer()
		ctx = observ.WithTimer(ctx, session.timer)
	}

	cmd.SetContext(ctx)
	return nil
}

func finishSession(*cobra.Command, []string) error {
	teardown(nil)
	return nil
}

// teardown prints timings, dumps the trace ring when the run failed and stops
// profilers. Safe to call more than once.
func teardown(runErr error) {
	session.once.Do(func() {
		if session.timer != nil {
			printTimings(os.Stderr, session.timer)
		}
		if session.trace != nil {
			if runErr != nil && session.trace.Ring != nil {
				fmt.Fprintln(os.Stderr, "trace: last events before failure:")
				if err := session.trace.Ring.Dump(os.Stderr, trace.FormatText); err != nil {
					fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
				}
			}
			if err := session.trace.Tracer.Flush(); err != nil {
				fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
			}
			if err := session.trace.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
			}
		}
		if session.stopProf != nil {
			session.stopProf()
		}
	})
}
