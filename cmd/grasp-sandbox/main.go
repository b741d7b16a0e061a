package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/grasp/internal/core/interaction"
	"github.com/zeusync/grasp/internal/injector"
	"github.com/zeusync/grasp/internal/session"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config, defaults when empty")
	frame := flag.Duration("frame", 11100*time.Microsecond, "presentation frame interval")
	frames := flag.Int("frames", 0, "stop after this many frames, 0 runs until interrupted")
	demo := flag.Bool("demo", true, "run the scripted grab and release demo on the mock backend")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	left, right := interaction.NewScriptedInput(), interaction.NewScriptedInput()
	s, cleanup, err := injector.InitializeSession(injector.ConfigPath(*configPath), session.Hardware{
		LeftInput:  left,
		RightInput: right,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting session:", err)
		os.Exit(1)
	}
	defer cleanup()

	var script *demoScript
	if *demo {
		script = newDemoScript(s, right)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	if b, ok := s.Bridge(); ok {
		g.Go(func() error { return b.Serve(gctx) })
	}
	g.Go(func() error {
		// the bridge stops with the tick loop
		defer cancel()
		return run(gctx, s, *frame, *frames, script)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cleanup()
		os.Exit(1)
	}
}

// run drives the session at a fixed presentation rate on this goroutine
// until ctx is done or the frame budget is spent.
func run(ctx context.Context, s *session.Session, interval time.Duration, limit int, script *demoScript) error {
	if err := s.Start(); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := float32(interval.Seconds())
	for n := 1; limit == 0 || n <= limit; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if script != nil {
			script.step(n)
		}
		if err := s.Frame(dt); err != nil {
			return err
		}
	}
	return nil
}
