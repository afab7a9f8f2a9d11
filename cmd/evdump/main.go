// Command evdump opens a window and prints every unified event it receives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/tinyrange/plugview/internal/window"
	"golang.org/x/term"
)

func main() {
	// Cocoa and embedded Win32 windows must stay on the thread that created
	// them.
	runtime.LockOSThread()

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "evdump: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("evdump", flag.ExitOnError)
	config := fs.String("config", "", "YAML window attributes")
	parent := fs.String("parent", "", "native parent handle to embed into (e.g. 0x1a2b)")
	title := fs.String("title", "", "window title (overrides -config)")
	wait := fs.Bool("wait", true, "block for events instead of polling")
	interval := fs.Duration("interval", 16*time.Millisecond, "poll interval when -wait=false")
	limit := fs.Int("limit", -1, "pending event limit (0 = unbounded, -1 = from config)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Open a window and print the events it receives.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	log := newLogger(*verbose)
	slog.SetDefault(log)

	attrs := window.DefaultAttributes()
	if *config != "" {
		a, err := window.LoadAttributes(*config)
		if err != nil {
			return err
		}
		attrs = a
	}
	if *title != "" {
		attrs.Title = *title
	}
	if *parent != "" {
		h, err := strconv.ParseUint(*parent, 0, 64)
		if err != nil {
			return fmt.Errorf("parse -parent: %w", err)
		}
		attrs.Parent = uintptr(h)
	}
	attrs.OnResize = func(w, h uint32) {
		log.Info("resized", slog.Uint64("width", uint64(w)), slog.Uint64("height", uint64(h)))
	}

	opts := []window.Option{window.WithLogger(log)}
	if *limit >= 0 {
		opts = append(opts, window.WithQueueLimit(*limit))
	}
	win, err := window.New(attrs, opts...)
	if err != nil {
		return err
	}
	defer win.Close()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(ansi.SetWindowTitle(attrs.Title))
	}
	log.Info("window open",
		slog.String("title", attrs.Title),
		slog.String("handle", fmt.Sprintf("%#x", win.Handle())),
		slog.Bool("embedded", win.Embedded()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *wait {
		for ev := range win.WaitEvents(ctx) {
			fmt.Println(ev)
		}
		return ctx.Err()
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		for ev := range win.PollEvents() {
			fmt.Println(ev)
		}
		select {
		case <-ctx.Done():
			if n := win.Dropped(); n > 0 {
				log.Warn("events dropped", slog.Uint64("count", n))
			}
			return ctx.Err()
		case <-win.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// newLogger logs text to a terminal and JSON otherwise.
func newLogger(verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
