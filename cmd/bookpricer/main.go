// Command bookpricer streams ADD/REDUCE order-book commands from stdin
// and prints the marginal price of a fixed target size whenever it
// changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"bookpricer/internal/feed"
	"bookpricer/internal/pricer"
)

const (
	exitOK        = 0
	exitBadArgs   = 2
	exitInvariant = 1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("bookpricer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log-level", "info", "zerolog level: debug, info, warn, error")
	warnOverReduce := fs.Bool("warn-over-reduce", false, "log a warning when a REDUCE amount is clamped")
	warnDuplicateAdd := fs.Bool("warn-duplicate-add", false, "log a warning (instead of info) for a duplicate-id ADD")

	if err := fs.Parse(args); err != nil {
		return exitBadArgs
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: bookpricer [options] <target-size>")
		fs.PrintDefaults()
		return exitBadArgs
	}

	target, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || target <= 0 {
		fmt.Fprintf(stderr, "bookpricer: target size must be a positive integer, got %q\n", fs.Arg(0))
		return exitBadArgs
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "bookpricer: invalid --log-level %q\n", *logLevel)
		return exitBadArgs
	}
	log.Logger = zerolog.New(stderr).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mainLoop(ctx, stdin, stdout, target, *warnOverReduce, *warnDuplicateAdd)
}

func mainLoop(ctx context.Context, stdin *os.File, stdout *os.File, target int64, warnOverReduce, warnDuplicateAdd bool) (code int) {
	p := pricer.New(target,
		pricer.WithWarnOverReduce(warnOverReduce),
		pricer.WithWarnDuplicateAdd(warnDuplicateAdd),
	)
	defer p.Close()

	t, ctx := tomb.WithContext(ctx)
	reader := feed.NewReader(t, stdin)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("run_id", p.RunID()).Interface("panic", r).Msg("invariant violated, aborting")
			code = exitInvariant
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK

		case line, ok := <-reader.Lines():
			if !ok {
				return exitOK
			}
			processLine(p, stdout, line)
		}
	}
}

func processLine(p *pricer.Pricer, stdout *os.File, line string) {
	cmd, err := feed.ParseLine(line)
	if err != nil {
		log.Error().Err(err).Str("line", line).Msg("skipping malformed input line")
		return
	}

	result := p.Apply(cmd)
	if !result.Emit {
		return
	}

	if err := feed.WriteQuote(stdout, result.Timestamp, result.OutSide, result.Quote); err != nil {
		log.Error().Err(err).Msg("failed writing output line")
	}
}
