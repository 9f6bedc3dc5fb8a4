// Command slither loads a puzzle file, searches for one or all
// solutions, and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/slitherlink/solver/pkg/slither"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("slither", flag.ContinueOnError)
	fs.SetOutput(stderr)

	all := fs.Bool("all", false, "find every solution instead of the first")
	threads := fs.Int("threads", 0, "worker count (0 = derive from --cpu)")
	cpuFraction := fs.Float64("cpu", 0.5, "share of hardware threads to use when --threads is 0")
	maxSolutions := fs.Int64("max-solutions", -1, "cap on solutions in --all mode (-1 = unlimited)")
	timeoutSeconds := fs.Float64("timeout", 0, "search timeout in seconds (0 = none)")
	verbose := fs.Bool("verbose", false, "print search statistics")
	quiet := fs.Bool("quiet", false, "suppress the rendered board")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: slither [flags] <path>")
		return 1
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "slither: %v\n", err)
		return 1
	}
	defer f.Close()

	grid, err := slither.LoadGrid(f)
	if err != nil {
		fmt.Fprintf(stderr, "slither: %v\n", err)
		return 1
	}

	cfg := slither.DefaultConfig()
	cfg.Threads = *threads
	cfg.CPUFraction = *cpuFraction
	cfg.FindAll = *all
	cfg.MaxSolutions = *maxSolutions
	if *timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(*timeoutSeconds * float64(time.Second))
	}

	ctx := context.Background()
	start := time.Now()

	if *all {
		result, err := slither.SolveAll(ctx, grid, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "slither: %v\n", err)
			return 1
		}
		if *verbose {
			fmt.Fprintf(stderr, "slither: found %d solution(s) in %s (complete=%v)\n",
				len(result.Solutions), time.Since(start), result.Complete)
			for _, a := range result.Alerts {
				fmt.Fprintf(stderr, "slither: warning: %s\n", a.Description)
			}
		}
		if *quiet {
			fmt.Fprintf(stdout, "%d solution(s)\n", len(result.Solutions))
		} else {
			for i, sol := range result.Solutions {
				fmt.Fprintf(stdout, "--- solution %d ---\n", i+1)
				sol := sol
				if err := slither.Render(stdout, grid, &sol); err != nil {
					fmt.Fprintf(stderr, "slither: %v\n", err)
					return 1
				}
			}
		}
		return 0
	}

	sol, ok, err := slither.SolveFirst(ctx, grid, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "slither: %v\n", err)
		return 1
	}
	if *verbose {
		fmt.Fprintf(stderr, "slither: search took %s (found=%v)\n", time.Since(start), ok)
	}
	if !ok {
		if !*quiet {
			fmt.Fprintln(stdout, "no solution")
		}
		return 0
	}
	if !*quiet {
		if err := slither.Render(stdout, grid, sol); err != nil {
			fmt.Fprintf(stderr, "slither: %v\n", err)
			return 1
		}
	}
	return 0
}
