package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/ewram"
	"github.com/ewramkit/arena/memutils/freelist"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "ewramctl",
	Short: "Exercise and inspect the ewram arena allocator",
	Long: `ewramctl drives the ewram first-fit arena allocator from the command line.
It can replay the reference allocation scenario, run the allocation stress test
against the full work RAM window, and print the block map of an arena after an
arbitrary sequence of allocations.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Trace every allocator operation to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openAllocator creates the allocator behind every command. Tests swap it out to inspect the
// allocator once a command returns.
var openAllocator = ewram.New

// closeAllocator releases whatever the command left allocated and destroys the allocator, so an
// mmap backed arena is unmapped on every exit path
func closeAllocator(allocator *ewram.Allocator) error {
	blocks, err := blockMap(allocator)
	if err != nil {
		return err
	}

	for _, block := range blocks {
		if block.free {
			continue
		}

		err = allocator.Release(block.address)
		if err != nil {
			return errors.Wrapf(err, "release %s", block.address)
		}
	}

	return allocator.Destroy()
}

// newLogger returns the logger handed to every allocator the commands create. Without --verbose only
// warnings and errors, such as leak reports, are written.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// printBlockMap writes one line per block of the arena in address order
func printBlockMap(out io.Writer, allocator *ewram.Allocator) error {
	blocks, err := blockMap(allocator)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Arena [%s, %s), %d bytes\n", allocator.Base(), allocator.End(), allocator.Size())
	for _, block := range blocks {
		state := "used"
		if block.free {
			state = "free"
		}
		fmt.Fprintf(out, "  [%4d, %4d) %-4s size %d\n", block.offset, block.offset+block.size, state, block.size)
	}

	return nil
}

type mapEntry struct {
	address ewram.Address
	offset  int
	size    int
	free    bool
}

func blockMap(allocator *ewram.Allocator) ([]mapEntry, error) {
	var entries []mapEntry
	err := allocator.VisitAllBlocks(func(handle freelist.Pointer, offset int, size int, free bool) error {
		entries = append(entries, mapEntry{
			address: allocator.Base() + ewram.Address(handle),
			offset:  offset,
			size:    size,
			free:    free,
		})
		return nil
	})

	return entries, err
}

// parseSizes parses a comma separated list of allocation sizes
func parseSizes(list string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		size, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid allocation size %q", field)
		}
		sizes = append(sizes, size)
	}

	return sizes, nil
}
