package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/ewram"
	"github.com/spf13/cobra"
)

var (
	mapBase    int
	mapEnd     int
	mapAlloc   string
	mapRelease string
)

func init() {
	cmd := newMapCmd()
	cmd.Flags().IntVar(&mapBase, "base", ewram.DefaultBase, "First address of the arena")
	cmd.Flags().IntVar(&mapEnd, "end", ewram.DefaultEnd, "Address one past the end of the arena")
	cmd.Flags().StringVar(&mapAlloc, "alloc", "", "Comma separated allocation sizes, acquired in order")
	cmd.Flags().StringVar(&mapRelease, "release", "", "Comma separated indexes into --alloc to release, in order")
	rootCmd.AddCommand(cmd)
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the block map of an arena after a sequence of operations",
		Long: `The map command formats an arena, acquires each size listed by --alloc,
releases the allocations listed by --release, and prints every block.

Example:
  ewramctl map --base 0 --end 100 --alloc 10,70 --release 0
  ewramctl map --alloc 100,200,300 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd)
		},
	}
	return cmd
}

func runMap(cmd *cobra.Command) (err error) {
	sizes, err := parseSizes(mapAlloc)
	if err != nil {
		return err
	}

	releases, err := parseSizes(mapRelease)
	if err != nil {
		return err
	}

	allocator, err := openAllocator(newLogger(cmd), ewram.CreateOptions{
		Base:  mapBase,
		End:   mapEnd,
		Flags: ewram.AllocatorCreateTrackAllocations,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, closeAllocator(allocator))
	}()

	out := cmd.OutOrStdout()
	addresses := make([]ewram.Address, len(sizes))
	for i, size := range sizes {
		addresses[i], err = allocator.Acquire(size, 4)
		if err != nil {
			return errors.Wrapf(err, "allocation %d of %d bytes", i, size)
		}

		if !jsonOut {
			fmt.Fprintf(out, "Acquire(%d) -> %s\n", size, addresses[i])
		}
	}

	for _, index := range releases {
		if index < 0 || index >= len(addresses) {
			return errors.Newf("--release index %d does not name an allocation", index)
		}

		err = allocator.Release(addresses[index])
		if err != nil {
			return errors.Wrapf(err, "release of allocation %d", index)
		}

		if !jsonOut {
			fmt.Fprintf(out, "Release(%s)\n", addresses[index])
		}
	}

	if jsonOut {
		fmt.Fprintln(out, allocator.BuildStatsString(true))
		return nil
	}

	return printBlockMap(out, allocator)
}
