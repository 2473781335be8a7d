package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/ewram"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newScenarioCmd())
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Replay the reference allocation scenario",
		Long: `The scenario command formats a 100-byte arena at address 0, acquires 10 and
then 70 bytes, and releases the first allocation, printing the block map after
every step. The final map holds a free block [0,20) and a used block [20,100):
the freed block is not merged because its successor is still in use.

Example:
  ewramctl scenario
  ewramctl scenario --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd)
		},
	}
	return cmd
}

func runScenario(cmd *cobra.Command) (err error) {
	out := cmd.OutOrStdout()

	allocator, err := openAllocator(newLogger(cmd), ewram.CreateOptions{
		Base:  0,
		End:   100,
		Flags: ewram.AllocatorCreateTrackAllocations | ewram.AllocatorCreateValidateAlways,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, closeAllocator(allocator))
	}()

	step := func(title string) error {
		if jsonOut {
			return nil
		}

		fmt.Fprintln(out, title)
		return printBlockMap(out, allocator)
	}

	if err := step("Initial state"); err != nil {
		return err
	}

	first, err := allocator.Acquire(10, 4)
	if err != nil {
		return errors.Wrap(err, "acquire 10 bytes")
	}
	if err := step(fmt.Sprintf("Acquire(10) -> %s", first)); err != nil {
		return err
	}

	second, err := allocator.Acquire(70, 4)
	if err != nil {
		return errors.Wrap(err, "acquire 70 bytes")
	}
	if err := step(fmt.Sprintf("Acquire(70) -> %s", second)); err != nil {
		return err
	}

	if err := allocator.Release(first); err != nil {
		return errors.Wrapf(err, "release %s", first)
	}
	if err := step(fmt.Sprintf("Release(%s)", first)); err != nil {
		return err
	}

	if jsonOut {
		fmt.Fprintln(out, allocator.BuildStatsString(true))
	}

	return nil
}
