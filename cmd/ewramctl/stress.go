package main

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/ewram"
	"github.com/ewramkit/arena/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
)

var (
	stressRounds    int
	stressObjects   int
	stressStartSize int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressRounds, "rounds", 3, "Number of rounds; the object size grows tenfold each round")
	cmd.Flags().IntVar(&stressObjects, "objects", 10, "Number of objects allocated per round")
	cmd.Flags().IntVar(&stressStartSize, "start-size", 100, "Size in bytes of the objects in the first round")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run the allocation stress test over the work RAM window",
		Long: `The stress command repeatedly fills the default work RAM arena with byte
buffers, verifies their contents, and releases them in allocation order. The
object size is multiplied by ten after every round.

Example:
  ewramctl stress
  ewramctl stress --rounds 4 --objects 5 --start-size 16 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd)
		},
	}
	return cmd
}

type stressRound struct {
	ObjectSize int
	Objects    int
	Stats      memutils.DetailedStatistics
}

func runStress(cmd *cobra.Command) (err error) {
	if stressRounds < 0 || stressObjects < 0 || stressStartSize < 0 {
		return errors.New("--rounds, --objects and --start-size may not be negative")
	}

	out := cmd.OutOrStdout()
	allocator, err := openAllocator(newLogger(cmd), ewram.CreateOptions{
		Flags: ewram.AllocatorCreateTrackAllocations,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, closeAllocator(allocator))
	}()

	var rounds []stressRound
	size := stressStartSize
	for round := 0; round < stressRounds; round++ {
		result, err := stressOnce(allocator, size, stressObjects)
		if err != nil {
			return errors.Wrapf(err, "round %d", round+1)
		}
		rounds = append(rounds, result)

		if !jsonOut {
			fmt.Fprintf(out, "Survived allocation of %d byte objects for %d times (%d free blocks, %d free bytes)\n",
				size, stressObjects, result.Stats.FreeBlockCount, result.Stats.FreeBytes())
		}
		size *= 10
	}

	if jsonOut {
		writer := jwriter.NewWriter()
		arr := writer.Array()
		for _, round := range rounds {
			obj := arr.Object()
			obj.Name("ObjectSize").Int(round.ObjectSize)
			obj.Name("Objects").Int(round.Objects)
			statsObj := obj.Name("After").Object()
			round.Stats.PrintJson(&statsObj)
			statsObj.End()
			obj.End()
		}
		arr.End()
		fmt.Fprintln(out, string(writer.Bytes()))
	}

	return nil
}

// stressOnce acquires count buffers of size bytes, fills and verifies them, then releases them in
// the order they were acquired. The returned statistics describe the arena after the release.
func stressOnce(allocator *ewram.Allocator, size, count int) (stressRound, error) {
	result := stressRound{ObjectSize: size, Objects: count}
	addresses := make([]ewram.Address, 0, count)

	for i := 0; i < count; i++ {
		address, data, err := allocator.AcquireSlice(size)
		if err != nil {
			return result, errors.Wrapf(err, "object %d of %d bytes", i, size)
		}

		for j := range data {
			data[j] = 0xFF
		}
		addresses = append(addresses, address)
	}

	expected := bytes.Repeat([]byte{0xFF}, size)
	for _, address := range addresses {
		data, err := allocator.Slice(address, size)
		if err != nil {
			return result, err
		}

		if !bytes.Equal(expected, data) {
			return result, errors.Newf("object at %s was overwritten", address)
		}
	}

	for _, address := range addresses {
		err := allocator.Release(address)
		if err != nil {
			return result, err
		}
	}

	allocator.CalculateStatistics(&result.Stats)
	return result, allocator.Validate()
}
