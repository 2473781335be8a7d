package ewram

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/memutils"
	"github.com/ewramkit/arena/memutils/freelist"
	mock_freelist "github.com/ewramkit/arena/memutils/freelist/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mockAllocator(t *testing.T, ctrl *gomock.Controller, options CreateOptions) (*mock_freelist.MockBlockMetadata, *Allocator) {
	t.Helper()

	metadata := mock_freelist.NewMockBlockMetadata(ctrl)
	allocator := newAllocator(discardLogger(), options, testBase, testBase+0x100, metadata)

	return metadata, allocator
}

func TestAcquireTranslatesPointers(t *testing.T) {
	ctrl := gomock.NewController(t)

	var acquired, released []Address
	metadata, allocator := mockAllocator(t, ctrl, CreateOptions{
		MemoryCallbackOptions: &MemoryCallbackOptions{
			Acquire: func(allocator *Allocator, address Address, size int, userData interface{}) {
				require.Equal(t, 12, size)
				acquired = append(acquired, address)
			},
			Release: func(allocator *Allocator, address Address, size int, userData interface{}) {
				require.Equal(t, 12, size)
				released = append(released, address)
			},
		},
	})

	gomock.InOrder(
		metadata.EXPECT().Acquire(10, uint(4)).Return(freelist.Pointer(28), nil),
		metadata.EXPECT().AllocationSize(freelist.Pointer(28)).Return(12, nil),
		metadata.EXPECT().AllocationSize(freelist.Pointer(28)).Return(12, nil),
		metadata.EXPECT().Release(freelist.Pointer(28)),
	)

	address, err := allocator.Acquire(10, 4)
	require.NoError(t, err)
	require.Equal(t, Address(testBase+28), address)

	require.NoError(t, allocator.Release(address))
	require.Equal(t, []Address{testBase + 28}, acquired)
	require.Equal(t, []Address{testBase + 28}, released)
}

func TestAcquirePropagatesOutOfMemory(t *testing.T) {
	ctrl := gomock.NewController(t)

	metadata, allocator := mockAllocator(t, ctrl, CreateOptions{
		Flags: AllocatorCreateTrackAllocations,
		MemoryCallbackOptions: &MemoryCallbackOptions{
			Acquire: func(allocator *Allocator, address Address, size int, userData interface{}) {
				t.Fatal("no block should be reported for a failed acquire")
			},
		},
	})

	metadata.EXPECT().Acquire(64, uint(4)).Return(freelist.NoAllocation, errors.Wrap(memutils.ErrOutOfMemory, "arena is full"))

	address, err := allocator.Acquire(64, 4)
	require.ErrorIs(t, err, memutils.ErrOutOfMemory)
	require.Equal(t, Null, address)
	require.Equal(t, 0, allocator.tracker.Count())
}

func TestTrackedReleaseNeverReachesArena(t *testing.T) {
	ctrl := gomock.NewController(t)

	// No expectations: any call into the arena fails the test
	_, allocator := mockAllocator(t, ctrl, CreateOptions{Flags: AllocatorCreateTrackAllocations})

	err := allocator.Release(testBase + 8)
	require.ErrorIs(t, err, memutils.ErrInvalidRelease)
}

func TestUnreadableAcquireIsCorruption(t *testing.T) {
	ctrl := gomock.NewController(t)

	metadata, allocator := mockAllocator(t, ctrl, CreateOptions{})

	metadata.EXPECT().Acquire(8, uint(4)).Return(freelist.Pointer(8), nil)
	metadata.EXPECT().AllocationSize(freelist.Pointer(8)).Return(0, errors.New("pointer 8 refers to a free block"))

	requireHeapCorruption(t, func() {
		_, _ = allocator.Acquire(8, 4)
	})
}

func TestDestroyVisitsLiveBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)

	metadata, allocator := mockAllocator(t, ctrl, CreateOptions{})

	metadata.EXPECT().IsEmpty().Return(false)
	metadata.EXPECT().AllocationCount().Return(1)
	metadata.EXPECT().VisitAllRegions(gomock.Any()).DoAndReturn(
		func(handleBlock func(freelist.Pointer, int, int, bool) error) error {
			require.NoError(t, handleBlock(freelist.Pointer(8), 0, 16, false))
			require.NoError(t, handleBlock(freelist.Pointer(24), 16, 240, true))
			return nil
		})

	require.Error(t, allocator.Destroy())
}
