package serviceorder_test

import (
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chainBase = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return chainBase.Add(time.Duration(minutes) * time.Minute)
}

// buildChain sets the first n checkpoints at 10-minute intervals.
func buildChain(t *testing.T, n int) serviceorder.Timestamps {
	t.Helper()

	ts := serviceorder.NewTimestamps()
	patches := []func(kernel.Patch[time.Time]) serviceorder.TimestampsPatch{
		func(p kernel.Patch[time.Time]) serviceorder.TimestampsPatch { return serviceorder.TimestampsPatch{TakenAt: p} },
		func(p kernel.Patch[time.Time]) serviceorder.TimestampsPatch { return serviceorder.TimestampsPatch{ArrivedAt: p} },
		func(p kernel.Patch[time.Time]) serviceorder.TimestampsPatch { return serviceorder.TimestampsPatch{CheckInAt: p} },
		func(p kernel.Patch[time.Time]) serviceorder.TimestampsPatch {
			return serviceorder.TimestampsPatch{ActivityStartedAt: p}
		},
		func(p kernel.Patch[time.Time]) serviceorder.TimestampsPatch {
			return serviceorder.TimestampsPatch{ActivityFinishedAt: p}
		},
		func(p kernel.Patch[time.Time]) serviceorder.TimestampsPatch { return serviceorder.TimestampsPatch{DeliveredAt: p} },
	}

	var err error
	for i := 0; i < n; i++ {
		ts, err = ts.Apply(patches[i](kernel.Set(at(i * 10))))
		require.NoError(t, err)
	}
	return ts
}

func TestTimestamps_Apply_SetInOrder(t *testing.T) {
	ts := buildChain(t, 6)

	require.NotNil(t, ts.TakenAt())
	require.NotNil(t, ts.DeliveredAt())
	assert.Equal(t, at(0), *ts.TakenAt())
	assert.Equal(t, at(10), *ts.ArrivedAt())
	assert.Equal(t, at(20), *ts.CheckInAt())
	assert.Equal(t, at(30), *ts.ActivityStartedAt())
	assert.Equal(t, at(40), *ts.ActivityFinishedAt())
	assert.Equal(t, at(50), *ts.DeliveredAt())
}

func TestTimestamps_Apply_PredecessorMissing(t *testing.T) {
	t.Run("arrived_without_taken", func(t *testing.T) {
		ts := serviceorder.NewTimestamps()
		_, err := ts.Apply(serviceorder.TimestampsPatch{ArrivedAt: kernel.Set(at(10))})

		require.ErrorIs(t, err, serviceorder.ErrPredecessorMissing)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		var chainErr *serviceorder.ChainError
		require.ErrorAs(t, err, &chainErr)
		assert.Equal(t, serviceorder.CheckpointArrived, chainErr.Key)
	})

	t.Run("delivered_without_finished", func(t *testing.T) {
		ts := buildChain(t, 4) // up to activityStartedAt
		_, err := ts.Apply(serviceorder.TimestampsPatch{DeliveredAt: kernel.Set(at(60))})

		require.ErrorIs(t, err, serviceorder.ErrPredecessorMissing)
	})

	t.Run("predecessor_set_in_same_patch_is_accepted", func(t *testing.T) {
		ts := serviceorder.NewTimestamps()
		next, err := ts.Apply(serviceorder.TimestampsPatch{
			TakenAt:   kernel.Set(at(0)),
			ArrivedAt: kernel.Set(at(10)),
		})

		require.NoError(t, err)
		assert.Equal(t, at(10), *next.ArrivedAt())
	})
}

func TestTimestamps_Apply_OutOfOrder(t *testing.T) {
	t.Run("value_before_predecessor_rejected", func(t *testing.T) {
		ts := buildChain(t, 1)
		_, err := ts.Apply(serviceorder.TimestampsPatch{ArrivedAt: kernel.Set(at(-5))})

		require.ErrorIs(t, err, serviceorder.ErrCheckpointOutOfOrder)
	})

	t.Run("equal_timestamps_permitted", func(t *testing.T) {
		ts := buildChain(t, 1)
		next, err := ts.Apply(serviceorder.TimestampsPatch{ArrivedAt: kernel.Set(at(0))})

		require.NoError(t, err)
		assert.Equal(t, at(0), *next.ArrivedAt())
	})

	t.Run("editing_earlier_checkpoint_past_later_one_rejected", func(t *testing.T) {
		ts := buildChain(t, 3)
		// Move arrivedAt after checkInAt; whole-chain revalidation must catch it.
		_, err := ts.Apply(serviceorder.TimestampsPatch{ArrivedAt: kernel.Set(at(25))})

		require.ErrorIs(t, err, serviceorder.ErrCheckpointOutOfOrder)
	})
}

func TestTimestamps_Apply_Clear(t *testing.T) {
	t.Run("clear_blocked_by_later_checkpoint", func(t *testing.T) {
		ts := buildChain(t, 3)
		_, err := ts.Apply(serviceorder.TimestampsPatch{ArrivedAt: kernel.Clear[time.Time]()})

		require.ErrorIs(t, err, serviceorder.ErrClearBlockedByLater)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("clear_tail_checkpoint_succeeds", func(t *testing.T) {
		ts := buildChain(t, 3)
		next, err := ts.Apply(serviceorder.TimestampsPatch{CheckInAt: kernel.Clear[time.Time]()})

		require.NoError(t, err)
		assert.Nil(t, next.CheckInAt())
		assert.NotNil(t, next.ArrivedAt())
	})

	t.Run("cascading_clear_from_tail_succeeds", func(t *testing.T) {
		ts := buildChain(t, 3)
		next, err := ts.Apply(serviceorder.TimestampsPatch{
			ArrivedAt: kernel.Clear[time.Time](),
			CheckInAt: kernel.Clear[time.Time](),
		})

		require.NoError(t, err)
		assert.Nil(t, next.ArrivedAt())
		assert.Nil(t, next.CheckInAt())
		assert.NotNil(t, next.TakenAt())
	})
}

func TestTimestamps_Apply_DoesNotMutateReceiver(t *testing.T) {
	ts := buildChain(t, 2)
	_, err := ts.Apply(serviceorder.TimestampsPatch{CheckInAt: kernel.Set(at(20))})
	require.NoError(t, err)

	assert.Nil(t, ts.CheckInAt())
}

func TestTimestamps_ChangedKeys(t *testing.T) {
	before := buildChain(t, 2)
	after, err := before.Apply(serviceorder.TimestampsPatch{
		ArrivedAt: kernel.Set(at(15)),
		CheckInAt: kernel.Set(at(20)),
	})
	require.NoError(t, err)

	changed := after.ChangedKeys(before)
	assert.Equal(t, []serviceorder.CheckpointKey{
		serviceorder.CheckpointArrived,
		serviceorder.CheckpointCheckIn,
	}, changed)

	assert.Empty(t, before.ChangedKeys(before))
}

func TestRestoreTimestamps(t *testing.T) {
	t.Run("valid_chain", func(t *testing.T) {
		t0, t1 := at(0), at(10)
		ts, err := serviceorder.RestoreTimestamps(&t0, &t1, nil, nil, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, t1, *ts.ArrivedAt())
	})

	t.Run("gap_rejected", func(t *testing.T) {
		t1 := at(10)
		_, err := serviceorder.RestoreTimestamps(nil, &t1, nil, nil, nil, nil)

		require.ErrorIs(t, err, serviceorder.ErrPredecessorMissing)
	})

	t.Run("unordered_rejected", func(t *testing.T) {
		t0, t1 := at(10), at(0)
		_, err := serviceorder.RestoreTimestamps(&t0, &t1, nil, nil, nil, nil)

		require.ErrorIs(t, err, serviceorder.ErrCheckpointOutOfOrder)
	})
}

func TestTimestampsPatch_IsEmpty(t *testing.T) {
	assert.True(t, serviceorder.TimestampsPatch{}.IsEmpty())
	assert.False(t, serviceorder.TimestampsPatch{TakenAt: kernel.Set(at(0))}.IsEmpty())
	assert.False(t, serviceorder.TimestampsPatch{DeliveredAt: kernel.Clear[time.Time]()}.IsEmpty())
}
