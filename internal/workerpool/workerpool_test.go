package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOrdered_PreservesInputOrderRegardlessOfCompletionOrder(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}

	results, err := MapOrdered(context.Background(), items, 4, func(_ context.Context, item int, index int) (int, error) {
		// Items dispatched first sleep longest, so completion order is the
		// reverse of dispatch order if the pool does not preserve indices.
		time.Sleep(time.Duration(len(items)-index) * time.Millisecond)
		return item * 10, nil
	})

	require.NoError(t, err)
	require.Len(t, results, len(items))
	for i, item := range items {
		assert.Equal(t, item*10, results[i])
	}
}

func TestMapOrdered_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3}

	_, err := MapOrdered(context.Background(), items, 2, func(_ context.Context, item int, _ int) (int, error) {
		if item == 2 {
			return 0, boom
		}
		return item, nil
	})

	assert.ErrorIs(t, err, boom)
}

func TestMapOrdered_StopsDispatchOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := make([]int, 50)

	var started atomic.Int32
	_, err := MapOrdered(ctx, items, 1, func(ctx context.Context, _ int, index int) (int, error) {
		started.Add(1)
		if index == 0 {
			cancel()
		}
		return index, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, int(started.Load()), 1)
}

func TestMapOrdered_DefaultsWorkersWhenNonPositive(t *testing.T) {
	items := []string{"a", "b", "c"}
	results, err := MapOrdered(context.Background(), items, 0, func(_ context.Context, item string, _ int) (string, error) {
		return item + item, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "bb", "cc"}, results)
}

func TestCoordinator_SerializesAccess(t *testing.T) {
	var c Coordinator
	counter := 0
	done := make(chan struct{})

	for i := 0; i < 20; i++ {
		go func() {
			c.Do(func() { counter++ })
			done <- struct{}{}
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}
	assert.Equal(t, 20, counter)
}
