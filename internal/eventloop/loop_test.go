package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPendingFIFO(t *testing.T) {
	l := New()

	var order []int
	l.Post(func() { order = append(order, 1) })
	l.Post(func() {
		order = append(order, 2)
		l.Post(func() { order = append(order, 3) })
	})

	assert.Equal(t, 2, l.RunPending())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, l.Len())

	assert.Equal(t, 1, l.RunPending())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestRunProcessesPostsFromOtherGoroutines(t *testing.T) {
	l := New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	var (
		mu    sync.Mutex
		count int
		wg    sync.WaitGroup
	)
	wg.Add(50)
	for i := 0; i < 50; i++ {
		go l.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
			wg.Done()
		})
	}

	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
		t.Fatal("posted functions did not run")
	}

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, 50, count)
}

func TestStop(t *testing.T) {
	l := New()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(context.Background()) }()

	l.Stop()
	l.Stop()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	ran := false
	l.Post(func() { ran = true })
	assert.Equal(t, 0, l.RunPending())
	assert.False(t, ran)
}

func TestRunTwice(t *testing.T) {
	l := New()

	started := make(chan struct{})
	l.Post(func() { close(started) })

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(context.Background()) }()
	<-started

	assert.ErrorIs(t, l.Run(context.Background()), ErrAlreadyRunning)

	l.Stop()
	<-errCh
}

func TestPanicHandler(t *testing.T) {
	var recovered any
	l := New(WithPanicHandler(func(r any) { recovered = r }))

	ranAfter := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ranAfter = true })
	l.RunPending()

	assert.Equal(t, "boom", recovered)
	assert.True(t, ranAfter)
}

func TestPanicWithoutHandlerPropagates(t *testing.T) {
	l := New()
	l.Post(func() { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() { l.RunPending() })
}
