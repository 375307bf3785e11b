package recordkit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordkit/recordkit/schema"
)

func testCollection(t *testing.T, recoverFn RecoverFunc) *Collection {
	t.Helper()

	reg := testRegistry(t)
	require.NoError(t, reg.Resolve())
	s, err := reg.Schema("Customer")
	require.NoError(t, err)

	c := newCollection(s, 8, recoverFn)
	t.Cleanup(c.close)
	return c
}

func TestCollectionNotifiesInMutationOrder(t *testing.T) {
	c := testCollection(t, nil)

	var mu sync.Mutex
	var got []Change
	c.Subscribe(func(change Change) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, change)
		return nil
	})

	a := &Customer{Name: "a"}
	b := &Customer{Name: "b"}

	c.Add(a)
	c.Add(b)
	c.Touched(a)
	c.Remove(b)

	require.NoError(t, c.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 4)
	assert.Equal(t, Change{Kind: ChangeAdd, Record: a}, got[0])
	assert.Equal(t, Change{Kind: ChangeAdd, Record: b}, got[1])
	assert.Equal(t, Change{Kind: ChangeUpdate, Record: a}, got[2])
	assert.Equal(t, Change{Kind: ChangeRemove, Record: b}, got[3])
}

func TestCollectionListenerFailureRecovers(t *testing.T) {
	boom := errors.New("listener boom")

	var mu sync.Mutex
	var recovered []error
	c := testCollection(t, func(change Change, err error) {
		mu.Lock()
		defer mu.Unlock()
		recovered = append(recovered, err)
	})

	c.Subscribe(func(Change) error { return boom })

	rec := &Customer{Name: "a"}
	c.Add(rec)
	require.NoError(t, c.Flush(context.Background()))

	// the mutation landed even though its notification failed
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.IndexOf(rec))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, recovered, 1)
	assert.ErrorIs(t, recovered[0], boom)
}

func TestCollectionListenerReadsBackDuringBurst(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Resolve())
	s, err := reg.Schema("Customer")
	require.NoError(t, err)

	// a one-slot buffer makes the writer outrun the dispatcher at once,
	// so a send that held the data lock would wedge against the Len call
	c := newCollection(s, 1, nil)
	t.Cleanup(c.close)

	var mu sync.Mutex
	var sizes []int
	c.Subscribe(func(Change) error {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, c.Len())
		return nil
	})

	for i := 0; i < 16; i++ {
		c.Add(&Customer{Name: "burst"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Flush(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, sizes, 16)
}

func TestCollectionRemoveKeepsOrder(t *testing.T) {
	c := testCollection(t, nil)

	a, b, d := &Customer{Name: "a"}, &Customer{Name: "b"}, &Customer{Name: "d"}
	c.Add(a)
	c.Add(b)
	c.Add(d)

	assert.True(t, c.Remove(b))
	assert.False(t, c.Remove(b))

	all := c.All()
	require.Len(t, all, 2)
	assert.Same(t, a, all[0])
	assert.Same(t, d, all[1])
	assert.Equal(t, -1, c.IndexOf(b))
	assert.Nil(t, c.Record(5))
}

func TestCollectionReplace(t *testing.T) {
	c := testCollection(t, nil)

	var mu sync.Mutex
	var kinds []ChangeKind
	c.Subscribe(func(change Change) error {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, change.Kind)
		return nil
	})

	c.Add(&Customer{Name: "old"})
	c.Replace([]interface{}{&Customer{Name: "x"}, &Customer{Name: "y"}})
	require.NoError(t, c.Flush(context.Background()))

	assert.Equal(t, 2, c.Len())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []ChangeKind{ChangeAdd, ChangeLoad}, kinds)
}

func TestCollectionSubscribeSeesOnlyLaterChanges(t *testing.T) {
	c := testCollection(t, nil)

	c.Add(&Customer{Name: "before"})
	require.NoError(t, c.Flush(context.Background()))

	var mu sync.Mutex
	var count int
	c.Subscribe(func(Change) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	})

	c.Add(&Customer{Name: "after"})
	require.NoError(t, c.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestCollectionFlushHonorsContext(t *testing.T) {
	c := testCollection(t, nil)

	release := make(chan struct{})
	c.Subscribe(func(Change) error {
		<-release
		return nil
	})
	c.Add(&Customer{Name: "slow"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Flush(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, c.Flush(context.Background()))
}

func TestCollectionSchema(t *testing.T) {
	c := testCollection(t, nil)
	require.IsType(t, &schema.Schema{}, c.Schema())
	assert.Equal(t, "Customer", c.Schema().Name)
}
