package peers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertFiltersSelf(t *testing.T) {
	d := New("127.0.0.1:9000")

	assert.False(t, d.Insert("127.0.0.1:9000"))
	assert.False(t, d.Insert(""))
	assert.Equal(t, 0, d.Len())

	assert.True(t, d.Insert("127.0.0.1:9001"))
	assert.False(t, d.Insert("127.0.0.1:9001"), "second insert must be a no-op")
	assert.Equal(t, 1, d.Len())
}

func TestRemoveIdempotent(t *testing.T) {
	d := New("127.0.0.1:9000")
	d.Insert("127.0.0.1:9001")

	assert.True(t, d.Remove("127.0.0.1:9001"))
	assert.False(t, d.Remove("127.0.0.1:9001"))
	assert.False(t, d.Remove("127.0.0.1:9999"))
	assert.Equal(t, 0, d.Len())
}

func TestMergeExcludesSelf(t *testing.T) {
	d := New("127.0.0.1:9000")
	d.Merge([]string{"127.0.0.1:9002", "127.0.0.1:9000", "127.0.0.1:9001", "127.0.0.1:9002"})

	require.Equal(t, []string{"127.0.0.1:9001", "127.0.0.1:9002"}, d.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	d := New("127.0.0.1:9000")
	d.Insert("127.0.0.1:9001")

	snap := d.Snapshot()
	d.Insert("127.0.0.1:9002")
	d.Remove("127.0.0.1:9001")

	assert.Equal(t, []string{"127.0.0.1:9001"}, snap)
	assert.Equal(t, []string{"127.0.0.1:9002"}, d.Snapshot())
}

func TestConcurrentMutation(t *testing.T) {
	d := New("127.0.0.1:9000")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := fmt.Sprintf("127.0.0.1:%d", 10000+i%4)
			d.Insert(addr)
			d.Snapshot()
			d.Merge([]string{addr, d.Self()})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, d.Len())
}
