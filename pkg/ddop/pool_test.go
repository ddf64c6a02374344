package ddop_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashtag-agritech/hashtag-go/pkg/ddi"
	"github.com/hashtag-agritech/hashtag-go/pkg/ddop"
)

func TestPool_Insert(t *testing.T) {
	t.Run("rejects the null object ID", func(t *testing.T) {
		pool := ddop.NewPool()
		err := pool.AddDeviceElement(ddop.NullObjectID, "Main", 0, 0, ddop.ElementDevice)
		assert.ErrorIs(t, err, ddop.ErrReservedObjectID)
	})

	t.Run("rejects duplicate IDs across kinds", func(t *testing.T) {
		pool := ddop.NewPool()
		require.NoError(t, pool.AddDeviceElement(5, "Main", 0, 0, ddop.ElementDevice))
		err := pool.AddDeviceProperty(5, "Width", ddi.ActualWorkingWidth, 1000, ddop.NullObjectID)
		assert.ErrorIs(t, err, ddop.ErrDuplicateObjectID)
		assert.Equal(t, 1, pool.Size())
	})

	t.Run("rejects a second device", func(t *testing.T) {
		pool := ddop.NewPool()
		require.NoError(t, pool.AddDevice(0, "Sprayer", "1.0", "SN1", "LBL1234", nil, nil, nil))
		err := pool.AddDevice(1, "Other", "1.0", "SN2", "LBL5678", nil, nil, nil)
		assert.ErrorIs(t, err, ddop.ErrDeviceExists)
	})

	t.Run("rejects a second device under concurrent adds", func(t *testing.T) {
		pool := ddop.NewPool()

		const adders = 8
		errs := make(chan error, adders)
		var wg sync.WaitGroup
		for i := 0; i < adders; i++ {
			wg.Add(1)
			go func(id ddop.ObjectID) {
				defer wg.Done()
				errs <- pool.AddDevice(id, "Sprayer", "1.0", "SN", "LBL1234", nil, nil, nil)
			}(ddop.ObjectID(i))
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ddop.ErrDeviceExists)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestPool_ElementLookupIsTolerant(t *testing.T) {
	pool := ddop.NewPool()
	require.NoError(t, pool.AddDeviceElement(1, "Main", 0, 0, ddop.ElementDevice))
	require.NoError(t, pool.AddDeviceProperty(2, "Width", ddi.ActualWorkingWidth, 1000, ddop.NullObjectID))

	_, found := pool.Element(1)
	assert.True(t, found)

	// Absent ID and wrong kind both report not found, no error.
	_, found = pool.Element(99)
	assert.False(t, found)
	_, found = pool.Element(2)
	assert.False(t, found)
}

func TestPool_ObjectsPreserveInsertionOrder(t *testing.T) {
	pool := ddop.NewPool()
	require.NoError(t, pool.AddDeviceElement(3, "C", 2, 0, ddop.ElementSection))
	require.NoError(t, pool.AddDeviceElement(1, "A", 0, 0, ddop.ElementDevice))
	require.NoError(t, pool.AddDeviceElement(2, "B", 1, 1, ddop.ElementFunction))

	objects := pool.Objects()
	require.Len(t, objects, 3)
	assert.Equal(t, ddop.ObjectID(3), objects[0].ID())
	assert.Equal(t, ddop.ObjectID(1), objects[1].ID())
	assert.Equal(t, ddop.ObjectID(2), objects[2].ID())
}

func TestPool_Clear(t *testing.T) {
	pool := ddop.NewPool()
	require.NoError(t, pool.AddDeviceElement(1, "Main", 0, 0, ddop.ElementDevice))
	require.Equal(t, 1, pool.Size())

	pool.Clear()
	assert.Equal(t, 0, pool.Size())

	// IDs are free again after a clear.
	assert.NoError(t, pool.AddDeviceElement(1, "Main", 0, 0, ddop.ElementDevice))
}

func TestPool_Validate(t *testing.T) {
	valid := func() *ddop.Pool {
		pool := ddop.NewPool()
		require.NoError(t, pool.AddDevice(0, "Sprayer", "1.0", "SN1", "LBL1234", nil, nil, nil))
		require.NoError(t, pool.AddDeviceElement(1, "Main", 0, 0, ddop.ElementDevice))
		return pool
	}

	t.Run("minimal valid pool", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("no device", func(t *testing.T) {
		pool := ddop.NewPool()
		require.NoError(t, pool.AddDeviceElement(1, "Main", 0, 0, ddop.ElementDevice))
		assert.ErrorIs(t, pool.Validate(), ddop.ErrNoDevice)
	})

	t.Run("no root element", func(t *testing.T) {
		pool := ddop.NewPool()
		require.NoError(t, pool.AddDevice(0, "Sprayer", "1.0", "SN1", "LBL1234", nil, nil, nil))
		require.NoError(t, pool.AddDeviceElement(1, "Boom", 2, 0, ddop.ElementFunction))
		assert.ErrorIs(t, pool.Validate(), ddop.ErrNoRootElement)
	})

	t.Run("dangling child reference", func(t *testing.T) {
		pool := valid()
		main, found := pool.Element(1)
		require.True(t, found)
		main.AddChildReference(42)
		assert.ErrorIs(t, pool.Validate(), ddop.ErrDanglingReference)
	})

	t.Run("validation happens at lookup not insertion", func(t *testing.T) {
		pool := valid()
		main, _ := pool.Element(1)
		// Adding the dangling reference itself never fails.
		main.AddChildReference(42)
		// Resolving the target later makes the pool valid again.
		require.NoError(t, pool.AddDeviceProperty(42, "Width", ddi.ActualWorkingWidth, 1000, ddop.NullObjectID))
		assert.NoError(t, pool.Validate())
	})
}
