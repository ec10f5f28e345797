package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordFields(t *testing.T) {
	r := New(map[string]interface{}{"x": 1.0})
	r.Set("y", true)

	assert.Equal(t, 1.0, r.Field("x"))
	assert.Equal(t, true, r.Field("y"))
	assert.Nil(t, r.Field("missing"), "missing field reads as nil")
	assert.Equal(t, 2, r.Len())
}

func TestPoolReuse(t *testing.T) {
	r := Get()
	r.Set("x", 1.0)
	r.Metadata.Partition = 3
	r.Release()

	r2 := Get()
	assert.Equal(t, 0, r2.Len(), "released record comes back empty")
	assert.Equal(t, 0, r2.Metadata.Partition)
	r2.Release()
}
