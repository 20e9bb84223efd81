package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exocore/defs"
)

func TestCountersIncAndGet(t *testing.T) {
	c := NewCounters()
	assert.Equal(t, int64(0), c.Get(defs.SysCputs))

	c.Inc(defs.SysCputs)
	c.Inc(defs.SysCputs)
	assert.Equal(t, int64(2), c.Get(defs.SysCputs))
}

func TestCountersOutOfRangeIsNoop(t *testing.T) {
	c := NewCounters()
	c.Inc(defs.SyscallNo(999))
	assert.Equal(t, int64(0), c.Get(defs.SyscallNo(999)))
}

func TestCountersStringOnlyShowsNonzero(t *testing.T) {
	c := NewCounters()
	c.Inc(defs.SysCputs)
	s := c.String()
	assert.Contains(t, s, "#cputs: 1")
	assert.NotContains(t, s, "#yield")
}
