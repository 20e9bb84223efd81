package accnt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUtaddAndSystadd(t *testing.T) {
	var a Accnt
	a.Utadd(100)
	a.Systadd(50)

	userns, sysns := a.Snapshot()
	assert.Equal(t, int64(100), userns)
	assert.Equal(t, int64(50), sysns)
}

func TestFinishAddsElapsedToSystemTime(t *testing.T) {
	var a Accnt
	start := a.Now()
	a.Finish(start)

	_, sysns := a.Snapshot()
	assert.GreaterOrEqual(t, sysns, int64(0))
}

func TestAddMergesAnotherAccnt(t *testing.T) {
	var a, b Accnt
	a.Utadd(10)
	a.Systadd(5)
	b.Utadd(3)
	b.Systadd(2)

	a.Add(&b)

	userns, sysns := a.Snapshot()
	assert.Equal(t, int64(13), userns)
	assert.Equal(t, int64(7), sysns)
}
