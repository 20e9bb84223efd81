package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinctDisabledNeverLogs(t *testing.T) {
	d := &Distinct{}
	fresh, trace := d.Check()
	assert.False(t, fresh)
	assert.Empty(t, trace)
}

func TestDistinctDedupsSameCallChain(t *testing.T) {
	d := &Distinct{Enabled: true}
	check := func() (bool, string) { return d.Check() }

	// Both calls go through one call site so the recorded chain is identical.
	var fresh [2]bool
	var trace [2]string
	for i := range fresh {
		fresh[i], trace[i] = check()
	}
	assert.True(t, fresh[0])
	assert.NotEmpty(t, trace[0])

	assert.False(t, fresh[1], "the same call chain must only log once")
}

func TestDistinctWhitelistSuppresses(t *testing.T) {
	d := &Distinct{Enabled: true, Whitelist: map[string]bool{
		"testing.tRunner": true,
	}}
	fresh, trace := d.Check()
	assert.False(t, fresh)
	assert.Empty(t, trace)
}

func TestDistinctLen(t *testing.T) {
	d := &Distinct{Enabled: true}
	assert.Equal(t, 0, d.Len())
	d.Check()
	assert.Equal(t, 1, d.Len())
}

func TestFaultErrorMessage(t *testing.T) {
	f := NewFault(0x1001, "bad user pointer", nil)
	assert.Contains(t, f.Error(), "0x1001")
	assert.Contains(t, f.Error(), "bad user pointer")
}

func TestFaultUnwrapsCause(t *testing.T) {
	cause := errors.New("underlying")
	f := NewFault(1, "wrapped", cause)
	assert.ErrorIs(t, f, cause)
}

func TestFaultUnwrapNilCause(t *testing.T) {
	f := NewFault(1, "no cause", nil)
	assert.Nil(t, f.Unwrap())
}

func TestRaisePanicsWithFault(t *testing.T) {
	defer func() {
		r := recover()
		f, ok := r.(*Fault)
		assert.True(t, ok, "Raise must panic with a *Fault")
		assert.Equal(t, uint32(42), f.Envid)
	}()
	Raise(42, "oops")
}
