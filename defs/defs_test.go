package defs

import "testing"

import "github.com/stretchr/testify/assert"

func TestPermSanitize(t *testing.T) {
	p, ok := Perm(WRITABLE).Sanitize()
	assert.True(t, ok)
	assert.True(t, p.Has(PRESENT|USER|WRITABLE))

	_, ok = Perm(1 << 30).Sanitize()
	assert.False(t, ok, "bit outside SyscallMask must be rejected")
}

func TestEnvIdRoundTrip(t *testing.T) {
	id := PackEnvId(7, 42)
	gen, idx := UnpackEnvId(id)
	assert.Equal(t, uint32(7), gen)
	assert.Equal(t, uint32(42), idx)
}

func TestEnvIdIndexMasked(t *testing.T) {
	id := PackEnvId(1, MaxEnvs+5)
	_, idx := UnpackEnvId(id)
	assert.Equal(t, uint32(5), idx, "index must wrap within GenShift bits")
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Utop = cfg.Utop + 1
	assert.Error(t, bad.Validate(), "unaligned utop must be rejected")
}

func TestConfigBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.InUserRange(cfg.Utop-cfg.PageSize))
	assert.False(t, cfg.InUserRange(cfg.Utop))
	assert.True(t, cfg.Aligned(0))
	assert.False(t, cfg.Aligned(1))
}

func TestTrapframeHardenUserMode(t *testing.T) {
	var tf Trapframe
	tf.HardenUserMode()
	assert.Equal(t, uint32(SelUserDataCPL3), tf.Ds)
	assert.Equal(t, uint32(SelUserCodeCPL3), tf.Cs)
	assert.NotZero(t, tf.Eflags&FlagIF)
}

func TestErrTError(t *testing.T) {
	assert.Equal(t, "invalid argument", EINVAL.Error())
	assert.Equal(t, "unknown error", Err_t(-999).Error())
}

func TestSyscallNoString(t *testing.T) {
	assert.Equal(t, "cputs", SysCputs.String())
	assert.Equal(t, "unknown", SyscallNo(999).String())
	assert.Len(t, AllSyscalls(), int(sysNoCount))
}
