package drivers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"exocore/defs"
)

func TestRingPushPopOrder(t *testing.T) {
	r := NewRing(2)
	assert.True(t, r.Push([]byte("a")))
	assert.True(t, r.Push([]byte("b")))
	assert.Equal(t, 2, r.Len())

	f, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), f)
}

func TestRingBackPressure(t *testing.T) {
	r := NewRing(1)
	assert.True(t, r.Push([]byte("a")))
	assert.False(t, r.Push([]byte("b")), "a full ring must refuse further pushes")
	assert.Equal(t, defs.EINVAL, DriverCode(false))
	assert.Equal(t, defs.Err_t(0), DriverCode(true))
}

func TestRingPopEmpty(t *testing.T) {
	r := NewRing(1)
	_, ok := r.Pop()
	assert.False(t, ok)
}

func TestRingPushCopiesInput(t *testing.T) {
	r := NewRing(1)
	buf := []byte("mutate me")
	r.Push(buf)
	buf[0] = 'X'

	f, _ := r.Pop()
	assert.Equal(t, byte('m'), f[0], "Push must copy, not alias, the caller's slice")
}

func TestConsoleWriteAndOutput(t *testing.T) {
	c := NewConsole()
	c.Write([]byte("hello"))
	c.Write([]byte(" world"))
	assert.Equal(t, "hello world", c.Output())
}

func TestConsoleGetcEmptyReturnsZero(t *testing.T) {
	c := NewConsole()
	assert.Equal(t, byte(0), c.Getc())
}

func TestConsoleFeedAndGetc(t *testing.T) {
	c := NewConsole()
	c.Feed([]byte("hi"))
	assert.Equal(t, byte('h'), c.Getc())
	assert.Equal(t, byte('i'), c.Getc())
	assert.Equal(t, byte(0), c.Getc())
}

func TestClockMsecIsMonotonicallyNondecreasing(t *testing.T) {
	c := NewClock()
	first := c.Msec()
	time.Sleep(2 * time.Millisecond)
	second := c.Msec()
	assert.GreaterOrEqual(t, second, first)
}

func TestMakeDeviceRoundTripsMajorMinor(t *testing.T) {
	d := MakeDevice(3, 7)
	assert.Equal(t, 3, d.Major())
	assert.Equal(t, 7, d.Minor())
}

func TestMakeDevicePanicsOnOversizeMinor(t *testing.T) {
	assert.Panics(t, func() { MakeDevice(1, 0x100) })
}

func TestDeviceConstantsMatchMakeDevice(t *testing.T) {
	assert.Equal(t, MakeDevice(1, 0), DeviceConsole)
	assert.Equal(t, MakeDevice(2, 0), DeviceNIC)
}

func TestDeviceStringFormatsMajorMinor(t *testing.T) {
	assert.Equal(t, "1:0", DeviceConsole.String())
}

func TestNewNICWiresRings(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}
	nic := NewNIC(mac, 4)
	assert.Equal(t, mac, nic.MAC)
	assert.True(t, nic.Tx.Push([]byte("pkt")))
	assert.True(t, nic.Rx.Push([]byte("pkt")))
}
