package drivers

import "fmt"

// Device is a major/minor device identifier, encoded and decoded the way
// the teacher's defs.Mkdev/Unmkdev pack a major and minor number into one
// word (defs/device.go), narrowed to the two devices this core actually
// exposes a syscall bridge for — console and NIC — the rest (UNIX
// sockets, raw disk, /dev/null, profiling) belong to the
// filesystem/network stack this exercise scopes out.
type Device uint32

const (
	majorShift = 8
	minorMask  = 0xff
)

// MakeDevice packs major and minor into a single Device, panicking on a
// minor number too wide to fit, exactly as Mkdev does.
func MakeDevice(major, minor int) Device {
	if minor > minorMask {
		panic("drivers: bad minor device number")
	}
	return Device(uint32(major)<<majorShift | uint32(minor))
}

// Major returns d's major number.
func (d Device) Major() int { return int(d >> majorShift) }

// Minor returns d's minor number.
func (d Device) Minor() int { return int(d) & minorMask }

// String renders a Device as "major:minor" for log tagging.
func (d Device) String() string {
	return fmt.Sprintf("%d:%d", d.Major(), d.Minor())
}

const (
	// DeviceConsole tags log lines produced by cputs/cgetc.
	DeviceConsole = Device(1 << majorShift)
	// DeviceNIC tags log lines produced by the net_try_transmit/
	// net_try_receive/net_mac bridge.
	DeviceNIC = Device(2 << majorShift)
)

// NIC bundles the station MAC and tx/rx rings net_try_transmit,
// net_try_receive, and net_mac read from (spec.md §4.7).
type NIC struct {
	MAC [6]byte
	Tx  *Ring
	Rx  *Ring
}

// NewNIC returns a NIC with the given MAC and ring capacity.
func NewNIC(mac [6]byte, ringCapacity int) *NIC {
	return &NIC{
		MAC: mac,
		Tx:  NewRing(ringCapacity),
		Rx:  NewRing(ringCapacity),
	}
}
