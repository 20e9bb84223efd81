package kern

import (
	"exocore/defs"
	"exocore/diag"
	"exocore/drivers"
	"exocore/envtbl"
)

// packetSize is the cap net_try_transmit reads up to — original_source
// leaves the NIC
// MTU as a driver-level constant; 1536 covers a standard Ethernet frame
// plus header slack.
const packetSize = 1536

// sysNetTryTransmit implements net_try_transmit(buf, len): spec.md §4.7
// — validate buf readable, push to the NIC tx ring, return the driver
// code.
func sysNetTryTransmit(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	length := int(a[1])
	if length <= 0 || length > packetSize {
		return Err(defs.EINVAL)
	}
	buf := make([]byte, length)
	if err := caller.AS.CopyIn(k.Alloc, uintptr(a[0]), buf); err != 0 {
		diag.Raise(uint32(caller.Id), "net_try_transmit: unreadable buffer")
	}
	code := drivers.DriverCode(k.NIC.Tx.Push(buf))
	k.Log.WithFields(map[string]interface{}{
		"env":    caller.Id,
		"device": drivers.DeviceNIC,
		"bytes":  length,
	}).Debug("net_try_transmit")
	return Ret(int32(code))
}

// sysNetTryReceive implements net_try_receive(buf): spec.md §4.7 — pop
// a frame from the rx ring and copy it out to buf, returning its length.
// Only the len(frame) bytes actually written are checked for
// writability, and only once a frame has been popped: an empty ring
// returns -EINVAL without looking at buf, and buf is not checked against
// a fixed packet size.
func sysNetTryReceive(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	frame, ok := k.NIC.Rx.Pop()
	if !ok {
		return Err(defs.EINVAL)
	}
	if err := caller.AS.CopyOut(k.Alloc, uintptr(a[0]), frame); err != 0 {
		diag.Raise(uint32(caller.Id), "net_try_receive: unwritable buffer")
	}
	k.Log.WithFields(map[string]interface{}{
		"env":    caller.Id,
		"device": drivers.DeviceNIC,
		"bytes":  len(frame),
	}).Debug("net_try_receive")
	return Ret(int32(len(frame)))
}

// sysNetMac implements net_mac(buf): spec.md §4.7 — validate 6 bytes
// writable, copy the station MAC.
func sysNetMac(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	if err := caller.AS.CopyOut(k.Alloc, uintptr(a[0]), k.NIC.MAC[:]); err != 0 {
		diag.Raise(uint32(caller.Id), "net_mac: unwritable buffer")
	}
	k.Log.WithFields(map[string]interface{}{
		"env":    caller.Id,
		"device": drivers.DeviceNIC,
	}).Debug("net_mac")
	return Ret(0)
}
