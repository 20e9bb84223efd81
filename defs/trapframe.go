package defs

// Segment selectors and the interrupt-enable flag, named the way
// original_source/kern/syscall.c names them (GD_UD, GD_UT, FL_IF). CPL3 is
// OR'd into a selector to mark it usermode, matching "GD_UD | 3".
const (
	SelKernelCode = 0x08
	SelKernelData = 0x10
	SelUserData   = 0x18
	SelUserCode   = 0x20
	CPL3          = 0x3

	SelUserDataCPL3 = SelUserData | CPL3
	SelUserCodeCPL3 = SelUserCode | CPL3

	// FlagIF is the interrupt-enable bit in Eflags.
	FlagIF = 1 << 9
)

// Trapframe is the saved user register set an environment resumes from.
// Field names and the register subset mirror original_source's
// struct Trapframe / tf_regs as referenced throughout syscall.c
// (tf_regs.reg_eax, tf_ds, tf_cs, tf_eflags, ...).
type Trapframe struct {
	Edi, Esi, Ebp, Ebx, Edx, Ecx, Eax uint32

	Es, Ds uint32

	Eip    uint32
	Cs     uint32
	Eflags uint32

	Esp uint32
	Ss  uint32
}

// HardenUserMode stamps the CPL-3 user-mode selectors and sets the
// interrupt-enable flag unconditionally, exactly as sys_env_set_trapframe
// does in original_source/kern/syscall.c: regardless of what the caller
// submitted, the target always resumes at CPL 3 with interrupts enabled.
func (tf *Trapframe) HardenUserMode() {
	tf.Ds = SelUserDataCPL3
	tf.Es = SelUserDataCPL3
	tf.Ss = SelUserDataCPL3
	tf.Cs = SelUserCodeCPL3
	tf.Eflags |= FlagIF
}

// SetReturn stores v in the register that carries a syscall's return value
// back to user space (eax), matching every "e->env_tf.tf_regs.reg_eax = 0"
// site in original_source/kern/syscall.c.
func (tf *Trapframe) SetReturn(v int32) {
	tf.Eax = uint32(v)
}
