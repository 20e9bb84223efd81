package diag

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Fault is the fatal-fault signal spec.md §7 calls out as distinct from
// every other error class: a handler that discovers its caller handed it
// an unreadable/unwritable user pointer does not return a negative code,
// it kills the caller outright. The teacher's equivalent policy
// ("destroys caller on bad pointer", per original_source/kern/syscall.c's
// direct calls to env_destroy on a bad va) is a side effect buried in a
// void function; here it is a typed value a handler panics with and
// kern/dispatch.go recovers, so the fatal path is visible in the type
// signature instead of being indistinguishable from a normal call.
//
// NewFault wraps a non-nil cause with xerrors.Errorf (rather than
// fmt.Errorf's %w), which records the frame where the wrap happened.
// Raise passes no cause, so a Fault raised through it carries no
// captured frame; the dispatcher's log line names the faulting handler
// through Reason and the diag.Distinct trace instead.
type Fault struct {
	Envid  uint32
	Reason string
	cause  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("env %#x: fatal fault: %s", f.Envid, f.Reason)
}

func (f *Fault) Unwrap() error { return f.cause }

// NewFault builds a Fault for the given environment and reason, wrapping
// cause (if non-nil) with a captured frame via xerrors.
func NewFault(envid uint32, reason string, cause error) *Fault {
	f := &Fault{Envid: envid, Reason: reason}
	if cause != nil {
		f.cause = xerrors.Errorf("%s: %w", reason, cause)
	}
	return f
}

// Raise panics with a Fault, the only sanctioned way a handler signals
// the fatal class — never call Error()/return it as a regular error.
func Raise(envid uint32, reason string) {
	panic(NewFault(envid, reason, nil))
}

// Note replaces the teacher's tinfo.Tnote_t for the narrow slice of state
// this core needs: whether the environment has been marked doomed by a
// fatal fault. The teacher's version additionally stashed itself in the
// running goroutine via runtime.Gptr/Setgptr (a patched-runtime hook with
// no stdlib equivalent) so arbitrary code could reach "the current
// thread's note" without a parameter; this core always has *envtbl.Env in
// hand already, so that indirection is dropped entirely (see DESIGN.md).
type Note struct {
	Killed bool
	Trace  *Distinct
}
