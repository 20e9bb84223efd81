package ipc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"exocore/defs"
	"exocore/envtbl"
	"exocore/limits"
	"exocore/mem"
)

func newTestTable(maxEnvs int) *envtbl.Table {
	cfg := defs.DefaultConfig()
	cfg.MaxEnvs = maxEnvs
	return envtbl.NewTable(cfg, limits.NewSyslimit(maxEnvs))
}

func TestRecvValidatesAlignment(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	env, _ := tbl.Alloc(defs.NoEnv)

	assert.Equal(t, defs.EINVAL, Recv(env, cfg, 0x1001))
	assert.Equal(t, defs.Err_t(0), Recv(env, cfg, 0x1000))
	assert.True(t, env.Ipc.Recving)
	assert.Equal(t, defs.StatusNotRunnable, env.Status)
}

func TestRecvAboveUtopSkipsAlignmentCheck(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	env, _ := tbl.Alloc(defs.NoEnv)

	assert.Equal(t, defs.Err_t(0), Recv(env, cfg, uintptr(cfg.Utop)+1))
}

func TestTrySendRejectsWhenNotRecving(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	sender, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	err := TrySend(alloc, cfg, sender, receiver, 7, uintptr(cfg.Utop)+1, 0)
	assert.Equal(t, defs.EIPCNOTRECV, err)
}

func TestTrySendValueOnlyDeliversWithoutPage(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	sender, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	Recv(receiver, cfg, uintptr(cfg.Utop)+1)
	err := TrySend(alloc, cfg, sender, receiver, 99, uintptr(cfg.Utop)+1, 0)

	assert.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, uint32(99), receiver.Ipc.Value)
	assert.Equal(t, sender.Id, receiver.Ipc.From)
	assert.False(t, receiver.Ipc.Recving)
	assert.Equal(t, defs.StatusRunnable, receiver.Status)
}

func TestTrySendTransfersPageWhenBothSidesOptIn(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	sender, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	frame, _ := alloc.Alloc()
	sender.AS.Insert(alloc, 0x1000, frame, defs.Forced|defs.WRITABLE)

	Recv(receiver, cfg, 0x2000)
	err := TrySend(alloc, cfg, sender, receiver, 1, 0x1000, defs.WRITABLE)
	assert.Equal(t, defs.Err_t(0), err)

	pte, ok := receiver.AS.Lookup(0x2000)
	assert.True(t, ok)
	assert.Equal(t, frame, pte.Frame)
	assert.Equal(t, defs.WRITABLE, receiver.Ipc.Perm&defs.WRITABLE)
}

func TestTrySendSkipsPageWhenReceiverDstvaAboveUtop(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	sender, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	frame, _ := alloc.Alloc()
	sender.AS.Insert(alloc, 0x1000, frame, defs.Forced)

	Recv(receiver, cfg, uintptr(cfg.Utop)+8)
	err := TrySend(alloc, cfg, sender, receiver, 1, 0x1000, 0)
	assert.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, defs.Perm(0), receiver.Ipc.Perm)

	_, ok := receiver.AS.Lookup(uintptr(cfg.Utop) + 8)
	assert.False(t, ok, "receiver opted out of the page so nothing should be mapped")
}

func TestTrySendRejectsWriteEscalation(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	sender, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	frame, _ := alloc.Alloc()
	sender.AS.Insert(alloc, 0x1000, frame, defs.Forced)

	Recv(receiver, cfg, 0x2000)
	err := TrySend(alloc, cfg, sender, receiver, 1, 0x1000, defs.WRITABLE)
	assert.Equal(t, defs.EINVAL, err)
}

func TestTrySendRejectsUnmappedSource(t *testing.T) {
	tbl := newTestTable(2)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	sender, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	Recv(receiver, cfg, 0x2000)
	err := TrySend(alloc, cfg, sender, receiver, 1, 0x9000, 0)
	assert.Equal(t, defs.EINVAL, err)
}

func TestDoubleSendHitsSecondSenderWithEipcnotrecv(t *testing.T) {
	tbl := newTestTable(3)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	s1, _ := tbl.Alloc(defs.NoEnv)
	s2, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	Recv(receiver, cfg, uintptr(cfg.Utop)+1)
	assert.Equal(t, defs.Err_t(0), TrySend(alloc, cfg, s1, receiver, 1, uintptr(cfg.Utop)+1, 0))
	assert.Equal(t, defs.EIPCNOTRECV, TrySend(alloc, cfg, s2, receiver, 2, uintptr(cfg.Utop)+1, 0))
}

// TestConcurrentTrySendIsSerializedByCaller demonstrates that exactly one
// of two racing senders wins the rendezvous when their TrySend calls are
// serialized by an external lock, mirroring how kern.Dispatch's big lock
// makes the real syscall path atomic (see cmd/exoctl/cli/demo.go's
// demoIPCRaceCmd for the full-dispatch version of this race).
func TestConcurrentTrySendIsSerializedByCaller(t *testing.T) {
	tbl := newTestTable(3)
	cfg := defs.DefaultConfig()
	alloc := mem.NewAllocator(4)
	s1, _ := tbl.Alloc(defs.NoEnv)
	s2, _ := tbl.Alloc(defs.NoEnv)
	receiver, _ := tbl.Alloc(defs.NoEnv)

	Recv(receiver, cfg, uintptr(cfg.Utop)+1)

	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make([]defs.Err_t, 2)
	senders := []*envtbl.Env{s1, s2}

	for i := range senders {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			results[i] = TrySend(alloc, cfg, senders[i], receiver, uint32(i), uintptr(cfg.Utop)+1, 0)
		}()
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, r := range results {
		switch r {
		case 0:
			wins++
		case defs.EIPCNOTRECV:
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
}
