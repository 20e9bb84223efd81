package mem

import "testing"

import "github.com/stretchr/testify/assert"

func TestAllocatorAllocIsZeroed(t *testing.T) {
	a := NewAllocator(4)
	no, ok := a.Alloc()
	assert.True(t, ok)
	frame := a.Frame(no)
	for _, b := range frame {
		assert.Equal(t, byte(0), b)
	}
}

func TestAllocatorExhaustion(t *testing.T) {
	a := NewAllocator(2)
	_, ok1 := a.Alloc()
	_, ok2 := a.Alloc()
	_, ok3 := a.Alloc()
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3, "third alloc must fail once the 2-frame arena is exhausted")
}

func TestAllocatorRefcounting(t *testing.T) {
	a := NewAllocator(1)
	no, _ := a.Alloc()
	assert.Equal(t, 1, a.Refcnt(no))

	a.Refup(no)
	assert.Equal(t, 2, a.Refcnt(no))

	assert.False(t, a.Refdown(no), "dropping to refcount 1 must not free the frame")
	assert.True(t, a.Refdown(no), "dropping to refcount 0 must free the frame")
	assert.Equal(t, 1, a.Free())
}

func TestAllocatorFreedFrameReused(t *testing.T) {
	a := NewAllocator(1)
	no, _ := a.Alloc()
	a.Refdown(no)

	no2, ok := a.Alloc()
	assert.True(t, ok)
	assert.Equal(t, no, no2, "a 1-frame arena must recycle the only slot")
}

func TestAllocatorPanicsOnFreedFrame(t *testing.T) {
	a := NewAllocator(1)
	no, _ := a.Alloc()
	a.Refdown(no)
	assert.Panics(t, func() { a.Frame(no) })
}

func TestNotifyOomNonBlocking(t *testing.T) {
	ch := make(chan OomMsg)
	resume := NotifyOom(ch, 3)
	assert.NotNil(t, resume)
}

func TestAllocFiresOomOnExhaustion(t *testing.T) {
	a := NewAllocator(1)
	_, ok := a.Alloc()
	assert.True(t, ok)

	_, ok = a.Alloc()
	assert.False(t, ok, "second alloc must fail once the 1-frame arena is exhausted")

	select {
	case msg := <-a.Oom:
		assert.Equal(t, 1, msg.Need)
	default:
		t.Fatal("expected Alloc to notify a.Oom on exhaustion")
	}
}
