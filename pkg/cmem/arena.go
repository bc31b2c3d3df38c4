// Package cmem emulates a flat memory address space for C-mode execution:
// a heap growing up from a fixed base via a bump allocator and a stack
// growing down from a fixed high base. Every in-use byte is indexed to its
// owning block, so reads and writes are bounds-checked in O(1) and memory
// faults (segfault, use-after-free, overflow, double free, invalid free)
// are detected in software.
package cmem

import (
	"errors"
	"fmt"
	"sort"
)

const (
	HeapBase  = 0x1000
	StackBase = 0xF000

	// Padding separates heap allocations so adjacent blocks are never
	// contiguous; addresses are unique and monotonic within a run.
	Padding = 16
)

var (
	ErrSegfault     = errors.New("segmentation fault")
	ErrUseAfterFree = errors.New("use after free")
	ErrOverflow     = errors.New("buffer overflow")
	ErrDoubleFree   = errors.New("double free")
	ErrInvalidFree  = errors.New("invalid free")
)

// Arena is one run's memory space. It is owned exclusively by that run and
// never shared.
type Arena struct {
	blocks    map[int]*Block // base address -> block
	byteIndex map[int]int    // any in-use byte -> base address
	heapNext  int
	stackPtr  int
	frames    []*StackFrame
	history   []Event

	allocCount int
	freeCount  int
}

// NewArena creates an empty arena with fresh heap and stack regions.
func NewArena() *Arena {
	return &Arena{
		blocks:    make(map[int]*Block),
		byteIndex: make(map[int]int),
		heapNext:  HeapBase,
		stackPtr:  StackBase,
	}
}

// Reset drops every block, index entry, frame and history record.
func (a *Arena) Reset() {
	a.blocks = make(map[int]*Block)
	a.byteIndex = make(map[int]int)
	a.heapNext = HeapBase
	a.stackPtr = StackBase
	a.frames = nil
	a.history = nil
	a.allocCount = 0
	a.freeCount = 0
}

func (a *Arena) register(b *Block) {
	a.blocks[b.Address] = b
	for i := 0; i < b.Size; i++ {
		a.byteIndex[b.Address+i] = b.Address
	}
}

// Malloc reserves size bytes on the heap and returns the base address.
// Non-positive sizes yield the NULL address. Cells are zero-initialized,
// which also makes Calloc a plain alias.
func (a *Arena) Malloc(size int, elemType string, elemSize, line int) int {
	if size <= 0 {
		return 0
	}
	if elemSize <= 0 {
		elemSize = 1
	}
	n := size / elemSize
	if size%elemSize != 0 {
		n++
	}
	b := &Block{
		Address:   a.heapNext,
		Size:      size,
		Cells:     make([]any, n),
		AllocLine: line,
		ElemType:  elemType,
		ElemSize:  elemSize,
	}
	a.heapNext += size + Padding
	a.register(b)
	a.allocCount++
	a.history = append(a.history, Event{Kind: "malloc", Address: b.Address, Size: size, Line: line})
	return b.Address
}

// Calloc reserves n*size zeroed bytes.
func (a *Arena) Calloc(n, size int, elemType string, elemSize, line int) int {
	return a.Malloc(n*size, elemType, elemSize, line)
}

// Realloc resizes an allocation by allocating fresh memory, copying
// min(old,new) bytes and freeing the old block. The original address is
// never reused, even when shrinking. A NULL pointer behaves like Malloc;
// a zero size frees and returns NULL.
func (a *Arena) Realloc(addr, newSize int, line int) (int, error) {
	if addr == 0 {
		return a.Malloc(newSize, "byte", 1, line), nil
	}
	old, ok := a.blocks[addr]
	if !ok {
		return 0, fmt.Errorf("%w: realloc of unallocated address 0x%X", ErrInvalidFree, addr)
	}
	if newSize == 0 {
		if err := a.Free(addr, line); err != nil {
			return 0, err
		}
		return 0, nil
	}
	fresh := a.Malloc(newSize, old.ElemType, old.ElemSize, line)
	nb := a.blocks[fresh]
	copyCells := len(old.Cells)
	if len(nb.Cells) < copyCells {
		copyCells = len(nb.Cells)
	}
	copy(nb.Cells, old.Cells[:copyCells])
	if err := a.Free(addr, line); err != nil {
		return 0, err
	}
	a.history = append(a.history, Event{Kind: "realloc", Address: fresh, Size: newSize, Line: line})
	return fresh, nil
}

// Free releases a heap allocation. NULL is a no-op. Unknown addresses,
// already-freed blocks and stack-resident blocks are distinct fatal faults.
// The block stays indexed so later access reports use-after-free.
func (a *Arena) Free(addr, line int) error {
	if addr == 0 {
		return nil
	}
	b, ok := a.blocks[addr]
	if !ok {
		return fmt.Errorf("%w: address 0x%X was never allocated", ErrInvalidFree, addr)
	}
	if b.Freed {
		return fmt.Errorf("%w: address 0x%X already freed at line %d", ErrDoubleFree, addr, b.FreeLine)
	}
	if b.OnStack {
		return fmt.Errorf("%w: address 0x%X points into the stack", ErrInvalidFree, addr)
	}
	b.Freed = true
	b.FreeLine = line
	a.freeCount++
	a.history = append(a.history, Event{Kind: "free", Address: addr, Size: b.Size, Line: line})
	return nil
}

// resolve finds the owning block and in-block byte offset for an address.
func (a *Arena) resolve(addr int) (*Block, int, error) {
	base, ok := a.byteIndex[addr]
	if !ok {
		return nil, 0, fmt.Errorf("%w: invalid memory access at 0x%X", ErrSegfault, addr)
	}
	b := a.blocks[base]
	if b.Freed {
		return nil, 0, fmt.Errorf("%w: memory at 0x%X was freed at line %d", ErrUseAfterFree, addr, b.FreeLine)
	}
	return b, addr - base, nil
}

// Read loads the cell containing addr+offset (offset in bytes).
func (a *Arena) Read(addr, offset int) (any, error) {
	b, byteOff, err := a.resolve(addr)
	if err != nil {
		return nil, err
	}
	byteOff += offset
	if byteOff < 0 || byteOff >= b.Size {
		return nil, fmt.Errorf("%w: offset %d outside block of %d bytes at 0x%X",
			ErrOverflow, byteOff, b.Size, b.Address)
	}
	return b.Cells[b.CellIndex(byteOff)], nil
}

// Write stores v into the cell containing addr+offset (offset in bytes).
func (a *Arena) Write(addr, offset int, v any) error {
	b, byteOff, err := a.resolve(addr)
	if err != nil {
		return err
	}
	byteOff += offset
	if byteOff < 0 || byteOff >= b.Size {
		return fmt.Errorf("%w: offset %d outside block of %d bytes at 0x%X",
			ErrOverflow, byteOff, b.Size, b.Address)
	}
	b.Cells[b.CellIndex(byteOff)] = v
	return nil
}

// Block returns the block based at addr, if any.
func (a *Arena) Block(addr int) (*Block, bool) {
	b, ok := a.blocks[addr]
	return b, ok
}

// PushFrame opens a stack region for a call.
func (a *Arena) PushFrame(function string) *StackFrame {
	f := &StackFrame{
		Function: function,
		Base:     a.stackPtr,
		Vars:     make(map[string]int),
		Sizes:    make(map[string]int),
		Types:    make(map[string]string),
	}
	a.frames = append(a.frames, f)
	return f
}

// PopFrame tears down the top frame. Its blocks are marked freed but stay
// indexed, so dangling pointers into the dead frame fault on access.
func (a *Arena) PopFrame() {
	if len(a.frames) == 0 {
		return
	}
	f := a.frames[len(a.frames)-1]
	a.frames = a.frames[:len(a.frames)-1]
	for _, addr := range f.Vars {
		if b, ok := a.blocks[addr]; ok && !b.Freed {
			b.Freed = true
		}
	}
	a.stackPtr = f.Base
}

// CurrentFrame returns the innermost stack frame, or nil outside any call.
func (a *Arena) CurrentFrame() *StackFrame {
	if len(a.frames) == 0 {
		return nil
	}
	return a.frames[len(a.frames)-1]
}

// AllocLocal reserves stack space for a local variable in the top frame and
// returns its address. The stack pointer moves down by the variable's size.
func (a *Arena) AllocLocal(name string, size int, elemType string, elemSize, line int) int {
	f := a.CurrentFrame()
	if f == nil {
		f = a.PushFrame("main")
	}
	if size <= 0 {
		size = 1
	}
	if elemSize <= 0 {
		elemSize = 1
	}
	a.stackPtr -= size
	n := size / elemSize
	if size%elemSize != 0 {
		n++
	}
	b := &Block{
		Address:   a.stackPtr,
		Size:      size,
		Cells:     make([]any, n),
		AllocLine: line,
		ElemType:  elemType,
		ElemSize:  elemSize,
		OnStack:   true,
	}
	a.register(b)
	f.Vars[name] = b.Address
	f.Sizes[name] = size
	f.Types[name] = elemType
	a.history = append(a.history, Event{Kind: "stack", Address: b.Address, Size: size, Line: line})
	return b.Address
}

// AddressOf returns the stack address of a named local, searching frames
// innermost first.
func (a *Arena) AddressOf(name string) (int, bool) {
	for i := len(a.frames) - 1; i >= 0; i-- {
		if addr, ok := a.frames[i].Vars[name]; ok {
			return addr, true
		}
	}
	return 0, false
}

// HeapBlocks returns every heap block sorted by address.
func (a *Arena) HeapBlocks() []*Block {
	var out []*Block
	for _, b := range a.blocks {
		if !b.OnStack {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Frames returns the active stack frames, outermost first.
func (a *Arena) Frames() []*StackFrame {
	return append([]*StackFrame(nil), a.frames...)
}

// Leaks returns heap blocks that were never freed.
func (a *Arena) Leaks() []*Block {
	var out []*Block
	for _, b := range a.HeapBlocks() {
		if !b.Freed {
			out = append(out, b)
		}
	}
	return out
}

// History returns the allocation/free event log in order.
func (a *Arena) History() []Event {
	return append([]Event(nil), a.history...)
}

// Counts returns the running allocation and free totals.
func (a *Arena) Counts() (allocs, frees int) {
	return a.allocCount, a.freeCount
}

// HeapUsed returns the number of live (unfreed) heap bytes.
func (a *Arena) HeapUsed() int {
	total := 0
	for _, b := range a.HeapBlocks() {
		if !b.Freed {
			total += b.Size
		}
	}
	return total
}

// StackUsed returns the number of bytes between the stack base and the
// current stack pointer.
func (a *Arena) StackUsed() int {
	return StackBase - a.stackPtr
}
