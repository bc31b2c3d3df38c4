package cmem

// Block is one tracked region of the simulated address space. Heap blocks
// come from malloc/calloc/realloc, stack blocks from local declarations.
// Freed blocks stay registered until the arena is reset so use-after-free
// and double-free stay detectable.
type Block struct {
	Address   int
	Size      int
	Cells     []any
	Freed     bool
	AllocLine int
	FreeLine  int
	ElemType  string
	ElemSize  int
	OnStack   bool
}

// CellIndex maps a byte offset inside the block to its cell index.
func (b *Block) CellIndex(byteOff int) int {
	if b.ElemSize <= 0 {
		return 0
	}
	return byteOff / b.ElemSize
}

// Pointer is a C pointer value: an address plus the pointee layout. It is a
// plain value and never owns the memory it points at.
type Pointer struct {
	Addr     int
	Elem     string
	ElemSize int
}

// Null reports whether the pointer is NULL.
func (p Pointer) Null() bool { return p.Addr == 0 }

// Add returns the pointer advanced by n elements (pointer arithmetic).
func (p Pointer) Add(n int) Pointer {
	p.Addr += n * p.ElemSize
	return p
}

// StackFrame is the memory-side record of one active call: a contiguous
// region holding the frame's locals.
type StackFrame struct {
	Function string
	Base     int
	Vars     map[string]int // name -> address
	Sizes    map[string]int
	Types    map[string]string
}

// Event is one entry of the allocation/free history.
type Event struct {
	Kind    string // "malloc", "calloc", "realloc", "free", "stack"
	Address int
	Size    int
	Line    int
}
