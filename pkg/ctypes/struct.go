package ctypes

import "fmt"

// FieldDef is one laid-out struct member.
type FieldDef struct {
	Name   string
	Type   string
	Offset int
	Size   int
}

// StructDef is a struct type with offsets computed once at definition time.
// Fields are placed sequentially in declaration order, sized by type; there
// is no alignment padding, matching the teaching model.
type StructDef struct {
	Name   string
	Fields []FieldDef
	Size   int
}

// NewStructDef lays out the fields and computes the total size.
func NewStructDef(name string, fields []FieldDef) *StructDef {
	d := &StructDef{Name: name}
	offset := 0
	for _, f := range fields {
		size := SizeOf(f.Type)
		if size == 0 {
			size = 8
		}
		d.Fields = append(d.Fields, FieldDef{
			Name:   f.Name,
			Type:   f.Type,
			Offset: offset,
			Size:   size,
		})
		offset += size
	}
	d.Size = offset
	return d
}

// OffsetOf returns the byte offset of a field, for pointer arithmetic and
// arrow access.
func (d *StructDef) OffsetOf(name string) (int, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return 0, false
}

// Field returns the definition of a named field.
func (d *StructDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// StructVal is an instance of a StructDef: a name-keyed value record plus
// the definition it was stamped from.
type StructVal struct {
	Def    *StructDef
	Values map[string]any
}

// NewStructVal creates a zero-initialized instance.
func NewStructVal(def *StructDef) *StructVal {
	v := &StructVal{Def: def, Values: make(map[string]any, len(def.Fields))}
	for _, f := range def.Fields {
		v.Values[f.Name] = Default(f.Type)
	}
	return v
}

// Get reads a field value.
func (s *StructVal) Get(name string) (any, error) {
	if _, ok := s.Def.Field(name); !ok {
		return nil, fmt.Errorf("struct %s has no member %q", s.Def.Name, name)
	}
	return s.Values[name], nil
}

// Set writes a field, applying the field type's width rule to numerics.
func (s *StructVal) Set(name string, v any) error {
	f, ok := s.Def.Field(name)
	if !ok {
		return fmt.Errorf("struct %s has no member %q", s.Def.Name, name)
	}
	switch n := v.(type) {
	case int64:
		s.Values[name] = Coerce(f.Type, float64(n))
	case float64:
		s.Values[name] = Coerce(f.Type, n)
	default:
		s.Values[name] = v
	}
	return nil
}

// Clone copies the instance; the definition is shared.
func (s *StructVal) Clone() *StructVal {
	out := &StructVal{Def: s.Def, Values: make(map[string]any, len(s.Values))}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	return out
}
