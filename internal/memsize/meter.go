// Package memsize estimates the deep, heap-included byte size of a Go
// value graph without walking actual allocator bookkeeping. A type that
// knows its own inline and extra-heap size can be measured cheaply;
// everything else falls back to a generic reflect-based walk that a Meter
// de-duplicates by pointer identity so shared or cyclic structures are
// only counted once.
package memsize

import (
	"reflect"
)

// Sized lets a type report its own size instead of being walked
// reflectively. InlineSize is the size of the value itself (its struct
// layout); ExtraHeapSize is whatever it owns beyond that (slice/map
// backing stores, pointees), which a Meter adds on top once per unique
// pointer.
type Sized interface {
	InlineSize() int64
	ExtraHeapSize(m *Meter) int64
}

// Meter accumulates a deep byte-size estimate while avoiding double
// counting of shared pointers and infinite recursion on cycles.
type Meter struct {
	visited map[uintptr]struct{}
}

// NewMeter returns a ready-to-use Meter.
func NewMeter() *Meter {
	return &Meter{visited: map[uintptr]struct{}{}}
}

// Measure returns the deep size of v, starting a fresh Meter.
func Measure(v interface{}) int64 {
	return NewMeter().MeasureValue(v)
}

// MeasureValue returns the deep size of v under this Meter's visited set.
func (m *Meter) MeasureValue(v interface{}) int64 {
	if v == nil {
		return 0
	}
	if s, ok := v.(Sized); ok {
		return s.InlineSize() + m.measureShared(reflect.ValueOf(v), s.ExtraHeapSize)
	}
	return m.reflectSize(reflect.ValueOf(v))
}

// measureShared marks rv's pointer (if any) as visited and, only the first
// time it is seen, adds extra() on top of the caller's inline size.
func (m *Meter) measureShared(rv reflect.Value, extra func(*Meter) int64) int64 {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return 0
		}
		addr := rv.Pointer()
		if _, seen := m.visited[addr]; seen {
			return 0
		}
		m.visited[addr] = struct{}{}
	}
	return extra(m)
}

// MarkVisited reports whether ptr was already measured by this Meter,
// recording it as visited if not. Sized.ExtraHeapSize implementations
// that hold further shared pointers (e.g. child tree nodes kept behind an
// interface) should call this before descending into them.
func (m *Meter) MarkVisited(ptr uintptr) (alreadySeen bool) {
	if _, ok := m.visited[ptr]; ok {
		return true
	}
	m.visited[ptr] = struct{}{}
	return false
}

const (
	wordSize  = 8
	mapEntry  = 8 + 8 // conservative bucket-slot estimate: key ptr + value ptr
	interfSz  = 16
	stringHdr = 16
	sliceHdr  = 24
)

func (m *Meter) reflectSize(rv reflect.Value) int64 {
	if !rv.IsValid() {
		return 0
	}
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return wordSize
		}
		addr := rv.Pointer()
		if m.MarkVisited(addr) {
			return wordSize
		}
		return wordSize + m.MeasureValue(rv.Elem().Interface())
	case reflect.Interface:
		if rv.IsNil() {
			return interfSz
		}
		return interfSz + m.MeasureValue(rv.Elem().Interface())
	case reflect.String:
		return stringHdr + int64(rv.Len())
	case reflect.Slice:
		if rv.IsNil() {
			return sliceHdr
		}
		total := int64(sliceHdr)
		elemSize := int64(rv.Type().Elem().Size())
		total += elemSize * int64(rv.Cap())
		for i := 0; i < rv.Len(); i++ {
			total += m.extraForElem(rv.Index(i))
		}
		return total
	case reflect.Array:
		total := int64(0)
		for i := 0; i < rv.Len(); i++ {
			total += m.reflectSize(rv.Index(i))
		}
		return total
	case reflect.Map:
		if rv.IsNil() {
			return wordSize
		}
		total := int64(wordSize)
		iter := rv.MapRange()
		for iter.Next() {
			total += mapEntry
			total += m.extraForElem(iter.Key())
			total += m.extraForElem(iter.Value())
		}
		return total
	case reflect.Struct:
		total := int64(0)
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Field(i)
			if !f.CanInterface() {
				total += int64(f.Type().Size())
				continue
			}
			total += m.reflectSize(f)
		}
		return total
	default:
		return int64(rv.Type().Size())
	}
}

// extraForElem measures the "beyond its own word size" contribution of a
// slice/map element: primitives already had their bytes counted by the
// container's elemSize*cap or the fixed mapEntry cost, so only pointer-ish
// kinds (which own further heap data) add anything here.
func (m *Meter) extraForElem(rv reflect.Value) int64 {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.String:
		return m.reflectSize(rv)
	case reflect.Struct:
		return m.reflectSize(rv) - int64(rv.Type().Size())
	default:
		return 0
	}
}
