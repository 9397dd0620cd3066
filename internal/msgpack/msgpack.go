// Package msgpack is the wire codec used to persist a trained tree
// (Tree.DumpTo / hoeffding.Load).
//
// The public shape (Register, Encoder.Encode, Decoder.Decode, EncodeTo/
// DecodeFrom, a context-carrying Decoder) adds polymorphic, registry-tagged
// encoding on top of the vmihailenco/msgpack/v5 codec, which handles the
// actual wire bytes.
package msgpack

import (
	"context"
	"io"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	mp "github.com/vmihailenco/msgpack/v5"
)

// Encodable types know how to write their own fields, in a fixed order,
// through an Encoder.
type Encodable interface {
	EncodeTo(enc *Encoder) error
}

// Decodable types know how to read back the fields EncodeTo wrote, in the
// same order, through a Decoder.
type Decodable interface {
	DecodeFrom(dec *Decoder) error
}

var (
	registryMu sync.RWMutex
	idToType   = map[int16]reflect.Type{}
	typeToID   = map[reflect.Type]int16{}
)

// Register associates a wire type id with the concrete type behind sample,
// which must be a typed nil pointer, e.g. (*Attribute)(nil). Registered
// types may be decoded polymorphically (through an interface-typed field)
// because the id, not the static Go type, selects the concrete type to
// allocate at decode time.
func Register(id int16, sample interface{}) {
	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	registryMu.Lock()
	idToType[id] = t
	typeToID[t] = id
	registryMu.Unlock()
}

const (
	tagNil   int16 = -1
	tagPlain int16 = 0
)

// Encoder sequentially writes a stream of self-describing values.
type Encoder struct {
	enc *mp.Encoder
}

// NewEncoder wraps a writer.
func NewEncoder(w io.Writer) *Encoder { return &Encoder{enc: mp.NewEncoder(w)} }

// Close flushes any buffered state. Kept for symmetry with io.Closer-style
// encoders; the underlying codec has nothing to flush.
func (e *Encoder) Close() error { return nil }

// Encode writes each value in order.
func (e *Encoder) Encode(vs ...interface{}) error {
	for _, v := range vs {
		if err := e.encodeOne(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeOne(v interface{}) error {
	if isNilValue(v) {
		return e.enc.EncodeInt16(tagNil)
	}
	if enc, ok := v.(Encodable); ok {
		id, registered := idFor(v)
		if !registered {
			return errors.Errorf("msgpack: type %T is Encodable but not Register()ed", v)
		}
		if err := e.enc.EncodeInt16(id); err != nil {
			return err
		}
		return enc.EncodeTo(e)
	}
	if err := e.enc.EncodeInt16(tagPlain); err != nil {
		return err
	}
	return e.enc.Encode(v)
}

func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func idFor(v interface{}) (int16, bool) {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	registryMu.RLock()
	id, ok := typeToID[t]
	registryMu.RUnlock()
	return id, ok
}

// Decoder sequentially reads back a stream written by an Encoder. It
// carries a context.Context so that Decodable implementations (notably
// conditional tests) can recover shared state, such as the active *Model,
// that isn't itself part of the encoded bytes.
type Decoder struct {
	dec *mp.Decoder
	ctx context.Context
}

// NewDecoder wraps a reader with a background context.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: mp.NewDecoder(r), ctx: context.Background()}
}

// WithContext attaches ctx and returns the Decoder for chaining.
func (d *Decoder) WithContext(ctx context.Context) *Decoder {
	d.ctx = ctx
	return d
}

// SetContext replaces the Decoder's context mid-decode; used once a
// dependency (e.g. the Model) has itself been decoded.
func (d *Decoder) SetContext(ctx context.Context) { d.ctx = ctx }

// Context returns the Decoder's current context.
func (d *Decoder) Context() context.Context { return d.ctx }

// Decode reads back each destination in order. Every destination must be a
// pointer.
func (d *Decoder) Decode(dsts ...interface{}) error {
	for _, dst := range dsts {
		if err := d.decodeOne(dst); err != nil {
			return err
		}
	}
	return nil
}

var decodableType = reflect.TypeOf((*Decodable)(nil)).Elem()

func (d *Decoder) decodeOne(dst interface{}) error {
	tag, err := d.dec.DecodeInt16()
	if err != nil {
		return err
	}

	switch tag {
	case tagNil:
		return setZero(dst)
	case tagPlain:
		return d.dec.Decode(dst)
	default:
		registryMu.RLock()
		t, ok := idToType[tag]
		registryMu.RUnlock()
		if !ok {
			return errors.Errorf("msgpack: unknown registered type id %d", tag)
		}

		newVal := reflect.New(t)
		decodable, ok := newVal.Interface().(Decodable)
		if !ok {
			return errors.Errorf("msgpack: type %s is not Decodable", t)
		}
		if err := decodable.DecodeFrom(d); err != nil {
			return err
		}
		return assign(dst, newVal)
	}
}

func assign(dst interface{}, newVal reflect.Value) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr {
		return errors.Errorf("msgpack: decode destination must be a pointer, got %T", dst)
	}
	elem := rv.Elem()
	if !newVal.Type().AssignableTo(elem.Type()) {
		return errors.Errorf("msgpack: cannot assign %s into %s", newVal.Type(), elem.Type())
	}
	elem.Set(newVal)
	return nil
}

func setZero(dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr {
		return errors.Errorf("msgpack: decode destination must be a pointer, got %T", dst)
	}
	elem := rv.Elem()
	elem.Set(reflect.Zero(elem.Type()))
	return nil
}
