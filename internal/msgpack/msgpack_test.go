package msgpack_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

type testShape interface {
	Area() float64
}

type testRect struct {
	W, H float64
}

func (r *testRect) Area() float64 { return r.W * r.H }

func (r *testRect) EncodeTo(enc *msgpack.Encoder) error { return enc.Encode(r.W, r.H) }

func (r *testRect) DecodeFrom(dec *msgpack.Decoder) error { return dec.Decode(&r.W, &r.H) }

func init() {
	msgpack.Register(7999, (*testRect)(nil))
}

func TestPlainValueRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.Encode(int(42), "hello", 3.14, map[int]float64{1: 2.5}))

	var i int
	var s string
	var f float64
	var m map[int]float64
	dec := msgpack.NewDecoder(&buf)
	require.NoError(t, dec.Decode(&i, &s, &f, &m))

	assert.Equal(t, 42, i)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 3.14, f)
	assert.Equal(t, map[int]float64{1: 2.5}, m)
}

func TestRegisteredTypeRoundTripsThroughInterface(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.Encode(&testRect{W: 3, H: 4}))

	var shape testShape
	dec := msgpack.NewDecoder(&buf)
	require.NoError(t, dec.Decode(&shape))

	require.NotNil(t, shape)
	assert.Equal(t, 12.0, shape.Area())
}

func TestNilRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	var in *testRect
	require.NoError(t, enc.Encode(in))

	out := &testRect{W: 9}
	dec := msgpack.NewDecoder(&buf)
	require.NoError(t, dec.Decode(&out))
	assert.Nil(t, out)
}

func TestDecodeRejectsNonPointerDestination(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(1))

	var x int
	err := msgpack.NewDecoder(&buf).Decode(x)
	assert.Error(t, err)
}
