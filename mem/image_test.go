package mem_test

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/db47h/seqsim/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteImage(t *testing.T) {
	s := mem.New(8, 8)
	s.Load(0, []uint64{1, 2, 3, 0, 0, 0, 0, 0, 7, 7, 7})
	var b bytes.Buffer
	require.NoError(t, mem.WriteImage(&b, s))
	assert.Equal(t, "v2.0 raw\n1 2 3 5*0 7 7 7\n", b.String())

	b.Reset()
	require.NoError(t, mem.WriteImage(&b, mem.New(8, 8)))
	assert.Equal(t, "v2.0 raw\n", b.String())
}

func TestImage_roundTrip(t *testing.T) {
	s := mem.New(16, 16)
	s.Fill(10, 5000, 0xbeef)
	s.Set(9000, 1)
	s.Set(65535, 0xffff)
	var b bytes.Buffer
	require.NoError(t, mem.WriteImage(&b, s))

	o := mem.New(16, 16)
	o.Set(3, 3)
	require.NoError(t, mem.ReadImage(&b, o))
	assert.Equal(t, s.Read(0, s.Size()), o.Read(0, o.Size()))
	assert.Equal(t, uint64(0), o.Get(3))
}

func TestReadImage(t *testing.T) {
	s := mem.New(4, 4)
	err := mem.ReadImage(strings.NewReader("# header comment\nv2.0 raw\n1 2*f # two words\n\n3*1f\n"), s)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 0xf, 0xf, 0xf, 0xf, 0xf, 0}, s.Read(0, 7))

	td := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header", "v3.0 hex\n1 2"},
		{"word", "v2.0 raw\nxyz"},
		{"count", "v2.0 raw\nz*1"},
		{"size", "v2.0 raw\n17*0"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			assert.Error(t, mem.ReadImage(strings.NewReader(d.in), mem.New(4, 4)))
		})
	}
}

func TestImage_sparse(t *testing.T) {
	const top = 1<<32 - 1
	s := mem.New(32, 8)
	s.Set(top, 5)
	var b bytes.Buffer
	require.NoError(t, mem.WriteImage(&b, s))
	assert.Equal(t, "v2.0 raw\n4294967295*0 5\n", b.String())

	o := mem.New(32, 8)
	o.Set(7, 7)
	require.NoError(t, mem.ReadImage(strings.NewReader("v2.0 raw\n4294967295*0 5\n"), o))
	assert.Equal(t, uint64(5), o.Get(top))
	assert.Equal(t, uint64(0), o.Get(7))
	assert.Equal(t, 1, o.Pages())
}

func TestReadImage_keepsStoreOnError(t *testing.T) {
	s := mem.New(4, 4)
	s.Set(2, 9)
	require.Error(t, mem.ReadImage(strings.NewReader("v2.0 raw\n1 2 3 zz\n"), s))
	assert.Equal(t, []uint64{0, 0, 9, 0}, s.Read(0, 4))
}

func TestViewer(t *testing.T) {
	s := mem.New(16, 12)
	v := mem.ViewerFor(s)
	require.Same(t, v, mem.ViewerFor(s))
	require.Same(t, s, v.Store())

	s.Set(9, 0xabc)
	assert.Equal(t, []string{
		"0008: 000 abc 000 000 000 000 000 000",
		"0010: 000 000 000 000 000 000 000 000",
	}, v.Rows(9, 2))
	assert.Equal(t, uint64(8), v.Row(15))

	s.Set(0x5000, 1)
	assert.Equal(t, "*\n0008: 000 abc 000 000 000 000 000 000\n*\n5000: 001 000 000 000 000 000 000 000\n", v.String())
	runtime.KeepAlive(s)
}
