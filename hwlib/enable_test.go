package hwlib_test

import (
	"testing"

	"github.com/db47h/seqsim"
	hl "github.com/db47h/seqsim/hwlib"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var (
	t1 = seqsim.True
	f0 = seqsim.False
	ux = seqsim.Unknown(1)
)

func TestByteLanes(t *testing.T) {
	for _, d := range []struct{ w, n int }{{1, 0}, {8, 0}, {9, 2}, {16, 2}, {20, 3}, {64, 8}} {
		assert.Equalf(t, d.n, hl.ByteLanes(d.w), "ByteLanes(%d)", d.w)
	}
	assert.Equal(t, uint64(0xff00), hl.LaneMask(1, 16))
	assert.Equal(t, uint64(0xf0000), hl.LaneMask(2, 20))
	assert.Equal(t, uint64(0), hl.LaneMask(3, 20))
}

func TestMergeLanes(t *testing.T) {
	data := []struct {
		name string
		be   []seqsim.Value
		exp  uint64
	}{
		{"none", nil, 0x1234},
		{"all", []seqsim.Value{t1, t1}, 0x1234},
		{"low", []seqsim.Value{t1, f0}, 0xab34},
		{"high", []seqsim.Value{f0, t1}, 0x12cd},
		{"unknown", []seqsim.Value{ux, t1}, 0x12cd},
		{"off", []seqsim.Value{f0, f0}, 0xabcd},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			assert.Equal(t, d.exp, hl.MergeLanes(0xabcd, 0x1234, d.be, 16))
		})
	}
}

func TestReadLanes(t *testing.T) {
	assert.Equal(t, "ab34", hl.ReadLanes(0xab34, nil, 16).String())
	assert.Equal(t, "xx34", hl.ReadLanes(0xab34, []seqsim.Value{t1, f0}, 16).String())
	assert.Equal(t, "abxx", hl.ReadLanes(0xab34, []seqsim.Value{f0, ux}, 16).String())
	v, ok := hl.ReadLanes(0xab34, []seqsim.Value{t1, t1}, 16).Uint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(0xab34), v)
}

func TestLineWrites(t *testing.T) {
	got := hl.LineWrites([]seqsim.Value{t1, f0, ux}, 4)
	if diff := cmp.Diff([]bool{true, false, true, true}, got); diff != "" {
		t.Fatalf("LineWrites mismatch (-want +got):\n%s", diff)
	}
}

func TestMisaligned(t *testing.T) {
	data := []struct {
		addr  uint64
		lines int
		allow bool
		exp   bool
	}{
		{0, 4, false, false},
		{1, 4, false, true},
		{1, 4, true, false},
		{6, 2, false, false},
		{7, 1, false, false},
		{12, 8, false, true},
	}
	for _, d := range data {
		assert.Equalf(t, d.exp, hl.Misaligned(d.addr, d.lines, d.allow), "Misaligned(%d, %d, %v)", d.addr, d.lines, d.allow)
	}
}
