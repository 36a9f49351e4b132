package hwlib_test

import (
	"testing"

	"github.com/db47h/seqsim"
	hl "github.com/db47h/seqsim/hwlib"
	"github.com/db47h/seqsim/hwtest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func clockShift(r *hl.ShiftRegister, in hl.ShiftRegisterInputs) hl.ShiftRegisterOutputs {
	in.Clock = f0
	r.Update(in)
	in.Clock = t1
	return r.Update(in)
}

func TestShiftRegister(t *testing.T) {
	k := func(v uint64) seqsim.Value { return seqsim.Known(4, v) }
	r := hl.NewShiftRegister(hl.ShiftRegisterAttrs{Width: 4, Length: 3})
	var outs []seqsim.Value
	for _, v := range []uint64{1, 2, 3, 4} {
		outs = append(outs, clockShift(r, hl.ShiftRegisterInputs{In: k(v)}).Out)
	}
	if diff := cmp.Diff([]seqsim.Value{k(0), k(0), k(1), k(2)}, outs); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]seqsim.Value{k(4), k(3), k(2)}, r.Stages); diff != "" {
		t.Fatalf("stage mismatch (-want +got):\n%s", diff)
	}

	out := clockShift(r, hl.ShiftRegisterInputs{In: k(5), Shift: f0})
	assert.Equal(t, k(2), out.Out)
	assert.Nil(t, out.Taps)

	out = clockShift(r, hl.ShiftRegisterInputs{})
	assert.True(t, r.Stages[0].IsUnknown(), "unconnected input")
	assert.Equal(t, k(3), out.Out)

	out = r.Update(hl.ShiftRegisterInputs{Control: seqsim.Control{Reset: t1}})
	assert.Equal(t, k(0), out.Out)
}

func TestShiftRegister_parallel(t *testing.T) {
	k := func(v uint64) seqsim.Value { return seqsim.Known(8, v) }
	r := hl.NewShiftRegister(hl.ShiftRegisterAttrs{Width: 8, Length: 3, Parallel: true})
	out := clockShift(r, hl.ShiftRegisterInputs{Load: t1, In: k(9), D: []seqsim.Value{k(5), k(6), k(7)}})
	assert.Equal(t, k(7), out.Out)
	if diff := cmp.Diff([]seqsim.Value{k(5), k(6), k(7)}, out.Taps); diff != "" {
		t.Fatalf("taps mismatch (-want +got):\n%s", diff)
	}
	out = clockShift(r, hl.ShiftRegisterInputs{In: k(9)})
	if diff := cmp.Diff([]seqsim.Value{k(9), k(5), k(6)}, out.Taps); diff != "" {
		t.Fatalf("taps mismatch (-want +got):\n%s", diff)
	}
}

func TestShiftRegisterPart(t *testing.T) {
	type io = map[string]seqsim.Value
	hwtest.Run(t, 32, hl.ShiftRegisterPart(hl.ShiftRegisterAttrs{Width: 1, Length: 2, Parallel: true}), []hwtest.Vector{
		{In: io{"in": t1}, Out: io{"out": f0, "q[0]": t1, "q[1]": f0}},
		{In: io{"in": f0}, Out: io{"out": t1, "q[0]": f0, "q[1]": t1}},
		{In: io{"load": t1, "d[0]": t1, "d[1]": t1}, Out: io{"out": t1, "q[0]": t1}},
		{In: io{"load": f0, "clr": t1}, Out: io{"out": f0, "q[0]": f0}},
	})
}
