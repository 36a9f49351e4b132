package hwlib_test

import (
	"testing"

	"github.com/db47h/seqsim"
	hl "github.com/db47h/seqsim/hwlib"
	"github.com/db47h/seqsim/hwtest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	r := hl.NewRegister(hl.RegisterAttrs{Width: 8, StartUnknown: true})
	assert.True(t, r.Q.IsUnknown())

	clock := func(d seqsim.Value) seqsim.Value {
		r.Update(hl.RegisterInputs{Control: seqsim.Control{Clock: f0}, Data: d})
		q, delay := r.Update(hl.RegisterInputs{Control: seqsim.Control{Clock: t1}, Data: d})
		assert.EqualValues(t, hl.RegisterDelay, delay)
		return q
	}
	assert.Equal(t, "34", clock(seqsim.Known(16, 0x1234)).String(), "wide data is truncated")
	assert.Equal(t, "05", clock(seqsim.Known(4, 5)).String(), "narrow data is zero extended")
	assert.True(t, clock(seqsim.Nil).IsUnknown(), "unconnected data")

	q, _ := r.Update(hl.RegisterInputs{Control: seqsim.Control{Clock: f0, Reset: t1}})
	assert.Equal(t, "00", q.String())
}

func TestRegister_level(t *testing.T) {
	r := hl.NewRegister(hl.RegisterAttrs{Width: 4, Trigger: seqsim.High})
	var qs []seqsim.Value
	for i, clk := range []seqsim.Value{t1, t1, f0, f0, t1} {
		q, _ := r.Update(hl.RegisterInputs{Control: seqsim.Control{Clock: clk}, Data: seqsim.Known(4, uint64(i))})
		qs = append(qs, q)
	}
	exp := []seqsim.Value{
		seqsim.Known(4, 0), seqsim.Known(4, 1), seqsim.Known(4, 1), seqsim.Known(4, 1), seqsim.Known(4, 4),
	}
	if diff := cmp.Diff(exp, qs); diff != "" {
		t.Fatalf("transparent latch mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterPart(t *testing.T) {
	type io = map[string]seqsim.Value
	k := func(v uint64) seqsim.Value { return seqsim.Known(8, v) }
	// the falling edge comes first in a vector and samples the inputs of the
	// previous one.
	hwtest.Run(t, 32, hl.RegisterPart(hl.RegisterAttrs{Width: 8, Trigger: seqsim.Falling}), []hwtest.Vector{
		{In: io{"d": k(0x42)}, Out: io{"q": seqsim.Unknown(8)}},
		{In: io{"d": k(0x43)}, Out: io{"q": k(0x42)}},
		{In: io{"en": f0}, Out: io{"q": k(0x43)}},
		{In: io{"d": k(0x44)}, Out: io{"q": k(0x43)}},
	})
}
