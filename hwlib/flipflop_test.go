package hwlib_test

import (
	"testing"

	"github.com/db47h/seqsim"
	hl "github.com/db47h/seqsim/hwlib"
	"github.com/db47h/seqsim/hwtest"
	"github.com/stretchr/testify/assert"
)

// clockFF runs a full rising edge through f with data inputs a and b.
//
func clockFF(f *hl.FlipFlop, a, b seqsim.Value) hl.FlipFlopOutputs {
	f.Update(hl.FlipFlopInputs{Control: seqsim.Control{Clock: f0}, A: a, B: b})
	return f.Update(hl.FlipFlopInputs{Control: seqsim.Control{Clock: t1}, A: a, B: b})
}

func TestFlipFlop_tables(t *testing.T) {
	e := seqsim.Error(1)
	type step struct{ a, b, q seqsim.Value }
	data := []struct {
		typ   hl.FlipFlopType
		steps []step
	}{
		{hl.D, []step{{t1, seqsim.Nil, t1}, {f0, seqsim.Nil, f0}, {ux, seqsim.Nil, ux}, {e, seqsim.Nil, e}, {t1, seqsim.Nil, t1}}},
		{hl.T, []step{{t1, seqsim.Nil, t1}, {t1, seqsim.Nil, f0}, {f0, seqsim.Nil, f0}, {t1, seqsim.Nil, t1}, {f0, seqsim.Nil, t1}}},
		{hl.JK, []step{{t1, t1, t1}, {t1, t1, f0}, {t1, f0, t1}, {f0, f0, t1}, {f0, t1, f0}, {ux, f0, ux}}},
		{hl.SR, []step{{t1, f0, t1}, {f0, f0, t1}, {f0, t1, f0}, {t1, t1, e}, {e, f0, e}}},
	}
	for _, d := range data {
		t.Run(d.typ.String(), func(t *testing.T) {
			f := hl.NewFlipFlop(hl.FlipFlopAttrs{Type: d.typ})
			for i, s := range d.steps {
				out := clockFF(f, s.a, s.b)
				assert.Truef(t, out.Q.Equal(s.q), "step %d: q = %v, expected %v", i, out.Q, s.q)
				assert.Truef(t, out.NotQ.Equal(s.q.Not()), "step %d: nq = %v, expected %v", i, out.NotQ, s.q.Not())
			}
		})
	}
}

func TestFlipFlop_control(t *testing.T) {
	f := hl.NewFlipFlop(hl.FlipFlopAttrs{Type: hl.D, Trigger: seqsim.Falling})
	upd := func(clk, d, rst, pre, en seqsim.Value) seqsim.Value {
		return f.Update(hl.FlipFlopInputs{Control: seqsim.Control{Clock: clk, Reset: rst, Preset: pre, Enable: en}, A: d}).Q
	}
	nv := seqsim.Nil
	assert.True(t, upd(t1, t1, nv, nv, nv).IsFalse())
	assert.True(t, upd(f0, t1, nv, nv, nv).IsTrue(), "falling edge")
	assert.True(t, upd(f0, f0, nv, nv, nv).IsTrue(), "no edge")
	assert.True(t, upd(t1, f0, nv, nv, f0).IsTrue())
	assert.True(t, upd(f0, f0, nv, nv, f0).IsTrue(), "disabled")
	assert.True(t, upd(f0, t1, t1, t1, nv).IsFalse(), "reset wins over preset")
	assert.True(t, upd(f0, f0, f0, t1, nv).IsTrue(), "preset")
	assert.True(t, upd(f0, f0, ux, ux, nv).IsTrue(), "undefined controls are ignored")

	u := hl.NewFlipFlop(hl.FlipFlopAttrs{StartUnknown: true})
	assert.True(t, u.Q.IsUnknown())
}

func TestFlipFlopPart(t *testing.T) {
	type io = map[string]seqsim.Value
	hwtest.Run(t, 32, hl.JKFlipFlop(seqsim.Rising), []hwtest.Vector{
		{In: io{"j": t1, "k": t1}, Out: io{"q": t1, "nq": f0}},
		{Out: io{"q": f0, "nq": t1}},
		{Out: io{"q": t1, "nq": f0}},
		{In: io{"j": f0}, Out: io{"q": f0}},
		{In: io{"k": f0}, Out: io{"q": f0}},
		{In: io{"preset": t1}, Out: io{"q": t1}},
		{In: io{"preset": f0, "reset": t1}, Out: io{"q": f0}},
	})
	// wide data inputs use bit 0
	hwtest.Run(t, 32, hl.DFlipFlop(seqsim.Rising), []hwtest.Vector{
		{In: io{"d": seqsim.Known(4, 3)}, Out: io{"q": t1}},
		{In: io{"d": seqsim.Known(4, 2)}, Out: io{"q": f0}},
	})
}
