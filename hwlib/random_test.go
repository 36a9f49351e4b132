package hwlib_test

import (
	"testing"
	"time"

	"github.com/db47h/seqsim"
	hl "github.com/db47h/seqsim/hwlib"
	"github.com/db47h/seqsim/hwtest"
	"github.com/stretchr/testify/assert"
)

func clockRandom(r *hl.Random, ctl seqsim.Control) seqsim.Value {
	ctl.Clock = f0
	r.Update(hl.RandomInputs{Control: ctl})
	ctl.Clock = t1
	v, _ := r.Update(hl.RandomInputs{Control: ctl})
	return v
}

func TestRandom_sequence(t *testing.T) {
	r := hl.NewRandom(hl.RandomAttrs{Width: 32, Seed: 1})
	assert.Equal(t, seqsim.Known(32, 1), r.Value(), "output is the seed until the first step")
	for i, exp := range []uint64{0x5deece, 0xb61488df, 0xf4111591} {
		assert.Equalf(t, seqsim.Known(32, exp), clockRandom(r, seqsim.Control{}), "step %d", i)
	}
	assert.Equal(t, seqsim.Known(32, 0xf4111591), clockRandom(r, seqsim.Control{Enable: f0}), "disabled")

	narrow := hl.NewRandom(hl.RandomAttrs{Width: 8, Seed: 1})
	assert.Equal(t, seqsim.Known(8, 0xce), clockRandom(narrow, seqsim.Control{}))
}

func TestRandom_reset(t *testing.T) {
	defer func(now func() time.Time) { hl.Now = now }(hl.Now)
	hl.Now = func() time.Time { return time.UnixMilli(1000) }

	r := hl.NewRandom(hl.RandomAttrs{Width: 32})
	assert.Equal(t, seqsim.Known(32, 0xdeece585), r.Value(), "clock seeded")
	clockRandom(r, seqsim.Control{})

	// same clock: the new seed must differ from the last one.
	assert.Equal(t, seqsim.Known(32, 0xbdd9cbf2), clockRandom(r, seqsim.Control{Reset: t1}))
	assert.Equal(t, seqsim.Known(32, 0xbdd9cbf2), clockRandom(r, seqsim.Control{Reset: t1}), "held while reset is high")
	assert.NotEqual(t, seqsim.Known(32, 0xbdd9cbf2), clockRandom(r, seqsim.Control{Reset: f0}))

	// a fixed seed restarts the same sequence.
	f := hl.NewRandom(hl.RandomAttrs{Width: 32, Seed: 1})
	a := clockRandom(f, seqsim.Control{})
	f.Update(hl.RandomInputs{Control: seqsim.Control{Clock: f0, Reset: t1}})
	assert.Equal(t, seqsim.Known(32, 1), f.Value())
	assert.Equal(t, a, clockRandom(f, seqsim.Control{Reset: f0}))
}

func TestRandomPart(t *testing.T) {
	type io = map[string]seqsim.Value
	k := func(v uint64) seqsim.Value { return seqsim.Known(16, v) }
	hwtest.Run(t, 32, hl.RandomPart(hl.RandomAttrs{Width: 16, Seed: 1}), []hwtest.Vector{
		{Out: io{"q": k(0xdece)}},
		{In: io{"next": f0}, Out: io{"q": k(0xdece)}},
		{In: io{"next": t1}, Out: io{"q": k(0x88df)}},
		{In: io{"reset": t1}, Out: io{"q": k(1)}},
	})
}
