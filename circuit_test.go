package seqsim_test

import (
	"testing"

	"github.com/db47h/seqsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuit_clock(t *testing.T) {
	var seen []seqsim.Value
	c, err := seqsim.NewCircuit(1, 3, seqsim.Parts{
		seqsim.Output(func(v seqsim.Value) { seen = append(seen, v) })("in=clk"),
	})
	require.NoError(t, err)
	defer c.Dispose()
	assert.Equal(t, uint(4), c.SPC())

	c.Tick()
	assert.Equal(t, uint(2), c.Steps())
	v, _ := c.Wire(seqsim.Clk)
	assert.Equal(t, seqsim.False, v)
	c.Tock()
	assert.Equal(t, uint(4), c.Steps())
	c.TickTock()
	assert.Equal(t, uint(8), c.Steps())
	c.Tick()
	c.TockTick()
	assert.Equal(t, uint(14), c.Steps())

	f0, t1 := seqsim.False, seqsim.True
	exp := []seqsim.Value{t1, t1, f0, f0, t1, t1, f0, f0, t1, t1, f0, f0, t1, t1}
	assert.Equal(t, exp, seen)
}

func TestCircuit_delay(t *testing.T) {
	var in uint64
	var out seqsim.Value
	c, err := seqsim.NewCircuit(2, 8, seqsim.Parts{
		seqsim.Input(func() seqsim.Value { return seqsim.Known(8, in) })("out=a"),
		seqsim.Output(func(v seqsim.Value) { out = v })("in=a"),
	})
	require.NoError(t, err)
	defer c.Dispose()
	assert.Equal(t, 2, c.Size())

	in = 42
	v, ok := c.Wire("a")
	require.True(t, ok)
	assert.True(t, v.IsNil())
	c.Step()
	v, _ = c.Wire("a")
	assert.Equal(t, seqsim.Known(8, 42), v)
	assert.Equal(t, 1, c.Changes())
	assert.True(t, out.IsNil())
	c.Step()
	assert.Equal(t, seqsim.Known(8, 42), out)
	assert.Equal(t, 0, c.Changes())

	in = 43
	c.Step()
	v, _ = c.Wire("a")
	assert.Equal(t, seqsim.Known(8, 43), v)

	_, ok = c.Wire("nope")
	assert.False(t, ok)
	for name, exp := range map[string]seqsim.Value{
		seqsim.GND: seqsim.False,
		seqsim.VCC: seqsim.True,
		seqsim.NC:  seqsim.Nil,
	} {
		v, ok = c.Wire(name)
		assert.True(t, ok, name)
		assert.Equal(t, exp, v, name)
	}
}

func TestCircuit_busConflict(t *testing.T) {
	c, err := seqsim.NewCircuit(0, 8, seqsim.Parts{
		seqsim.Constant(seqsim.Known(4, 3))("out=same"),
		seqsim.Constant(seqsim.Known(4, 3))("out=same"),
		seqsim.Constant(seqsim.Known(4, 3))("out=bus"),
		seqsim.Constant(seqsim.Known(4, 5))("out=bus"),
		seqsim.Constant(seqsim.Unknown(4))("out=float"),
		seqsim.Constant(seqsim.Known(4, 9))("out=float"),
	})
	require.NoError(t, err)
	defer c.Dispose()
	c.Step()

	for name, exp := range map[string]string{"same": "3", "bus": "E", "float": "9"} {
		v, _ := c.Wire(name)
		assert.Equal(t, exp, v.String(), name)
	}
	vs := c.Values([]int{0, 1})
	assert.Equal(t, []seqsim.Value{seqsim.False, seqsim.True}, vs)
}

func TestCircuit_customPart(t *testing.T) {
	latch := &seqsim.PartSpec{
		Name:    "Latch",
		Inputs:  seqsim.IO("d, en"),
		Outputs: seqsim.IO("q"),
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			d, en, q := s.Pin("d"), s.Pin("en"), s.Pin("q")
			var st seqsim.Value
			return []seqsim.Component{
				func(c *seqsim.Circuit) {
					if c.Get(en).IsTrue() {
						st = c.Get(d)
					}
					c.Set(q, st, 1)
				},
			}
		}}
	var en bool
	c, err := seqsim.NewCircuit(1, 8, seqsim.Parts{
		seqsim.Constant(seqsim.Known(2, 2))("out=d"),
		seqsim.Input(func() seqsim.Value { return seqsim.Bool(en) })("out=en"),
		latch.NewPart("d=d, en=en, q=q"),
	})
	require.NoError(t, err)
	defer c.Dispose()

	q := func() seqsim.Value { v, _ := c.Wire("q"); return v }
	c.Step()
	c.Step()
	assert.True(t, q().IsNil())
	en = true
	c.Step() // en lands
	c.Step() // latch samples d
	c.Step()
	assert.Equal(t, seqsim.Known(2, 2), q())
}

func TestNewCircuit_errors(t *testing.T) {
	buf := &seqsim.PartSpec{
		Name:    "Buf",
		Inputs:  seqsim.IO("in"),
		Outputs: seqsim.IO("out"),
		Mount:   func(s *seqsim.Socket) []seqsim.Component { return nil },
	}
	data := []struct {
		name  string
		parts seqsim.Parts
	}{
		{"empty", nil},
		{"bad pin", seqsim.Parts{buf.NewPart("x=a")}},
		{"output to constant", seqsim.Parts{buf.NewPart("in=a, out=true")}},
		{"output to clock", seqsim.Parts{buf.NewPart("out=clk")}},
	}
	for _, d := range data {
		_, err := seqsim.NewCircuit(1, 8, d.parts)
		assert.Error(t, err, d.name)
	}
}

func TestSocket_Bus(t *testing.T) {
	var got []seqsim.Value
	join := &seqsim.PartSpec{
		Name:   "Join",
		Inputs: seqsim.IO("a[3]"),
		Mount: func(s *seqsim.Socket) []seqsim.Component {
			a := s.Bus("a", 3)
			return []seqsim.Component{func(c *seqsim.Circuit) { got = c.Values(a) }}
		}}
	c, err := seqsim.NewCircuit(1, 8, seqsim.Parts{
		seqsim.Constant(seqsim.Known(4, 7))("out=x"),
		join.NewPart("a[0]=true, a[2]=x"),
	})
	require.NoError(t, err)
	defer c.Dispose()
	c.Step()
	c.Step()
	assert.Equal(t, []seqsim.Value{seqsim.True, seqsim.Nil, seqsim.Known(4, 7)}, got)
}
