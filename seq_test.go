package seqsim_test

import (
	"testing"

	"github.com/db47h/seqsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeq_Update(t *testing.T) {
	var (
		t1 = seqsim.True
		f0 = seqsim.False
		ux = seqsim.Unknown(1)
		nl = seqsim.Nil
	)
	var log []string
	r := seqsim.Rule{
		Reset:  func() { log = append(log, "reset") },
		Preset: func() { log = append(log, "preset") },
		Next:   func() { log = append(log, "next") },
	}
	data := []struct {
		ctl seqsim.Control
		exp seqsim.Event
		trg bool
	}{
		{seqsim.Control{Clock: f0}, seqsim.EventNone, false},
		{seqsim.Control{Clock: t1}, seqsim.EventNext, true},
		{seqsim.Control{Clock: t1}, seqsim.EventNone, false},
		{seqsim.Control{Clock: f0, Reset: t1, Preset: t1}, seqsim.EventReset, false},
		{seqsim.Control{Clock: t1, Reset: ux, Preset: t1}, seqsim.EventPreset, true},
		{seqsim.Control{Clock: f0}, seqsim.EventNone, false},
		{seqsim.Control{Clock: t1, Enable: f0}, seqsim.EventNone, true},
		{seqsim.Control{Clock: f0, Enable: f0}, seqsim.EventNone, false},
		{seqsim.Control{Clock: t1, Enable: ux}, seqsim.EventNext, true},
		{seqsim.Control{Clock: f0, Enable: nl}, seqsim.EventNone, false},
		{seqsim.Control{Clock: t1, Reset: f0, Preset: f0, Enable: t1}, seqsim.EventNext, true},
	}
	s := seqsim.Seq{Kind: seqsim.KindRegister}
	for i, d := range data {
		assert.Equalf(t, d.exp, s.Update(d.ctl, r), "step %d", i)
		assert.Equalf(t, d.trg, s.Triggered(), "step %d", i)
	}
	assert.Equal(t, []string{"next", "reset", "preset", "next", "next"}, log)
}

func TestSeq_noPreset(t *testing.T) {
	resets := 0
	s := seqsim.Seq{Trigger: seqsim.High}
	r := seqsim.Rule{Reset: func() { resets++ }}
	// no preset rule: the preset pin is ignored and the trigger still applies.
	assert.Equal(t, seqsim.EventNext, s.Update(seqsim.Control{Clock: seqsim.True, Preset: seqsim.True}, r))
	assert.Equal(t, seqsim.EventReset, s.Update(seqsim.Control{Reset: seqsim.True}, r))
	assert.Equal(t, 1, resets)
}

func TestParseKind(t *testing.T) {
	for _, k := range []seqsim.Kind{seqsim.KindFlipFlop, seqsim.KindRegister, seqsim.KindCounter,
		seqsim.KindShiftRegister, seqsim.KindRandom, seqsim.KindRAM, seqsim.KindROM} {
		got, err := seqsim.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	k, err := seqsim.ParseKind("RAM")
	require.NoError(t, err)
	assert.Equal(t, seqsim.KindRAM, k)
	_, err = seqsim.ParseKind("alu")
	assert.Error(t, err)
}
