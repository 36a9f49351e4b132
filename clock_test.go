package seqsim_test

import (
	"testing"

	"github.com/db47h/seqsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockEdge(t *testing.T) {
	var (
		t1 = seqsim.True
		f0 = seqsim.False
		ux = seqsim.Unknown(1)
		nl = seqsim.Nil
	)
	clk := []seqsim.Value{t1, f0, f0, t1, t1, ux, t1, f0, seqsim.Error(1), f0, nl, t1}
	data := []struct {
		trigger seqsim.Trigger
		exp     []bool
	}{
		{seqsim.Rising, []bool{false, false, false, true, false, false, false, false, false, false, false, false}},
		{seqsim.Falling, []bool{false, true, false, false, false, false, false, true, false, false, false, false}},
		{seqsim.High, []bool{true, false, false, true, true, false, true, false, false, false, false, true}},
		{seqsim.Low, []bool{false, true, true, false, false, false, false, true, false, true, false, false}},
	}
	for _, d := range data {
		var e seqsim.ClockEdge
		got := make([]bool, len(clk))
		for i, c := range clk {
			got[i] = e.Triggered(c, d.trigger)
		}
		assert.Equal(t, d.exp, got, d.trigger.String())
		assert.Equal(t, t1, e.Prev())
		e.Reset()
		assert.True(t, e.Prev().IsNil())
	}
}

func TestParseTrigger(t *testing.T) {
	for _, tr := range []seqsim.Trigger{seqsim.Rising, seqsim.Falling, seqsim.High, seqsim.Low} {
		b, err := tr.MarshalText()
		require.NoError(t, err)
		var got seqsim.Trigger
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, tr, got)
		assert.Equal(t, tr.Edge(), tr == seqsim.Rising || tr == seqsim.Falling)
	}
	tr, err := seqsim.ParseTrigger(" Falling ")
	require.NoError(t, err)
	assert.Equal(t, seqsim.Falling, tr)
	_, err = seqsim.ParseTrigger("both")
	assert.Error(t, err)
	_, err = seqsim.Trigger(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Trigger(9)", seqsim.Trigger(9).String())
}
