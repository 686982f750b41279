package ghx

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	for _, tc := range []struct {
		state  ConflictState
		exists bool
		want   Decision
	}{
		{state: ConflictState{}, exists: false, want: Proceed},
		{state: ConflictState{AlwaysSkip: true}, exists: false, want: Proceed},
		{state: ConflictState{}, exists: true, want: Prompt},
		{state: ConflictState{AlwaysOverwrite: true}, exists: true, want: Proceed},
		{state: ConflictState{AlwaysSkip: true}, exists: true, want: Skip},
		{state: ConflictState{AlwaysOverwrite: true, AlwaysSkip: true}, exists: true, want: Skip},
	} {
		state := tc.state
		assert.Equal(t, tc.want, state.Resolve(tc.exists), "%+v exists=%t", tc.state, tc.exists)
	}
}

func TestAnswer(t *testing.T) {
	for _, tc := range []struct {
		answer  string
		proceed bool
		valid   bool
		after   ConflictState
	}{
		{answer: "y", proceed: true, valid: true},
		{answer: "n", proceed: false, valid: true},
		{answer: "Y", proceed: true, valid: true, after: ConflictState{AlwaysOverwrite: true}},
		{answer: "N", proceed: false, valid: true, after: ConflictState{AlwaysSkip: true}},
		{answer: "yes"},
		{answer: ""},
		{answer: "q"},
	} {
		t.Run(tc.answer, func(t *testing.T) {
			var s ConflictState
			proceed, valid := s.Answer(tc.answer)
			assert.Equal(t, tc.proceed, proceed)
			assert.Equal(t, tc.valid, valid)
			assert.Equal(t, tc.after, s)
		})
	}
}

func TestStickyAnswers(t *testing.T) {
	var s ConflictState
	require.Equal(t, Prompt, s.Resolve(true))

	proceed, err := s.Confirm(&scriptedPrompter{answers: []string{"Y"}}, "a.txt")
	require.NoError(t, err)
	assert.True(t, proceed)
	assert.Equal(t, Proceed, s.Resolve(true))

	s = ConflictState{}
	proceed, err = s.Confirm(&scriptedPrompter{answers: []string{"N"}}, "a.txt")
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Equal(t, Skip, s.Resolve(true))
}

func TestConfirmAsksAgain(t *testing.T) {
	var s ConflictState
	p := &scriptedPrompter{answers: []string{"", "yes", "o", "n"}}

	proceed, err := s.Confirm(p, "src/lib.rs")
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Len(t, p.asked, 4)
	assert.Equal(t, ConflictState{}, s)
}

func TestConfirmPrompterError(t *testing.T) {
	var s ConflictState
	boom := errors.New("boom")

	_, err := s.Confirm(&scriptedPrompter{err: boom}, "a.txt")
	assert.ErrorIs(t, err, boom)

	_, err = s.Confirm(&scriptedPrompter{answers: []string{"?"}}, "a.txt")
	assert.ErrorIs(t, err, io.EOF)

	_, err = s.Confirm(nil, "a.txt")
	assert.Error(t, err)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "prompt", Prompt.String())
	assert.Equal(t, "Decision(7)", Decision(7).String())
}
