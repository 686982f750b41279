package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalAsk(t *testing.T) {
	var out bytes.Buffer
	term := &Terminal{In: strings.NewReader("y\n Y \nno\n"), Out: &out}

	for _, want := range []string{"y", "Y", "no"} {
		got, err := term.Ask("src/lib.rs")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Contains(t, out.String(), "Extracting lib.rs\n")
	assert.Contains(t, out.String(), question)
	assert.Equal(t, 3, strings.Count(out.String(), "Extracting"))
	assert.Equal(t, 6, strings.Count(out.String(), clearLine))
}

func TestTerminalAskLastLine(t *testing.T) {
	term := &Terminal{In: strings.NewReader("N"), Out: io.Discard}

	got, err := term.Ask("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "N", got)

	_, err = term.Ask("a.txt")
	assert.ErrorIs(t, err, io.EOF)
}

func TestTerminalAskEOF(t *testing.T) {
	var out bytes.Buffer
	term := &Terminal{In: strings.NewReader(""), Out: &out}

	_, err := term.Ask("a.txt")
	assert.ErrorIs(t, err, io.EOF)
	assert.NotContains(t, out.String(), clearLine)
}

func TestBaseName(t *testing.T) {
	for input, want := range map[string]string{
		"a.txt":      "a.txt",
		"src/lib.rs": "lib.rs",
		"src/":       "src",
		"a/b/c":      "c",
	} {
		assert.Equal(t, want, baseName(input), input)
	}
}
