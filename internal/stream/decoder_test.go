package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDecoder_SingleCompleteLine(t *testing.T) {
	d := &LineDecoder{}
	lines := d.Decode("hello\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0])
}

func TestLineDecoder_FragmentedLine(t *testing.T) {
	d := &LineDecoder{}
	assert.Empty(t, d.Decode("data: {\"ty"))
	assert.Empty(t, d.Decode("pe\":\"stream\"}"))
	lines := d.Decode("\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "data: {\"type\":\"stream\"}", lines[0])
}

func TestLineDecoder_MultipleLinesInOneFragment(t *testing.T) {
	d := &LineDecoder{}
	lines := d.Decode("one\ntwo\nthree\n")
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestLineDecoder_CRLFMatchesLF(t *testing.T) {
	lf := &LineDecoder{}
	crlf := &LineDecoder{}
	assert.Equal(t, lf.Decode("a\nb\n"), crlf.Decode("a\r\nb\r\n"))
}

// Decoding must be invariant under fragmentation: any split of the same
// byte stream yields the same logical lines.
func TestLineDecoder_OneCharFragments(t *testing.T) {
	input := "data: {\"type\":\"persona_start\",\"persona\":\"recruiter\"}\n\ndata: {\"type\":\"section_start\",\"section\":\"headline\"}\n\n"

	whole := &LineDecoder{}
	var wholeLines []string
	wholeLines = append(wholeLines, whole.Decode(input)...)
	if line, ok := whole.Flush(); ok {
		wholeLines = append(wholeLines, line)
	}

	charwise := &LineDecoder{}
	var charLines []string
	for _, r := range input {
		charLines = append(charLines, charwise.Decode(string(r))...)
	}
	if line, ok := charwise.Flush(); ok {
		charLines = append(charLines, line)
	}

	assert.Equal(t, wholeLines, charLines)
}

func TestLineDecoder_FlushReturnsUnterminatedLine(t *testing.T) {
	d := &LineDecoder{}
	assert.Empty(t, d.Decode("trailing without newline"))

	line, ok := d.Flush()
	require.True(t, ok)
	assert.Equal(t, "trailing without newline", line)

	// Flush drains the decoder.
	_, ok = d.Flush()
	assert.False(t, ok)
}

func TestLineDecoder_FlushEmptyPending(t *testing.T) {
	d := &LineDecoder{}
	d.Decode("complete\n")
	_, ok := d.Flush()
	assert.False(t, ok)
}

func TestLineDecoder_EmptyFragment(t *testing.T) {
	d := &LineDecoder{}
	assert.Empty(t, d.Decode(""))
}

func TestLineDecoder_PreservesInteriorWhitespace(t *testing.T) {
	d := &LineDecoder{}
	lines := d.Decode("  padded  \n")
	require.Len(t, lines, 1)
	assert.Equal(t, "  padded  ", lines[0])
}

func TestLineDecoder_LongStreamReassembly(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("data: {\"type\":\"stream\",\"section\":\"about\",\"chunk\":\"x\"}\n\n")
	}
	input := sb.String()

	d := &LineDecoder{}
	var lines []string
	// 7-byte fragments do not align with any line boundary.
	for i := 0; i < len(input); i += 7 {
		end := i + 7
		if end > len(input) {
			end = len(input)
		}
		lines = append(lines, d.Decode(input[i:end])...)
	}

	dataLines := 0
	for _, line := range lines {
		if line != "" {
			dataLines++
		}
	}
	assert.Equal(t, 50, dataLines)
}
