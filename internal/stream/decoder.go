// Package stream implements the incremental response protocol of the analysis
// service: reassembling logical lines from arbitrarily chunked transport reads
// and parsing each line into a typed event.
package stream

import "strings"

// LineDecoder reassembles complete lines from a sequence of text fragments
// that arrive at arbitrary, non-line-aligned boundaries. A partial line is
// held across fragments and only released by Flush when the source ends.
type LineDecoder struct {
	pending strings.Builder
}

// Decode consumes one fragment and returns the complete lines it finished,
// in arrival order. Fragments may be empty or contain any number of newlines.
// Line terminators are stripped; a trailing carriage return is dropped so CRLF
// sources decode the same as LF sources.
func (d *LineDecoder) Decode(fragment string) []string {
	if fragment == "" {
		return nil
	}

	d.pending.WriteString(fragment)
	buffered := d.pending.String()
	if !strings.Contains(buffered, "\n") {
		return nil
	}

	parts := strings.Split(buffered, "\n")
	// The final element is the unterminated remainder; keep it pending.
	d.pending.Reset()
	d.pending.WriteString(parts[len(parts)-1])

	lines := make([]string, 0, len(parts)-1)
	for _, line := range parts[:len(parts)-1] {
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}

// Flush returns the pending partial line, if any, and resets the decoder.
// Call once the underlying source signals end-of-stream.
func (d *LineDecoder) Flush() (string, bool) {
	if d.pending.Len() == 0 {
		return "", false
	}
	line := strings.TrimSuffix(d.pending.String(), "\r")
	d.pending.Reset()
	if line == "" {
		return "", false
	}
	return line, true
}
