package csv

import (
	"fmt"
	"strings"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// ErrUnclosedQuote reports a quoted field that never terminates. It is a
// hard parse failure for the whole item, never a silent truncation.
var ErrUnclosedQuote = fmt.Errorf("%w: unclosed quote", domain.ErrUnrecognizedFormat)

// parseState is the tokenizer state.
type parseState int

const (
	// stateUnquoted reads plain characters up to a delimiter or newline.
	stateUnquoted parseState = iota

	// stateQuoted reads everything, including delimiters and newlines,
	// up to the next quote.
	stateQuoted

	// stateQuotePending saw a quote inside a quoted field: a second
	// quote is an escaped literal, anything else ends the quoted run.
	stateQuotePending
)

// parseTable tokenizes delimited text character by character.
// Every value is trimmed. Blank lines are dropped.
func parseTable(text string, delim byte) ([][]string, error) {
	var (
		rows  [][]string
		row   []string
		field strings.Builder
	)
	state := stateUnquoted

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		if !blankRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateUnquoted:
			switch {
			case c == '"' && field.Len() == 0:
				state = stateQuoted
			case c == delim:
				endField()
			case c == '\n':
				endRow()
			case c == '\r':
				// Swallowed; the following \n ends the row.
			default:
				field.WriteByte(c)
			}

		case stateQuoted:
			if c == '"' {
				state = stateQuotePending
			} else {
				field.WriteByte(c)
			}

		case stateQuotePending:
			switch {
			case c == '"':
				// Doubled quote: escaped literal quote.
				field.WriteByte('"')
				state = stateQuoted
			case c == delim:
				endField()
				state = stateUnquoted
			case c == '\n':
				endRow()
				state = stateUnquoted
			case c == '\r':
				state = stateUnquoted
			default:
				// Junk after a closing quote is kept verbatim.
				field.WriteByte(c)
				state = stateUnquoted
			}
		}
	}

	if state == stateQuoted {
		return nil, ErrUnclosedQuote
	}
	if field.Len() > 0 || len(row) > 0 || state == stateQuotePending {
		endRow()
	}
	return rows, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter picks the most frequent candidate delimiter in the
// header line, defaulting to comma.
func sniffDelimiter(text string) byte {
	header := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		header = text[:idx]
	}

	best, bestCount := byte(','), strings.Count(header, ",")
	for _, cand := range []byte{'\t', ';'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}
