// Package sse reassembles OpenAI-style chat-completion delta streams on the
// consuming side: raw body reads go in, the growing assistant message comes
// out, regardless of where the transport split the bytes.
package sse

import (
	"bytes"
	"encoding/json"
	"strings"
)

const dataPrefix = "data: "

type deltaChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type parseState int

const (
	awaitingLine parseState = iota
	awaitingMoreBytes
)

// Assembler is a two-state line reassembler: it consumes complete lines while
// any are available (awaitingLine) and parks on a partial line until the next
// read arrives (awaitingMoreBytes). Buffering is byte-level, so multi-byte
// characters split across reads are never corrupted.
type Assembler struct {
	buf     []byte
	content strings.Builder
	state   parseState
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Feed consumes one transport read and returns the delta text it completed,
// if any. Identical input yields identical accumulated content for every
// possible split of the byte stream.
func (a *Assembler) Feed(p []byte) string {
	a.buf = append(a.buf, p...)
	a.state = awaitingLine

	var out strings.Builder
	for a.state == awaitingLine {
		i := bytes.IndexByte(a.buf, '\n')
		if i < 0 {
			a.state = awaitingMoreBytes
			break
		}
		line := string(a.buf[:i])
		a.buf = a.buf[i+1:]
		line = strings.TrimSuffix(line, "\r")

		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == "[DONE]" {
			// End sentinel stops this pass only. Bytes buffered by later
			// reads are still processed; inherited quirk of the stream
			// consumer this mirrors.
			break
		}

		var chunk deltaChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// The line was cut mid-JSON by the transport. Push it back,
			// newline restored, and wait for the rest.
			rest := a.buf
			a.buf = append([]byte(line+"\n"), rest...)
			a.state = awaitingMoreBytes
			break
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			a.content.WriteString(delta)
			out.WriteString(delta)
		}
	}
	return out.String()
}

// Content returns the full assistant text assembled so far.
func (a *Assembler) Content() string {
	return a.content.String()
}
