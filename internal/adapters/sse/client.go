package sse

import (
	"bufio"
	"bytes"
	"io"
	"iter"
)

// Message is one event read from an SSE stream.
type Message struct {
	Event string
	Data  []byte
}

const maxLine = 10 * 1024 * 1024

// Read decodes SSE messages from r. Comment lines are skipped and
// multi-line data fields are joined with "\n". The sequence ends at EOF
// or with the first read error.
func Read(r io.Reader) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

		var (
			msg  Message
			data [][]byte
		)
		flush := func() bool {
			if len(data) == 0 && msg.Event == "" {
				return true
			}
			msg.Data = bytes.Join(data, []byte("\n"))
			ok := yield(msg, nil)
			msg, data = Message{}, nil
			return ok
		}

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				if !flush() {
					return
				}
				continue
			}
			if line[0] == ':' {
				continue
			}

			field, value, _ := bytes.Cut(line, []byte(":"))
			value = bytes.TrimPrefix(value, []byte(" "))
			switch string(field) {
			case "data":
				data = append(data, bytes.Clone(value))
			case "event":
				msg.Event = string(value)
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Message{}, err)
			return
		}
		flush()
	}
}
