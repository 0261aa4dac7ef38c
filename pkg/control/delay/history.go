package delay

import "github.com/robotalks/trackdrive/pkg/kinematics"

// History is the fixed-length FIFO of in-flight commands, oldest first.
type History struct {
	buf  []kinematics.Command
	head int
}

// NewHistory creates a History holding k copies of start.
func NewHistory(k int, start kinematics.Command) *History {
	h := &History{buf: make([]kinematics.Command, k)}
	for i := range h.buf {
		h.buf[i] = start
	}
	return h
}

// Len is the in-flight depth k, constant for the History's lifetime.
func (h *History) Len() int {
	return len(h.buf)
}

// Push appends cmd and evicts the oldest command, which is returned.
// With k = 0 cmd itself is returned.
func (h *History) Push(cmd kinematics.Command) kinematics.Command {
	if len(h.buf) == 0 {
		return cmd
	}
	oldest := h.buf[h.head]
	h.buf[h.head] = cmd
	h.head = (h.head + 1) % len(h.buf)
	return oldest
}

// Each visits the commands from oldest to newest.
func (h *History) Each(fn func(kinematics.Command)) {
	n := len(h.buf)
	for i := 0; i < n; i++ {
		fn(h.buf[(h.head+i)%n])
	}
}

// Commands returns a copy of the commands from oldest to newest.
func (h *History) Commands() []kinematics.Command {
	cmds := make([]kinematics.Command, 0, len(h.buf))
	h.Each(func(c kinematics.Command) { cmds = append(cmds, c) })
	return cmds
}
