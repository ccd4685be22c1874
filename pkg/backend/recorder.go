package backend

import "sync"

// Recorder wraps a Receiver and additionally records every Message and
// StateDump call it forwards, so tests can assert on evaluator output
// without inspecting a terminal. Grounded on pkg/mock.Service
// call-history pattern (a mutex-guarded log appended to on every invocation),
// generalized from "stub method -> recorded call" to "wrapped sink ->
// recorded output".
type Recorder struct {
	mu    sync.Mutex
	inner Receiver
	msgs  []string
	dumps []StateDump
}

// NewRecorder wraps inner. inner may be nil, in which case Recorder is a
// pure sink that only records.
func NewRecorder(inner Receiver) *Recorder {
	return &Recorder{inner: inner}
}

func (r *Recorder) Message(msg string) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	if r.inner != nil {
		return r.inner.Message(msg)
	}
	return nil
}

func (r *Recorder) StateDump(dump StateDump) error {
	r.mu.Lock()
	r.dumps = append(r.dumps, dump)
	r.mu.Unlock()
	if r.inner != nil {
		return r.inner.StateDump(dump)
	}
	return nil
}

// Messages returns every message recorded so far, in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Dumps returns every state dump recorded so far, in order.
func (r *Recorder) Dumps() []StateDump {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StateDump, len(r.dumps))
	copy(out, r.dumps)
	return out
}

var _ Receiver = (*Recorder)(nil)
