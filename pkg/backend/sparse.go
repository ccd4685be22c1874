package backend

import (
	"math/rand"
	"sync"

	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/value"
)

// Sparse is a classical-only in-memory Backend: it tracks which handles are
// allocated and which are believed to be in |0>, without simulating
// amplitudes numerically. It exists to let the evaluator and its tests
// exercise every intrinsic contract (QubitUniqueness / QubitsNotSeparable /
// ReleasedQubitNotZero) without depending on an actual physics engine.
//
// Grounded on pkg/mock.Service: a mutex-guarded map tracking
// state plus a call log, generalized from "stub method -> recorded call" to
// "qubit handle -> believed computational-basis state".
type Sparse struct {
	mu        sync.Mutex
	next      value.Qubit
	allocated map[value.Qubit]bool
	zeroState map[value.Qubit]bool
	gateLog   []string
}

// NewSparse creates an empty Sparse backend with no qubits allocated.
func NewSparse() *Sparse {
	return &Sparse{
		allocated: make(map[value.Qubit]bool),
		zeroState: make(map[value.Qubit]bool),
	}
}

// GateLog returns every gate/measurement operation applied so far, in order,
// for test assertions — the Sparse-backend analogue of pkg/mock's call
// history.
func (s *Sparse) GateLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.gateLog))
	copy(out, s.gateLog)
	return out
}

func (s *Sparse) log(entry string) {
	s.gateLog = append(s.gateLog, entry)
}

func (s *Sparse) Allocate() value.Qubit {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.next
	s.next++
	s.allocated[q] = true
	s.zeroState[q] = true
	return q
}

func (s *Sparse) Release(q value.Qubit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.zeroState[q] {
		return diagnostic.ReleasedQubitNotZero(ids.PackageSpan{})
	}
	delete(s.allocated, q)
	delete(s.zeroState, q)
	return nil
}

func (s *Sparse) Reset(q value.Qubit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zeroState[q] = true
	s.log("Reset")
}

func (s *Sparse) markDisturbed(q value.Qubit) {
	s.zeroState[q] = false
}

func (s *Sparse) X(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.markDisturbed(q); s.log("X") }
func (s *Sparse) Y(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.markDisturbed(q); s.log("Y") }
func (s *Sparse) Z(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.log("Z") }
func (s *Sparse) H(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.markDisturbed(q); s.log("H") }
func (s *Sparse) S(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.log("S") }
func (s *Sparse) SAdj(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.log("SAdj") }
func (s *Sparse) T(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.log("T") }
func (s *Sparse) TAdj(q value.Qubit) { s.mu.Lock(); defer s.mu.Unlock(); s.log("TAdj") }

func (s *Sparse) CNOT(ctrl, target value.Qubit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markDisturbed(target)
	s.log("CNOT")
}

func (s *Sparse) CCNOT(ctrl1, ctrl2, target value.Qubit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markDisturbed(target)
	s.log("CCNOT")
}

func (s *Sparse) Rx(theta float64, q value.Qubit) error { return s.rotate("Rx", theta, q) }
func (s *Sparse) Ry(theta float64, q value.Qubit) error { return s.rotate("Ry", theta, q) }
func (s *Sparse) Rz(theta float64, q value.Qubit) error { return s.rotate("Rz", theta, q) }

func (s *Sparse) rotate(name string, theta float64, q value.Qubit) error {
	if theta != theta { // NaN
		return diagnostic.InvalidRotationAngle(theta, ids.PackageSpan{})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markDisturbed(q)
	s.log(name)
	return nil
}

// M is deterministic: Sparse has no amplitude model to sample from, so it
// reports Zero for a qubit it still believes is in |0⟩ and One for any other
// qubit (one a gate has disturbed, or one it never allocated). Flipping a
// qubit with X first is how a test gets a One.
func (s *Sparse) M(q value.Qubit) value.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log("M")
	if s.zeroState[q] {
		return value.ResultZero
	}
	return value.ResultOne
}

func (s *Sparse) CheckQubitUniqueness(qs []value.Qubit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[value.Qubit]bool, len(qs))
	for _, q := range qs {
		if seen[q] {
			return diagnostic.QubitUniqueness(ids.PackageSpan{})
		}
		seen[q] = true
	}
	return nil
}

// CheckQubitsSeparable always succeeds: Sparse tracks no entanglement, so it
// can never observe a non-separable state. A richer Backend double would
// inspect its amplitude tensor here.
func (s *Sparse) CheckQubitsSeparable(qs []value.Qubit) error { return nil }

func (s *Sparse) DumpMachine(r Receiver, qs []value.Qubit) error {
	amps := make([]complex128, 0, len(qs))
	for range qs {
		amps = append(amps, complex(0, 0))
	}
	return r.StateDump(StateDump{Qubits: qs, Amplitudes: amps})
}

func (s *Sparse) DrawRandomInt(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int63n(hi-lo+1)
}

func (s *Sparse) DrawRandomDouble(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

var _ Backend = (*Sparse)(nil)
