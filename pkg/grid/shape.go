package grid

import (
	"fmt"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// Shape is the rows × cols layout of a heat map.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cells returns the number of cells in the shape.
func (s Shape) Cells() int { return s.Rows * s.Cols }

// String formats the shape as "rows×cols".
func (s Shape) String() string { return fmt.Sprintf("%d×%d", s.Rows, s.Cols) }

// State is a step of the shape search.
type State int

// Resolver states. Searching and Bumped are transient; Resolved and Failed
// are terminal.
const (
	Searching State = iota // factoring the requested node count
	Bumped                 // factoring nodeCount+1 after a degenerate first pass
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Bumped:
		return "bumped"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resolver runs the shape search for one node count. The zero value is not
// usable; create one with [NewResolver].
//
// The search makes at most two divisor passes: Searching may move to Bumped
// once, and Bumped can only end in Resolved or Failed.
type Resolver struct {
	nodeCount int
	effective int
	state     State
	divisors  []int
	shape     Shape
	err       error
}

// NewResolver creates a resolver for nodeCount in the Searching state.
func NewResolver(nodeCount int) *Resolver {
	return &Resolver{nodeCount: nodeCount, effective: nodeCount, state: Searching}
}

// Run drives the search to a terminal state and returns its outcome.
// Calling Run again returns the same outcome.
func (r *Resolver) Run() (Shape, error) {
	for !r.done() {
		r.step()
	}
	return r.shape, r.err
}

// State returns the current state.
func (r *Resolver) State() State { return r.state }

// Effective returns the count that was (or is being) factored:
// the node count, or the node count plus one after a bump.
func (r *Resolver) Effective() int { return r.effective }

// Divisors returns the divisors found by the latest pass.
func (r *Resolver) Divisors() []int { return append([]int(nil), r.divisors...) }

func (r *Resolver) done() bool {
	return r.state == Resolved || r.state == Failed
}

func (r *Resolver) step() {
	switch r.state {
	case Searching:
		if r.nodeCount <= 0 {
			r.fail(errors.New(errors.ErrCodeInvalidInput, "node count must be positive, got %d", r.nodeCount))
			return
		}
		r.divisors = divisors(r.effective)
		if len(r.divisors) >= 2 {
			r.resolve()
			return
		}
		r.effective++
		r.state = Bumped
	case Bumped:
		r.divisors = divisors(r.effective)
		if len(r.divisors) >= 2 {
			r.resolve()
			return
		}
		r.fail(errors.New(errors.ErrCodeShapeResolution,
			"cannot derive a 2D grid for %d nodes (tried %d and %d)", r.nodeCount, r.nodeCount, r.effective))
	}
}

// resolve picks the divisors straddling the median index. For a sorted list
// of the proper divisors of k these multiply to k.
func (r *Resolver) resolve() {
	n := len(r.divisors)
	lower := r.divisors[n/2]
	upper := r.divisors[(n+1)/2]
	if lower*upper != r.effective {
		r.fail(errors.New(errors.ErrCodeInternal,
			"grid %d×%d does not match %d cells", lower, upper, r.effective))
		return
	}
	r.shape = Shape{Rows: lower, Cols: upper}
	r.state = Resolved
}

func (r *Resolver) fail(err error) {
	r.err = err
	r.state = Failed
}

// divisors returns the divisors d of k with 1 <= d <= k/2 in ascending order.
func divisors(k int) []int {
	var out []int
	for d := 1; d <= k/2; d++ {
		if k%d == 0 {
			out = append(out, d)
		}
	}
	return out
}

// Resolve returns the squarest grid shape able to hold nodeCount cells.
//
// The count is factored as is, or bumped by one when it has fewer than two
// divisors in [1, count/2] (1 and the primes). Rows*Cols equals the count or
// the count plus one. Fails with [errors.ErrCodeInvalidInput] for
// nodeCount <= 0 and [errors.ErrCodeShapeResolution] when the bumped count is
// still degenerate (nodeCount 1 or 2).
func Resolve(nodeCount int) (Shape, error) {
	return NewResolver(nodeCount).Run()
}
