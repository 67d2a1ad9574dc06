// counter.go generates the monotone virtual-register and basic-block label
// names used by the LLVM code generator. Code generation here is
// single-threaded (one emission context, no concurrent emitters), so names
// are handed out from a plain incrementing counter rather than over
// channels.

package util

import "fmt"

// Counter hands out an unbounded, monotonically increasing sequence of
// names of the form "%<prefix><N>", starting at N=0. It is never reset
// across a module: register and label indices stay unique for the whole
// translation unit, which is what keeps emitted LLVM IR trivially SSA-valid
// without a renaming pass.
type Counter struct {
	prefix string
	next   int
}

// NewCounter returns a Counter that yields names "%<prefix>0", "%<prefix>1", ...
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// Next returns the next name in the sequence and advances the counter.
func (c *Counter) Next() string {
	s := fmt.Sprintf("%%%s%d", c.prefix, c.next)
	c.next++
	return s
}

// Peek returns what Next would return without advancing the counter.
func (c *Counter) Peek() string {
	return fmt.Sprintf("%%%s%d", c.prefix, c.next)
}
