package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeKind discriminates the variants of Node.
type NodeKind int

const (
	KindAtom NodeKind = iota
	KindSequence
	KindAlternation
	KindOptional
	KindRepeat
	KindCapture
	KindCaptureAs
	KindCall
)

func (k NodeKind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindSequence:
		return "sequence"
	case KindAlternation:
		return "alternation"
	case KindOptional:
		return "optional"
	case KindRepeat:
		return "repeat"
	case KindCapture:
		return "capture"
	case KindCaptureAs:
		return "capture-as"
	case KindCall:
		return "call"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a parsed pattern fragment. Every node is created once, immutably,
// during a parse and carries the span of the source text it was parsed from;
// when the parser was given no anchor the span is the zero value.
type Node interface {
	Kind() NodeKind
	Span() Span
	String() string
}

// AtomOp classifies what a terminal atom matches.
type AtomOp int

const (
	OpLiteral   AtomOp = iota // run of non-metacharacters
	OpEscape                  // backslash followed by a letter, compiler-validated
	OpExact                   // backslash escape matching one character verbatim
	OpClass                   // bracketed character class
	OpBeginText               // ^
	OpEndText                 // $
)

// Atom is a terminal piece of regex semantics: a literal run, an escape, a
// character class, or one of the zero-width anchors.
type Atom struct {
	span     Span
	Op       AtomOp
	Source   string       // the exact fragment text from the pattern
	Compiled CompiledAtom // compiler handle; nil for OpExact and the anchors
}

func (a *Atom) Kind() NodeKind { return KindAtom }
func (a *Atom) Span() Span     { return a.span }
func (a *Atom) String() string { return strconv.Quote(a.Source) }

// Sequence is ordered concatenation. The empty sequence matches the empty
// string (epsilon); its span is empty, placed at the offset it was parsed at.
type Sequence struct {
	span  Span
	Items []Node
}

func (s *Sequence) Kind() NodeKind { return KindSequence }
func (s *Sequence) Span() Span     { return s.span }

func (s *Sequence) String() string {
	if len(s.Items) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = item.String()
	}
	return "(seq " + strings.Join(parts, " ") + ")"
}

// Alternation is an ordered set of alternatives, first-match-wins.
type Alternation struct {
	span Span
	Alts []Node
}

func (a *Alternation) Kind() NodeKind { return KindAlternation }
func (a *Alternation) Span() Span     { return a.span }

func (a *Alternation) String() string {
	parts := make([]string, len(a.Alts))
	for i, alt := range a.Alts {
		parts[i] = alt.String()
	}
	return "(alt " + strings.Join(parts, " ") + ")"
}

// Optional matches zero or one occurrence of X.
type Optional struct {
	span Span
	X    Node
}

func (o *Optional) Kind() NodeKind { return KindOptional }
func (o *Optional) Span() Span     { return o.span }
func (o *Optional) String() string { return "(opt " + o.X.String() + ")" }

// Unbounded marks a repetition with no upper bound.
const Unbounded = -1

// Bounds is a located repetition count. Max may be Unbounded. Min greater
// than Max is representable and not rejected here; whether it is an error is
// left to a later compilation stage.
type Bounds struct {
	span Span
	Min  int
	Max  int
}

func (b Bounds) Span() Span { return b.span }

func (b Bounds) String() string {
	switch {
	case b.Max == Unbounded:
		return fmt.Sprintf("{%d,}", b.Min)
	case b.Max == b.Min:
		return fmt.Sprintf("{%d}", b.Min)
	}
	return fmt.Sprintf("{%d,%d}", b.Min, b.Max)
}

// Repeat matches X between Bounds.Min and Bounds.Max times.
type Repeat struct {
	span   Span
	Bounds Bounds
	X      Node
}

func (r *Repeat) Kind() NodeKind { return KindRepeat }
func (r *Repeat) Span() Span     { return r.span }
func (r *Repeat) String() string { return "(repeat" + r.Bounds.String() + " " + r.X.String() + ")" }

// Capture is an unnamed capturing group.
type Capture struct {
	span Span
	X    Node
}

func (c *Capture) Kind() NodeKind { return KindCapture }
func (c *Capture) Span() Span     { return c.span }
func (c *Capture) String() string { return "(capture " + c.X.String() + ")" }

// Ident is a located identifier.
type Ident struct {
	span Span
	Name string
}

func (id Ident) Span() Span     { return id.span }
func (id Ident) String() string { return id.Name }

// CaptureAs is a named capturing group.
type CaptureAs struct {
	span Span
	Name Ident
	X    Node
}

func (c *CaptureAs) Kind() NodeKind { return KindCaptureAs }
func (c *CaptureAs) Span() Span     { return c.span }
func (c *CaptureAs) String() string {
	return "(capture:" + c.Name.Name + " " + c.X.String() + ")"
}

// Call references a pattern defined elsewhere. The reference is left
// unresolved here; resolving it against a pattern set is the caller's job.
type Call struct {
	span Span
	Name Ident
}

func (c *Call) Kind() NodeKind { return KindCall }
func (c *Call) Span() Span     { return c.span }
func (c *Call) String() string { return "(call " + c.Name.Name + ")" }

// Walk calls fn for n and every node below it, depth-first in source order.
// If fn returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Sequence:
		for _, item := range n.Items {
			Walk(item, fn)
		}
	case *Alternation:
		for _, alt := range n.Alts {
			Walk(alt, fn)
		}
	case *Optional:
		Walk(n.X, fn)
	case *Repeat:
		Walk(n.X, fn)
	case *Capture:
		Walk(n.X, fn)
	case *CaptureAs:
		Walk(n.X, fn)
	}
}
