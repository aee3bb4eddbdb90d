// Package syntax parses extended regular-expression patterns into located
// syntax trees.
//
// The dialect is a PCRE-flavored subset extended with named calls:
//
//	alt        := seq ('|' seq)*
//	seq        := item*
//	item       := atom | group | item quantifier
//	quantifier := '?' | '*' | '+' | '{' int? (',' int?)? '}'
//	group      := '(' group-body ')'
//	group-body := '?&' qualified-ident | '?<' ident '>' alt
//	            | '?:' alt | '+' alt | alt
//	atom       := literal-run | escape | char-class | '^' | '$'
//
// Parsing is a single left-to-right pass: the scanner commits to every
// offset it consumes and never backtracks, so cost is linear in the pattern
// length. The first error aborts the whole parse; no partial tree is ever
// returned. The resulting tree is an immutable value and may be shared
// freely across goroutines.
package syntax

import (
	"fmt"
	"strings"
)

// Parser holds the two collaborator hooks a parse consumes. The zero value
// uses the regexp-backed compiler and the default qualified-ident parser.
type Parser struct {
	Compiler AtomCompiler
	Ident    IdentFunc
}

// Parse parses pattern without position tracking: every span in the result
// is the zero value.
func Parse(pattern string) (Node, error) {
	return (&Parser{}).Parse(pattern)
}

// ParseAt parses pattern with byte offsets translated into source positions
// relative to anchor, so diagnostics and node spans point back into the file
// the pattern was written in.
func ParseAt(pattern string, anchor Position) (Node, error) {
	return (&Parser{}).ParseAt(pattern, anchor)
}

func (p *Parser) Parse(pattern string) (Node, error) {
	return p.ParseAt(pattern, Position{})
}

func (p *Parser) ParseAt(pattern string, anchor Position) (Node, error) {
	ps := &parser{
		pattern: pattern,
		pos:     newPosMap(pattern, anchor),
		compile: p.Compiler,
		ident:   p.Ident,
	}
	if ps.compile == nil {
		ps.compile = Regexp()
	}
	if ps.ident == nil {
		ps.ident = QualifiedIdent
	}

	node, next, err := ps.alternation(0)
	if err != nil {
		return nil, err
	}
	// alternation stops at ')' or end of input; anything left over is a
	// closing parenthesis that nothing opened.
	if next < len(pattern) {
		return nil, ps.errorf(next, "unbalanced ')'")
	}
	return node, nil
}

// parser is the state of one parse: the immutable input, the offset-to-
// position table, and the two collaborator hooks.
type parser struct {
	pattern string
	pos     posMap
	compile AtomCompiler
	ident   IdentFunc
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &ParseError{Offset: offset, Pos: p.pos.at(offset), Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) span(start, end int) Span {
	return Span{Start: p.pos.at(start), End: p.pos.at(end)}
}

// alternation parses alt := seq ('|' seq)*, stopping at a closing ')' or at
// the end of the input, which is treated as an implicit ')'. This lets the
// same loop terminate uniformly inside a group and at top level.
func (p *parser) alternation(start int) (Node, int, error) {
	var alts []Node
	i := start
	for {
		node, next, err := p.sequence(i)
		if err != nil {
			return nil, 0, err
		}
		alts = append(alts, node)
		if next < len(p.pattern) && p.pattern[next] == '|' {
			i = next + 1
			continue
		}
		return newAlternation(alts), next, nil
	}
}

// sequence parses items until it reaches '|', ')', or the end of the input.
func (p *parser) sequence(start int) (Node, int, error) {
	var items []Node
	i := start
loop:
	for i < len(p.pattern) {
		switch c := p.pattern[i]; c {
		case ')', '|':
			break loop
		case '?', '*', '+', '{':
			updated, next, err := p.quantify(items, i)
			if err != nil {
				return nil, 0, err
			}
			items, i = updated, next
		case '(':
			node, next, err := p.group(i)
			if err != nil {
				return nil, 0, err
			}
			items, i = append(items, node), next
		case '[':
			node, next, err := p.class(i)
			if err != nil {
				return nil, 0, err
			}
			items, i = append(items, node), next
		case '\\':
			node, next, err := p.escape(i)
			if err != nil {
				return nil, 0, err
			}
			items, i = append(items, node), next
		case '^', '$':
			op := OpBeginText
			if c == '$' {
				op = OpEndText
			}
			items = append(items, &Atom{span: p.span(i, i+1), Op: op, Source: string(c)})
			i++
		default:
			nodes, next, err := p.literal(i)
			if err != nil {
				return nil, 0, err
			}
			items, i = append(items, nodes...), next
		}
	}
	return p.newSequence(items, i), i, nil
}

// newSequence builds the node for a parsed item list. Directly nested
// sequences are spliced in, a singleton collapses to its sole element, and
// an empty list becomes the epsilon sequence with an empty span at the
// current offset. The enclosing span is the convex hull of the sub-nodes.
func (p *parser) newSequence(items []Node, at int) Node {
	flat := make([]Node, 0, len(items))
	for _, item := range items {
		if seq, ok := item.(*Sequence); ok {
			flat = append(flat, seq.Items...)
			continue
		}
		flat = append(flat, item)
	}
	switch len(flat) {
	case 0:
		return &Sequence{span: p.span(at, at)}
	case 1:
		return flat[0]
	}
	return &Sequence{
		span:  Span{Start: flat[0].Span().Start, End: flat[len(flat)-1].Span().End},
		Items: flat,
	}
}

// newAlternation collapses a single-branch alternation to the branch itself.
func newAlternation(alts []Node) Node {
	if len(alts) == 1 {
		return alts[0]
	}
	return &Alternation{
		span: Span{Start: alts[0].Span().Start, End: alts[len(alts)-1].Span().End},
		Alts: alts,
	}
}

// metachars end a literal run. The anchors are included so that ^ and $
// become their own zero-width atoms instead of disappearing into a run.
const metachars = `[?*+{()|\^$`

func isMeta(c byte) bool { return strings.IndexByte(metachars, c) >= 0 }

func isQuantifier(c byte) bool { return c == '?' || c == '*' || c == '+' || c == '{' }

// literal scans a maximal run of non-metacharacters into a single atom, so
// the compiler sees multi-character literals as one unit. When the run is
// followed by a quantifier its final character is split off into its own
// atom, since the quantifier binds to that character alone.
func (p *parser) literal(start int) ([]Node, int, error) {
	i := start
	for i < len(p.pattern) && !isMeta(p.pattern[i]) {
		i++
	}
	if i-start > 1 && i < len(p.pattern) && isQuantifier(p.pattern[i]) {
		head, err := p.atom(OpLiteral, start, i-1)
		if err != nil {
			return nil, 0, err
		}
		tail, err := p.atom(OpLiteral, i-1, i)
		if err != nil {
			return nil, 0, err
		}
		return []Node{head, tail}, i, nil
	}
	node, err := p.atom(OpLiteral, start, i)
	if err != nil {
		return nil, 0, err
	}
	return []Node{node}, i, nil
}

// atom runs the pattern substring [start, end) through the atom compiler. A
// rejected fragment fails the parse at the fragment's starting offset.
func (p *parser) atom(op AtomOp, start, end int) (*Atom, error) {
	source := p.pattern[start:end]
	compiled, err := p.compile.CompileAtom(source)
	if err != nil {
		return nil, p.errorf(start, "invalid atom: %v", err)
	}
	return &Atom{span: p.span(start, end), Op: op, Source: source, Compiled: compiled}, nil
}

// escape scans a backslash escape. A backslash followed by a letter is a
// regex escape instruction and goes through the compiler; any other
// character is matched verbatim and bypasses the compiler entirely.
func (p *parser) escape(start int) (Node, int, error) {
	if start+1 >= len(p.pattern) {
		return nil, 0, p.errorf(start, "incomplete escape")
	}
	if isLetter(p.pattern[start+1]) {
		node, err := p.atom(OpEscape, start, start+2)
		if err != nil {
			return nil, 0, err
		}
		return node, start + 2, nil
	}
	node := &Atom{span: p.span(start, start+2), Op: OpExact, Source: p.pattern[start : start+2]}
	return node, start + 2, nil
}

// class scans a [...] character class without interpreting its contents,
// tracking bracket nesting and backslash escapes. The whole substring,
// brackets included, goes to the compiler.
func (p *parser) class(start int) (Node, int, error) {
	depth := 0
	for i := start; i < len(p.pattern); i++ {
		switch p.pattern[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				node, err := p.atom(OpClass, start, i+1)
				if err != nil {
					return nil, 0, err
				}
				return node, i + 1, nil
			}
		}
	}
	return nil, 0, p.errorf(start, "unbalanced '['")
}

// quantify attaches the quantifier at start to the last item of the current
// sequence. Quantifying nothing, stacking a quantifier on an existing
// repetition, and applying '?' to a repetition are all errors; stacked
// quantifiers must be parenthesized explicitly.
func (p *parser) quantify(items []Node, start int) ([]Node, int, error) {
	q := p.pattern[start]
	if len(items) == 0 {
		return nil, 0, p.errorf(start, "operator %q must follow an operand", q)
	}
	last := items[len(items)-1]
	_, repeated := last.(*Repeat)

	if q == '?' {
		if repeated {
			// '?' after a repetition would be a non-greedy modifier
			return nil, 0, p.errorf(start, "greediness modifier not implemented")
		}
		items[len(items)-1] = &Optional{
			span: Span{Start: last.Span().Start, End: p.pos.at(start + 1)},
			X:    last,
		}
		return items, start + 1, nil
	}
	if repeated {
		return nil, 0, p.errorf(start, "nested repetition must be parenthesized")
	}

	var bounds Bounds
	end := start + 1
	switch q {
	case '*':
		bounds = Bounds{span: p.span(start, end), Min: 0, Max: Unbounded}
	case '+':
		bounds = Bounds{span: p.span(start, end), Min: 1, Max: Unbounded}
	case '{':
		var err error
		bounds, end, err = p.bounds(start)
		if err != nil {
			return nil, 0, err
		}
	}
	items[len(items)-1] = &Repeat{
		span:   Span{Start: last.Span().Start, End: p.pos.at(end)},
		Bounds: bounds,
		X:      last,
	}
	return items, end, nil
}

// bounds parses the {m}, {m,}, {,n}, and {m,n} forms. An absent lower bound
// defaults to 0, an absent upper bound after a comma means unbounded, and no
// comma means an exact count. Min greater than Max is accepted as given.
func (p *parser) bounds(start int) (Bounds, int, error) {
	min, i := p.digits(start + 1)
	max := min
	if i < len(p.pattern) && p.pattern[i] == ',' {
		var j int
		max, j = p.digits(i + 1)
		if j == i+1 {
			max = Unbounded
		}
		i = j
	}
	if i >= len(p.pattern) || p.pattern[i] != '}' {
		return Bounds{}, 0, p.errorf(start, "unbalanced '{'")
	}
	return Bounds{span: p.span(start, i+1), Min: min, Max: max}, i + 1, nil
}

// digits reads a decimal run and returns its value plus the offset just past
// it; an empty run returns 0 at the starting offset.
func (p *parser) digits(start int) (int, int) {
	n := 0
	i := start
	for i < len(p.pattern) && '0' <= p.pattern[i] && p.pattern[i] <= '9' {
		n = n*10 + int(p.pattern[i]-'0')
		i++
	}
	return n, i
}

// group dispatches on the one or two characters after '(' to one of the
// five group forms.
func (p *parser) group(start int) (Node, int, error) {
	rest := p.pattern[start+1:]
	switch {
	case strings.HasPrefix(rest, "?&"):
		return p.call(start)
	case strings.HasPrefix(rest, "?<"):
		return p.namedCapture(start)
	case strings.HasPrefix(rest, "?:"):
		// non-capturing: the body node is used as-is, unwrapped
		body, next, err := p.alternation(start + 3)
		if err != nil {
			return nil, 0, err
		}
		next, err = p.closeGroup(start, next)
		if err != nil {
			return nil, 0, err
		}
		return body, next, nil
	case strings.HasPrefix(rest, "?"):
		return nil, 0, p.errorf(start+2, "invalid group modifier")
	case strings.HasPrefix(rest, "+"):
		return p.capture(start, start+2)
	default:
		return p.capture(start, start+1)
	}
}

func (p *parser) capture(start, bodyStart int) (Node, int, error) {
	body, next, err := p.alternation(bodyStart)
	if err != nil {
		return nil, 0, err
	}
	next, err = p.closeGroup(start, next)
	if err != nil {
		return nil, 0, err
	}
	return &Capture{span: p.span(start, next), X: body}, next, nil
}

// closeGroup consumes the ')' of a group whose '(' sits at open.
func (p *parser) closeGroup(open, at int) (int, error) {
	if at >= len(p.pattern) || p.pattern[at] != ')' {
		return 0, p.errorf(open, "unbalanced '('")
	}
	return at + 1, nil
}

// call scans a (?&name) reference, delegating the qualified identifier to
// the configured micro-parser.
func (p *parser) call(start int) (Node, int, error) {
	nameStart := start + 3
	name, end, err := p.ident(p.pattern, nameStart)
	if err != nil {
		return nil, 0, p.errorf(nameStart, "invalid qualified identifier: %v", err)
	}
	next, err := p.closeGroup(start, end)
	if err != nil {
		return nil, 0, err
	}
	return &Call{
		span: p.span(start, next),
		Name: Ident{span: p.span(nameStart, end), Name: name},
	}, next, nil
}

// namedCapture scans (?<name>...). The name must start with a letter and
// continue with letters, digits, or underscores; each character is checked
// on the way to the closing '>'.
func (p *parser) namedCapture(start int) (Node, int, error) {
	nameStart := start + 3
	i := nameStart
	for i < len(p.pattern) && p.pattern[i] != '>' {
		switch {
		case i == nameStart && !isLetter(p.pattern[i]):
			return nil, 0, p.errorf(i, "invalid first character %q in capture name", p.pattern[i])
		case !isIdentChar(p.pattern[i]):
			return nil, 0, p.errorf(i, "invalid character %q in capture name", p.pattern[i])
		}
		i++
	}
	if i >= len(p.pattern) {
		return nil, 0, p.errorf(start+2, "unbalanced '<'")
	}
	if i == nameStart {
		return nil, 0, p.errorf(i, "missing capture name")
	}

	body, next, err := p.alternation(i + 1)
	if err != nil {
		return nil, 0, err
	}
	next, err = p.closeGroup(start, next)
	if err != nil {
		return nil, 0, err
	}
	return &CaptureAs{
		span: p.span(start, next),
		Name: Ident{span: p.span(nameStart, i), Name: p.pattern[nameStart:i]},
		X:    body,
	}, next, nil
}
