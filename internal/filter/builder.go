package filter

import "fmt"

// Predicate is a compiled boolean expression over one entity table. Where
// is a SQL fragment with positional placeholders; an empty Where imposes
// no constraint (match-all).
type Predicate struct {
	Where string
	Args  []any
}

// IsNeutral reports whether the predicate matches everything.
func (p Predicate) IsNeutral() bool {
	return p.Where == ""
}

// builder collects positional query arguments while fragments are
// assembled.
type builder struct {
	args []any
}

func newBuilder() *builder {
	return &builder{args: make([]any, 0)}
}

func (b *builder) addArg(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}

func (b *builder) placeholder(idx int) string {
	return fmt.Sprintf("$%d", idx)
}

// arg appends a value and returns its placeholder in one step.
func (b *builder) arg(value any) string {
	return b.placeholder(b.addArg(value))
}
