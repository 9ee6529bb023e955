package golimit

import "fmt"

// DerivationStep is one line of a derivation. Math steps carry a LaTeX
// rendering as well.
type DerivationStep struct {
	Text             string `json:"text"`
	IsMathExpression bool   `json:"isMathExpression"`
	LaTeX            string `json:"latex,omitempty"`
}

// recorder accumulates steps in order and tips without duplicates.
type recorder struct {
	steps []DerivationStep
	tips  []string
	seen  map[string]bool
}

func newRecorder() *recorder {
	return &recorder{seen: map[string]bool{}}
}

func (r *recorder) text(format string, args ...any) {
	r.steps = append(r.steps, DerivationStep{Text: fmt.Sprintf(format, args...)})
}

func (r *recorder) math(text, latex string) {
	r.steps = append(r.steps, DerivationStep{Text: text, IsMathExpression: true, LaTeX: latex})
}

// expr records "label e" as a math step.
func (r *recorder) expr(label string, e Expr) {
	r.math(label+e.String(), e.LaTeX())
}

func (r *recorder) tip(t string) {
	if t == "" || r.seen[t] {
		return
	}
	r.seen[t] = true
	r.tips = append(r.tips, t)
}

// merge appends the steps and tips of a finished sub-derivation.
func (r *recorder) merge(o *recorder) {
	r.steps = append(r.steps, o.steps...)
	for _, t := range o.tips {
		r.tip(t)
	}
}
