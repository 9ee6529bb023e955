package golimit

import (
	"fmt"
	"math"
)

// MaxGraphSamples bounds the number of samples in one graph.
const MaxGraphSamples = 10000

// SampleOptions selects the extra series produced by Sample.
type SampleOptions struct {
	WithDerivative bool
	LogScale       bool
}

// GraphPoint marks the limit on a plot.
type GraphPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphSampleSet holds evenly spaced samples. A nil entry marks a sample
// where evaluation failed or the value cannot be shown; consumers must not
// connect across it.
type GraphSampleSet struct {
	Xs           []float64   `json:"xs"`
	Ys           []*float64  `json:"ys"`
	DerivativeYs []*float64  `json:"derivativeYs,omitempty"`
	Marker       *GraphPoint `json:"marker,omitempty"`
}

// Sample evaluates expr at count evenly spaced points over
// [center-halfRange, center+halfRange]. count < 2 samples the center only;
// count is clamped to MaxGraphSamples.
func (ev *Evaluator) Sample(expr Expression, center, halfRange float64, count int, opts SampleOptions) GraphSampleSet {
	count = min(count, MaxGraphSamples)
	xs := []float64{center}
	if count >= 2 {
		xs = make([]float64, count)
		for i := range xs {
			xs[i] = center + halfRange*float64(2*i-(count-1))/float64(count-1)
		}
	}
	tree := expr.evalTree()
	set := GraphSampleSet{Xs: xs, Ys: ev.series(tree, xs, opts.LogScale)}
	if opts.WithDerivative {
		d, _ := Derivative(expr)
		set.DerivativeYs = ev.series(d.tree, xs, opts.LogScale)
		// no derivative where the function itself is undefined
		for i, x := range xs {
			if _, err := ev.evalFinite(tree, x); err != nil {
				set.DerivativeYs[i] = nil
			}
		}
	}
	return set
}

func (ev *Evaluator) series(e Expr, xs []float64, logScale bool) []*float64 {
	ys := make([]*float64, len(xs))
	if e == nil {
		return ys
	}
	for i, x := range xs {
		y, err := ev.evalFinite(e, x)
		if err != nil || (logScale && y <= 0) {
			continue
		}
		ys[i] = &y
	}
	return ys
}

// GraphOptions configures GenerateGraphData. A nil XRange centers the
// configured half-range on the point (on 0 for infinite points); a zero
// Count uses the configured sample count. Count may not exceed
// MaxGraphSamples.
type GraphOptions struct {
	ShowDerivative bool
	UseLogScale    bool
	XRange         *[2]float64
	LimitValue     *float64
	Count          int
}

// GenerateGraphData samples the expression for plotting.
func (e *Engine) GenerateGraphData(rawExpression, rawPoint string, opts GraphOptions) (GraphSampleSet, error) {
	expr, err := e.norm.Normalize(rawExpression)
	if err != nil {
		return GraphSampleSet{}, err
	}
	point, err := ParsePoint(rawPoint)
	if err != nil {
		return GraphSampleSet{}, err
	}
	center, half := 0.0, e.cfg.GraphHalfRange
	if point.IsFinite() {
		center = point.Float64()
	}
	if opts.XRange != nil {
		lo, hi := opts.XRange[0], opts.XRange[1]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi <= lo {
			return GraphSampleSet{}, fmt.Errorf("graph range [%v, %v] must be finite and increasing", lo, hi)
		}
		center, half = (lo+hi)/2, (hi-lo)/2
	}
	count := opts.Count
	if count > MaxGraphSamples {
		return GraphSampleSet{}, fmt.Errorf("graph sample count %d exceeds the maximum of %d", count, MaxGraphSamples)
	}
	if count <= 0 {
		count = e.cfg.GraphSamples
	}
	set := e.ev.Sample(expr, center, half, count, SampleOptions{
		WithDerivative: opts.ShowDerivative,
		LogScale:       opts.UseLogScale,
	})
	if lv := opts.LimitValue; lv != nil && point.IsFinite() && !math.IsNaN(*lv) && !math.IsInf(*lv, 0) {
		if !opts.UseLogScale || *lv > 0 {
			set.Marker = &GraphPoint{X: point.Float64(), Y: *lv}
		}
	}
	return set, nil
}

// PlotCheck is the answer of CanPlotFunction.
type PlotCheck struct {
	CanPlot bool   `json:"canPlot"`
	Reason  string `json:"reason"`
}

// CanPlotFunction parses and validates the inputs without sampling.
func (e *Engine) CanPlotFunction(rawExpression, rawPoint string) PlotCheck {
	if _, err := e.norm.Normalize(rawExpression); err != nil {
		return PlotCheck{Reason: err.Error()}
	}
	if _, err := ParsePoint(rawPoint); err != nil {
		return PlotCheck{Reason: err.Error()}
	}
	return PlotCheck{CanPlot: true}
}
