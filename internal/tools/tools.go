// Package tools exposes the limit engine as MCP tools.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/metrics"
)

// ComputeLimitInput represents the MCP tool input for computing a limit.
type ComputeLimitInput struct {
	Expression string `json:"expression" jsonschema:"expression in x, e.g. sin(x)/x"`
	Point      string `json:"point" jsonschema:"point approached: a number, a constant such as pi/2, inf or -inf"`
	Direction  string `json:"direction,omitempty" jsonschema:"both (default), left or right"`
}

// Step is one line of a derivation.
type Step struct {
	Text             string `json:"text" jsonschema:"step text"`
	IsMathExpression bool   `json:"isMathExpression" jsonschema:"whether the step is a formula"`
	LaTeX            string `json:"latex,omitempty" jsonschema:"LaTeX rendering of a formula step"`
}

// ComputeLimitResult represents the MCP tool output for a computed limit.
type ComputeLimitResult struct {
	Value        string   `json:"value" jsonschema:"limit value: a number, +inf, -inf, does not exist or error"`
	Steps        []Step   `json:"steps" jsonschema:"derivation steps in order"`
	Tips         []string `json:"tips" jsonschema:"study tips for the techniques used"`
	StrategyUsed string   `json:"strategyUsed" jsonschema:"technique that resolved the limit"`
	FormDetected string   `json:"formDetected" jsonschema:"indeterminate form detected"`
	FormInfo     string   `json:"formInfo" jsonschema:"explanation of the detected form"`
	StrategyInfo string   `json:"strategyInfo" jsonschema:"explanation of the technique"`
	Left         string   `json:"left,omitempty" jsonschema:"left-hand limit when computed"`
	Right        string   `json:"right,omitempty" jsonschema:"right-hand limit when computed"`
}

// GraphInput represents the MCP tool input for graph sampling.
type GraphInput struct {
	Expression     string   `json:"expression" jsonschema:"expression in x"`
	Point          string   `json:"point" jsonschema:"point the plot is centered on"`
	ShowDerivative bool     `json:"showDerivative,omitempty" jsonschema:"also sample the derivative"`
	UseLogScale    bool     `json:"useLogScale,omitempty" jsonschema:"drop values that cannot be shown on a log axis"`
	XMin           *float64 `json:"xMin,omitempty" jsonschema:"left end of the sampled range"`
	XMax           *float64 `json:"xMax,omitempty" jsonschema:"right end of the sampled range"`
	LimitValue     *float64 `json:"limitValue,omitempty" jsonschema:"limit value to mark on the plot"`
	Count          int      `json:"count,omitempty" jsonschema:"number of samples, at most 10000"`
}

// GraphPoint marks the limit on the plot.
type GraphPoint struct {
	X float64 `json:"x" jsonschema:"x coordinate"`
	Y float64 `json:"y" jsonschema:"y coordinate"`
}

// GraphResult represents the MCP tool output for graph sampling.
type GraphResult struct {
	Xs           []float64   `json:"xs" jsonschema:"sample abscissas"`
	Ys           []*float64  `json:"ys" jsonschema:"sample values, null where undefined"`
	DerivativeYs []*float64  `json:"derivativeYs,omitempty" jsonschema:"derivative values, null where undefined"`
	Marker       *GraphPoint `json:"marker,omitempty" jsonschema:"limit marker"`
}

// PlotCheckInput represents the MCP tool input for plot validation.
type PlotCheckInput struct {
	Expression string `json:"expression" jsonschema:"expression in x"`
	Point      string `json:"point" jsonschema:"point the plot is centered on"`
}

// PlotCheckResult represents the MCP tool output for plot validation.
type PlotCheckResult struct {
	CanPlot bool   `json:"canPlot" jsonschema:"whether the inputs can be plotted"`
	Reason  string `json:"reason,omitempty" jsonschema:"why the inputs cannot be plotted"`
}

// Toolset serves the engine tools. Identical concurrent computations share
// one engine call.
type Toolset struct {
	engine  *golimit.Engine
	metrics *metrics.Recorder
	log     *zap.Logger
	flight  singleflight.Group
}

// New builds a Toolset. rec and log may be nil.
func New(engine *golimit.Engine, rec *metrics.Recorder, log *zap.Logger) *Toolset {
	if log == nil {
		log = zap.NewNop()
	}
	return &Toolset{engine: engine, metrics: rec, log: log}
}

// Register adds every tool to server.
func (t *Toolset) Register(server *mcp.Server) {
	mcp.AddTool(server, ComputeLimitTool(), t.ComputeLimitHandler())
	mcp.AddTool(server, GenerateGraphDataTool(), t.GenerateGraphDataHandler())
	mcp.AddTool(server, CanPlotFunctionTool(), t.CanPlotFunctionHandler())
}

// ComputeLimitTool defines the MCP tool schema for computing limits.
func ComputeLimitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compute_limit",
		Description: "Computes the limit of an expression in x with a step-by-step derivation",
	}
}

// GenerateGraphDataTool defines the MCP tool schema for graph sampling.
func GenerateGraphDataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate_graph_data",
		Description: "Samples an expression around a point for plotting",
	}
}

// CanPlotFunctionTool defines the MCP tool schema for plot validation.
func CanPlotFunctionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "can_plot_function",
		Description: "Reports whether an expression and point can be plotted",
	}
}

// ComputeLimitHandler executes a limit computation.
func (t *Toolset) ComputeLimitHandler() mcp.ToolHandlerFor[ComputeLimitInput, ComputeLimitResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ComputeLimitInput) (*mcp.CallToolResult, ComputeLimitResult, error) {
		key := strings.Join([]string{"limit", input.Expression, input.Point, input.Direction}, "\x00")
		v, err, shared := t.flight.Do(key, func() (any, error) {
			start := time.Now()
			res, err := t.engine.ComputeLimit(input.Expression, input.Point, input.Direction)
			if err != nil {
				t.metrics.ParseError("compute_limit")
				return nil, err
			}
			t.metrics.ObserveLimit(res, time.Since(start))
			return res, nil
		})
		if err != nil {
			t.log.Debug("compute_limit rejected", zap.String("expression", input.Expression), zap.Error(err))
			return nil, ComputeLimitResult{}, fmt.Errorf("compute limit: %w", err)
		}
		res := v.(golimit.LimitResult)
		t.log.Debug("compute_limit",
			zap.String("expression", input.Expression),
			zap.String("point", input.Point),
			zap.Stringer("value", res.Value),
			zap.Bool("shared", shared))
		return nil, limitResult(res), nil
	}
}

// GenerateGraphDataHandler executes graph sampling.
func (t *Toolset) GenerateGraphDataHandler() mcp.ToolHandlerFor[GraphInput, GraphResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, GraphResult, error) {
		opts := golimit.GraphOptions{
			ShowDerivative: input.ShowDerivative,
			UseLogScale:    input.UseLogScale,
			LimitValue:     input.LimitValue,
			Count:          input.Count,
		}
		switch {
		case input.Count < 0 || input.Count > golimit.MaxGraphSamples:
			return nil, GraphResult{}, fmt.Errorf("generate graph data: count must be between 0 and %d", golimit.MaxGraphSamples)
		case input.XMin != nil && input.XMax != nil:
			opts.XRange = &[2]float64{*input.XMin, *input.XMax}
		case input.XMin != nil || input.XMax != nil:
			return nil, GraphResult{}, errors.New("generate graph data: xMin and xMax must be given together")
		}

		start := time.Now()
		set, err := t.engine.GenerateGraphData(input.Expression, input.Point, opts)
		t.metrics.ObserveCall("generate_graph_data", time.Since(start))
		if err != nil {
			var pe *golimit.ParseError
			if errors.As(err, &pe) {
				t.metrics.ParseError("generate_graph_data")
			}
			return nil, GraphResult{}, fmt.Errorf("generate graph data: %w", err)
		}
		out := GraphResult{Xs: set.Xs, Ys: set.Ys, DerivativeYs: set.DerivativeYs}
		if set.Marker != nil {
			out.Marker = &GraphPoint{X: set.Marker.X, Y: set.Marker.Y}
		}
		return nil, out, nil
	}
}

// CanPlotFunctionHandler executes plot validation.
func (t *Toolset) CanPlotFunctionHandler() mcp.ToolHandlerFor[PlotCheckInput, PlotCheckResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlotCheckInput) (*mcp.CallToolResult, PlotCheckResult, error) {
		start := time.Now()
		check := t.engine.CanPlotFunction(input.Expression, input.Point)
		t.metrics.ObserveCall("can_plot_function", time.Since(start))
		if !check.CanPlot {
			t.metrics.ParseError("can_plot_function")
		}
		return nil, PlotCheckResult{CanPlot: check.CanPlot, Reason: check.Reason}, nil
	}
}

func limitResult(res golimit.LimitResult) ComputeLimitResult {
	out := ComputeLimitResult{
		Value:        res.Value.String(),
		Steps:        make([]Step, len(res.Steps)),
		Tips:         res.Tips,
		StrategyUsed: res.StrategyUsed.String(),
		FormDetected: res.FormDetected.String(),
		FormInfo:     res.FormInfo,
		StrategyInfo: res.StrategyInfo,
	}
	for i, s := range res.Steps {
		out.Steps[i] = Step{Text: s.Text, IsMathExpression: s.IsMathExpression, LaTeX: s.LaTeX}
	}
	if res.Left != nil {
		out.Left = res.Left.String()
	}
	if res.Right != nil {
		out.Right = res.Right.String()
	}
	return out
}
