package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/batch"
	"github.com/njchilds90/golimit/internal/preview"
)

func runLimit(cmd *cobra.Command, args []string) error {
	res, err := engine.ComputeLimit(args[0], args[1], direction)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printLimit(cmd.OutOrStdout(), res)
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	opts := golimit.GraphOptions{
		ShowDerivative: showDeriv,
		UseLogScale:    logScale,
		Count:          sampleCount,
	}
	if cmd.Flags().Changed("from") {
		opts.XRange = &[2]float64{rangeFrom, rangeTo}
	}
	if markLimit {
		res, err := engine.ComputeLimit(args[0], args[1], "both")
		if err != nil {
			return err
		}
		if v := res.Value.Float64(); res.Value.Kind == golimit.ValueReal && res.Value.Real.IsFinite() {
			opts.LimitValue = &v
		}
	}
	set, err := engine.GenerateGraphData(args[0], args[1], opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), set)
	}
	printGraph(cmd.OutOrStdout(), set)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	check := engine.CanPlotFunction(args[0], args[1])
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), check)
	}
	if check.CanPlot {
		fmt.Fprintln(cmd.OutOrStdout(), "plottable")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "not plottable: %s\n", check.Reason)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	queries, err := batch.Load(args[0])
	if err != nil {
		return err
	}
	runner := batch.NewRunner(engine, batch.WithConcurrency(concurrency), batch.WithLogger(logger))
	items, err := runner.Run(cmd.Context(), queries)
	if err != nil {
		return err
	}
	logger.Debug("batch finished", zap.String("file", args[0]), zap.Int("queries", len(items)))
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), items)
	}
	out := cmd.OutOrStdout()
	for i, item := range items {
		label := item.Query.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if item.Result == nil {
			fmt.Fprintf(out, "%s  %s  error: %s\n", label, item.Query.Expression, item.Error)
			continue
		}
		fmt.Fprintf(out, "%s  %s  x → %s  = %s  (%s)\n", label, item.Query.Expression, item.Query.Point,
			item.Result.Value, item.Result.StrategyUsed)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var mu sync.Mutex
	runner := preview.NewRunner(engine, func(u preview.Update) {
		mu.Lock()
		defer mu.Unlock()
		if u.Err != nil {
			fmt.Fprintf(out, "[%d] %s: %v\n", u.Generation, u.Query.Expression, u.Err)
			return
		}
		if jsonOutput {
			_ = writeJSON(out, u.Result)
			return
		}
		fmt.Fprintf(out, "[%d] %s = %s\n", u.Generation, headline(u.Result), u.Result.Value)
	}, logger)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		q, ok := parsePreviewLine(scanner.Text())
		if !ok {
			continue
		}
		runner.Submit(cmd.Context(), q)
	}
	runner.Wait()
	return scanner.Err()
}

// parsePreviewLine reads "EXPR [POINT [DIRECTION]]". The expression may
// contain spaces, so the point and direction are taken from the end of the
// line: the last field is a direction when it names one, and the field
// before it is the point.
func parsePreviewLine(line string) (preview.Query, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return preview.Query{}, false
	}
	var q preview.Query
	if n := len(fields); n > 2 && isDirection(fields[n-1]) {
		q.Direction = fields[n-1]
		fields = fields[:n-1]
	}
	if n := len(fields); n > 1 {
		q.Point = fields[n-1]
		fields = fields[:n-1]
	}
	q.Expression = strings.Join(fields, " ")
	return q, true
}

func isDirection(s string) bool {
	_, err := golimit.ParseDirection(s)
	return err == nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLimit(w io.Writer, res golimit.LimitResult) {
	fmt.Fprintf(w, "%s = %s\n\n", headline(res), res.Value)
	fmt.Fprintf(w, "form:     %s\n          %s\n", res.FormDetected, res.FormInfo)
	fmt.Fprintf(w, "strategy: %s\n          %s\n", res.StrategyUsed, res.StrategyInfo)
	if res.Left != nil || res.Right != nil {
		fmt.Fprintf(w, "one-sided: %s / %s\n", sideText(res.Left), sideText(res.Right))
	}
	fmt.Fprintln(w, "\nsteps:")
	for i, s := range res.Steps {
		fmt.Fprintf(w, "%3d. %s\n", i+1, s.Text)
	}
	if len(res.Tips) > 0 {
		fmt.Fprintln(w, "\ntips:")
		for _, t := range res.Tips {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}
}

// headline is the opening "lim x → a f(x)" line of a derivation.
func headline(res golimit.LimitResult) string {
	if len(res.Steps) == 0 {
		return "lim"
	}
	return res.Steps[0].Text
}

func sideText(v *golimit.ExtendedReal) string {
	if v == nil {
		return "n/a"
	}
	return v.String()
}

func printGraph(w io.Writer, set golimit.GraphSampleSet) {
	for i, x := range set.Xs {
		line := fmt.Sprintf("%g\t%s", x, sampleText(set.Ys[i]))
		if set.DerivativeYs != nil {
			line += "\t" + sampleText(set.DerivativeYs[i])
		}
		fmt.Fprintln(w, line)
	}
	if set.Marker != nil {
		fmt.Fprintf(w, "# limit marker at (%g, %g)\n", set.Marker.X, set.Marker.Y)
	}
}

func sampleText(y *float64) string {
	if y == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *y)
}
