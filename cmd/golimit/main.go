// Command golimit computes limits with step-by-step derivations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/config"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
	configPath string

	logger *zap.Logger
	engine *golimit.Engine
)

var rootCmd = &cobra.Command{
	Use:   "golimit",
	Short: "Compute limits of one-variable expressions, step by step",
	Long: `golimit classifies the indeterminate form of a limit, picks a technique
(factoring, rationalization, fundamental limits, dominant terms, conjugates,
one-sided limits, L'Hôpital's rule) and prints the derivation.

Expressions use the variable x, the operators + - * / ^ and the functions
sin cos tan asin acos atan sinh cosh tanh exp ln log sqrt abs.
log is base 10; ln is natural.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		engine, err = golimit.New(cfg, golimit.WithLogger(logger))
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var limitCmd = &cobra.Command{
	Use:   "limit EXPR POINT",
	Short: "Compute the limit of EXPR as x approaches POINT",
	Long: `Computes the limit and prints the derivation.

POINT is a number, a constant expression such as pi/2, inf or -inf.

Example:
  golimit limit "sin(x)/x" 0
  golimit limit "1/x" 0 --direction right`,
	Args: cobra.ExactArgs(2),
	RunE: runLimit,
}

var graphCmd = &cobra.Command{
	Use:   "graph EXPR POINT",
	Short: "Sample EXPR around POINT for plotting",
	Args:  cobra.ExactArgs(2),
	RunE:  runGraph,
}

var checkCmd = &cobra.Command{
	Use:   "check EXPR POINT",
	Short: "Report whether EXPR and POINT can be plotted",
	Args:  cobra.ExactArgs(2),
	RunE:  runCheck,
}

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Compute every limit listed in a YAML query file",
	Long: `Reads a file of the form

  queries:
    - expression: sin(x)/x
      point: "0"
      direction: both

and prints one result per query, in file order.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Read queries from stdin and print the latest result",
	Long: `Each input line is "EXPR POINT [DIRECTION]". Queries are computed in the
background; a result is printed only if no newer line arrived meanwhile.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

var (
	direction   string
	showDeriv   bool
	logScale    bool
	rangeFrom   float64
	rangeTo     float64
	sampleCount int
	markLimit   bool
	concurrency int
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Engine config file (YAML)")

	limitCmd.Flags().StringVarP(&direction, "direction", "d", "both", "Approach direction: both, left or right")

	graphCmd.Flags().BoolVar(&showDeriv, "derivative", false, "Also sample the derivative")
	graphCmd.Flags().BoolVar(&logScale, "log", false, "Drop values that cannot be shown on a log axis")
	graphCmd.Flags().Float64Var(&rangeFrom, "from", 0, "Left end of the sampled range")
	graphCmd.Flags().Float64Var(&rangeTo, "to", 0, "Right end of the sampled range")
	graphCmd.Flags().IntVar(&sampleCount, "count", 0, "Number of samples (default from config)")
	graphCmd.Flags().BoolVar(&markLimit, "mark-limit", false, "Compute the limit and mark it on the plot")
	graphCmd.MarkFlagsRequiredTogether("from", "to")

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Queries evaluated at once (default GOMAXPROCS)")

	rootCmd.AddCommand(limitCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
