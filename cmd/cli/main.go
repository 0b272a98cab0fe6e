package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"golattice/adapters/catalog"
	"golattice/adapters/excel"
	"golattice/adapters/montecarlo"
	"golattice/adapters/rng"
	"golattice/app"
	"golattice/domain/lattice"
	"golattice/ports"
)

// searchFlags are shared by every command that fits values.
type searchFlags struct {
	base float64
	mMax int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.base, "base", lattice.GoldenRatio, "Lattice base (must be > 1)")
	cmd.Flags().IntVar(&f.mMax, "m-max", lattice.DefaultMMax, "Correction depth bound")
}

func (f *searchFlags) search() lattice.SearchConfig {
	return lattice.SearchConfig{Base: f.base, MMax: f.mMax}
}

// registerModeFlag is only for commands that score one fit form; fit itself
// always reports both.
func registerModeFlag(cmd *cobra.Command, mode *string) {
	cmd.Flags().StringVar(mode, "mode", "single", "Fit mode to score: single or double")
}

func parseMode(mode string) (lattice.Mode, error) {
	switch mode {
	case "single":
		return lattice.ModeSingle, nil
	case "double":
		return lattice.ModeDouble, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use single or double)", mode)
	}
}

// baselineFlags parameterize Monte Carlo baseline estimation. The acceptance
// threshold has no default: it changes the statistics, so the caller states it.
type baselineFlags struct {
	samples   int
	logMin    float64
	logMax    float64
	threshold float64
	seed      int64
	workers   int
}

func (f *baselineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.samples, "samples", 100000, "Monte Carlo sample count")
	cmd.Flags().Float64Var(&f.logMin, "log-min", -6, "Lower decade bound (log10)")
	cmd.Flags().Float64Var(&f.logMax, "log-max", 6, "Upper decade bound (log10)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "Acceptance threshold on the quality metric (required)")
	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Random seed for deterministic sampling")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Sampler fan-out (0 = default)")
	cmd.MarkFlagRequired("threshold")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "golattice",
		Short: "Nested-lattice fitter with Monte Carlo significance testing",
	}

	rootCmd.AddCommand(
		newFitCmd(),
		newBaselineCmd(),
		newStudyCmd(),
		newCatalogCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFitCmd() *cobra.Command {
	var search searchFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fit [values...]",
		Short: "Fit one or more values against the lattice",
		Long: `Fit dimensionless values against the nested power lattice.

Example: golattice fit 1836.15267343 --base 1.618033988749895 --m-max 14`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := search.search()
			for _, arg := range args {
				value, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", arg, err)
				}
				single, err := lattice.FitSingle(value, cfg)
				if err != nil {
					return err
				}
				double, err := lattice.FitDouble(value, cfg)
				if err != nil {
					return err
				}
				if asJSON {
					out, err := json.MarshalIndent(map[string]any{
						"value": value, "single": single, "double": double,
					}, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(out))
					continue
				}
				printFit(value, single, double)
			}
			return nil
		},
	}

	search.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func printFit(value float64, single lattice.SingleFit, double lattice.DoubleFit) {
	fmt.Printf("value %.12g: n=%d delta=%.6f\n", value, single.N, single.Delta)
	if single.Exact {
		fmt.Println("  exact lattice power, no correction needed")
		return
	}
	fmt.Printf("  single: m=%d sign=%+d c=%.6f (|c-1|=%.6f)\n",
		single.M, single.Sign, single.C, single.Quality())
	fmt.Printf("  double: m1=%d m2=%d signs=(%+d,%+d) residual=%.6g\n",
		double.M1, double.M2, double.Sign1, double.Sign2, double.Residual)
}

func newBaselineCmd() *cobra.Command {
	var search searchFlags
	var baseline baselineFlags
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Estimate the chance acceptance rate by Monte Carlo",
		Long: `Estimate how often a log-uniform random value satisfies the lattice
acceptance criterion by chance.

Example: golattice baseline --threshold 0.2 --samples 200000 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeFlag)
			if err != nil {
				return err
			}
			sampler := montecarlo.NewSampler(rng.New())
			estimate, err := sampler.Sample(cmd.Context(), ports.BaselineRequest{
				Search:    search.search(),
				Mode:      mode,
				Samples:   baseline.samples,
				LogMin:    baseline.logMin,
				LogMax:    baseline.logMax,
				Threshold: baseline.threshold,
				Seed:      baseline.seed,
				Workers:   baseline.workers,
			})
			if err != nil {
				return err
			}
			fmt.Printf("baseline rate: %.6f ± %.6f (%d/%d accepted)\n",
				estimate.Rate, estimate.StdErr, estimate.Accepted, estimate.Samples)
			fmt.Printf("decades [%g, %g], threshold %g, seed %d\n",
				estimate.LogMin, estimate.LogMax, estimate.Threshold, estimate.Seed)
			return nil
		},
	}

	search.register(cmd)
	baseline.register(cmd)
	registerModeFlag(cmd, &modeFlag)
	return cmd
}

func newStudyCmd() *cobra.Command {
	var search searchFlags
	var baseline baselineFlags
	var modeFlag string
	var altRate float64
	var continueOnError bool
	var asMarkdown bool
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run the full resonance study over the builtin catalogue",
		Long: `Fit every catalogue observation, estimate the chance baseline and
evaluate the significance of the observed success count.

Example: golattice study --threshold 0.2 --alt-rate 0.9 --xlsx run.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeFlag)
			if err != nil {
				return err
			}
			result, err := runStudy(cmd.Context(), ports.StudyRequest{
				Search:          search.search(),
				Mode:            mode,
				Threshold:       baseline.threshold,
				AltRate:         altRate,
				Samples:         baseline.samples,
				LogMin:          baseline.logMin,
				LogMax:          baseline.logMax,
				Seed:            baseline.seed,
				Workers:         baseline.workers,
				ContinueOnError: continueOnError,
			})
			if err != nil {
				return err
			}

			if asMarkdown {
				fmt.Print(app.RenderMarkdown(result))
			} else {
				fmt.Print(app.RenderTable(result))
			}

			if xlsxPath != "" {
				if err := excel.NewReportWriter().Export(result, xlsxPath); err != nil {
					return fmt.Errorf("export workbook: %w", err)
				}
				fmt.Printf("\nworkbook written to %s\n", xlsxPath)
			}
			return nil
		},
	}

	search.register(cmd)
	baseline.register(cmd)
	registerModeFlag(cmd, &modeFlag)
	cmd.Flags().Float64Var(&altRate, "alt-rate", 0, "Fixed alternative rate for the Bayes factor (0 = skip)")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Skip observations that fail to fit")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Emit the markdown report instead of the text table")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the run as an xlsx workbook at this path")
	return cmd
}

func runStudy(ctx context.Context, req ports.StudyRequest) (*ports.StudyResult, error) {
	baseline := montecarlo.NewSampler(rng.New())
	service := app.NewResonanceService(catalog.NewBuiltin(), baseline)
	return service.RunStudy(ctx, req)
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the builtin observation catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			observations, err := catalog.NewBuiltin().Observations(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%-24s %-12s %s\n", "name", "category", "value")
			for _, obs := range observations {
				fmt.Printf("%-24s %-12s %.12g\n", obs.Name, obs.Category, obs.Value)
			}
			return nil
		},
	}
}
