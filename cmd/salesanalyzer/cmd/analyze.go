package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/asaisreeja/Sales-Analytics-System/cmd/salesanalyzer/config"
	"github.com/asaisreeja/Sales-Analytics-System/internal/pipeline"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inputFile    string
	reportFile   string
	enrichedFile string

	filterRegion string
	minAmount    float64
	maxAmount    float64

	topProducts  int
	lowThreshold int

	catalogURL     string
	catalogLimit   int
	catalogTimeout time.Duration
	skipEnrichment bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a sales transaction file",
	Long: `Analyze reads a pipe-delimited sales transaction file, validates and
filters the records, computes revenue, product, customer and daily
analytics, enriches the data with product metadata from the remote
catalog, and writes a formatted report plus an enriched data file.

Records that fail parsing or validation are discarded and counted, never
fatal. A failed catalog fetch skips enrichment and its report section;
the rest of the analysis still completes.`,
	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "sales data file (required)")
	analyzeCmd.Flags().StringVar(&reportFile, "report-file", "output/sales_report.txt", "report output path")
	analyzeCmd.Flags().StringVar(&enrichedFile, "enriched-file", "output/enriched_sales_data.txt", "enriched data output path")

	analyzeCmd.Flags().StringVar(&filterRegion, "region", "", "keep only transactions from this region")
	analyzeCmd.Flags().Float64Var(&minAmount, "min-amount", 0, "keep only transactions with amount >= this value")
	analyzeCmd.Flags().Float64Var(&maxAmount, "max-amount", 0, "keep only transactions with amount <= this value")

	analyzeCmd.Flags().IntVar(&topProducts, "top-products", 5, "number of products in the top-products table")
	analyzeCmd.Flags().IntVar(&lowThreshold, "low-threshold", 10, "quantity threshold for low-performing products")

	analyzeCmd.Flags().StringVar(&catalogURL, "catalog-url", "https://dummyjson.com/products", "product catalog endpoint")
	analyzeCmd.Flags().IntVar(&catalogLimit, "catalog-limit", 100, "page size requested from the catalog")
	analyzeCmd.Flags().DurationVar(&catalogTimeout, "catalog-timeout", 10*time.Second, "timeout for the catalog fetch")
	analyzeCmd.Flags().BoolVar(&skipEnrichment, "skip-enrichment", false, "skip the catalog fetch and enrichment stage")

	analyzeCmd.MarkFlagRequired("input")

	viper.BindPFlag("catalog.url", analyzeCmd.Flags().Lookup("catalog-url"))
	viper.BindPFlag("catalog.limit", analyzeCmd.Flags().Lookup("catalog-limit"))
	viper.BindPFlag("catalog.timeout", analyzeCmd.Flags().Lookup("catalog-timeout"))
}

// validateAnalyzeFlags validates CLI arguments before execution.
func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(inputFile); err != nil {
		if os.IsNotExist(err) {
			return errors.FileError(errors.CodeFileNotFound, inputFile, err).
				WithSuggestion("Check that the sales data file path is correct")
		}
		return errors.FileError(errors.CodeFilePermission, inputFile, err)
	}

	if cmd.Flags().Changed("min-amount") && minAmount < 0 {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig, "min-amount", minAmount, nil).
			WithSuggestion("Minimum amount cannot be negative")
	}
	if cmd.Flags().Changed("min-amount") && cmd.Flags().Changed("max-amount") && minAmount > maxAmount {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig, "min-amount", minAmount, nil).
			WithSuggestion("Minimum amount must not exceed maximum amount")
	}

	if topProducts <= 0 {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig, "top-products", topProducts, nil).
			WithSuggestion("Top products count must be positive")
	}
	if lowThreshold < 0 {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig, "low-threshold", lowThreshold, nil).
			WithSuggestion("Low quantity threshold cannot be negative")
	}

	if u, err := url.Parse(catalogURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig, "catalog-url", catalogURL, err).
			WithSuggestion("Catalog URL must be an absolute http(s) URL")
	}

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts := &config.Options{
		InputFile:    inputFile,
		ReportFile:   reportFile,
		EnrichedFile: enrichedFile,

		Region:    filterRegion,
		RegionSet: cmd.Flags().Changed("region"),
		MinAmount: minAmount,
		MinSet:    cmd.Flags().Changed("min-amount"),
		MaxAmount: maxAmount,
		MaxSet:    cmd.Flags().Changed("max-amount"),

		TopProducts:  topProducts,
		LowThreshold: lowThreshold,

		CatalogURL:     catalogURL,
		CatalogLimit:   catalogLimit,
		CatalogTimeout: catalogTimeout,
		SkipEnrichment: skipEnrichment,
	}

	cfg, err := config.BuildPipelineConfig(opts)
	if err != nil {
		os.Exit(NewCLIErrorHandler().HandleError(err))
	}

	service, err := pipeline.NewService(cfg)
	if err != nil {
		os.Exit(NewCLIErrorHandler().HandleError(err))
	}

	result, err := service.Run(context.Background())
	if err != nil {
		os.Exit(NewCLIErrorHandler().HandleError(err))
	}

	printRunSummary(cmd, result)

	return nil
}

// printRunSummary echoes the run outcome to the console.
func printRunSummary(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Sales Analytics\n")
	fmt.Fprintf(out, "===============\n\n")

	if result.LoadErr != nil {
		fmt.Fprintf(out, "Warning: could not read input file (%v); continuing with no data\n\n", result.LoadErr)
	}

	fmt.Fprintf(out, "Lines read:           %d\n", result.RawLineCount)
	if result.ParseStats != nil {
		fmt.Fprintf(out, "Records parsed:       %d\n", result.ParseStats.RecordsParsed)
		if result.ParseStats.HasDiscards() {
			fmt.Fprintf(out, "Lines discarded:      %d\n", result.ParseStats.Discarded())
		}
	}

	if diag := result.Diagnostics; diag != nil && len(diag.Regions) > 0 {
		fmt.Fprintf(out, "\nAvailable regions: %v\n", diag.Regions)
		if diag.HasAmounts {
			fmt.Fprintf(out, "Amount range: $%s - $%s\n", diag.MinAmount.StringFixed(2), diag.MaxAmount.StringFixed(2))
		}
	}

	if s := result.FilterSummary; s != nil {
		fmt.Fprintf(out, "\nValidation Summary\n")
		fmt.Fprintf(out, "  Total input:        %d\n", s.TotalInput)
		fmt.Fprintf(out, "  Invalid records:    %d\n", s.Invalid)
		fmt.Fprintf(out, "  Filtered by region: %d\n", s.FilteredByRegion)
		fmt.Fprintf(out, "  Filtered by amount: %d\n", s.FilteredByAmount)
		fmt.Fprintf(out, "  Valid records:      %d\n", s.FinalCount)
	}

	if result.EnrichmentErr != nil {
		fmt.Fprintf(out, "\nWarning: catalog fetch failed (%v); enrichment skipped\n", result.EnrichmentErr)
	} else if stats := result.Enrichment; stats != nil {
		fmt.Fprintf(out, "\nEnrichment: %d/%d matched (%.2f%%)\n",
			stats.Matched, stats.Total, stats.SuccessRate())
	}

	fmt.Fprintf(out, "\n")
	if result.ReportPath != "" {
		fmt.Fprintf(out, "Report written:       %s\n", result.ReportPath)
	} else if result.ReportErr != nil {
		fmt.Fprintf(out, "Warning: report not written (%v)\n", result.ReportErr)
	}
	if result.EnrichedPath != "" {
		fmt.Fprintf(out, "Enriched data:        %s\n", result.EnrichedPath)
	} else if result.EnrichedWriteErr != nil {
		fmt.Fprintf(out, "Warning: enriched data not written (%v)\n", result.EnrichedWriteErr)
	}
	fmt.Fprintf(out, "Completed in %v\n", result.Duration.Round(time.Millisecond))
}
