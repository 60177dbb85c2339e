package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lettergeo/internal/ner"
	"lettergeo/internal/pipeline"
)

var (
	corpusDir   string
	countsOnly  bool
	nerProvider string
	nerModel    string
	nerURL      string
)

// preprocessCmd represents the preprocess command
var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Extract, clean and count place names from the letter corpus",
	Long: `Preprocess runs pipeline A:
- Parse each XML letter and checkpoint its plain text
- Detect location mentions with the configured NER provider
- Normalize names (denylist, suffix stripping) and fuzzily merge spelling variants
- Write the (loc,count) table for the geomap pipeline

With --counts-only the XML parsing and model inference are skipped and the
table is re-derived from the previously saved mentions checkpoint.

Example:
  lettergeo preprocess --corpus data/xml
  lettergeo preprocess --counts-only
  lettergeo preprocess --ner server --ner-url http://localhost:8400`,
	RunE: runPreprocess,
}

func init() {
	rootCmd.AddCommand(preprocessCmd)

	preprocessCmd.Flags().StringVar(&corpusDir, "corpus", "", "directory of letter XML files")
	preprocessCmd.Flags().BoolVar(&countsOnly, "counts-only", false, "recompute counts from the saved mentions table (skip parsing and inference)")
	preprocessCmd.Flags().StringVar(&nerProvider, "ner", "", "NER provider (prose, server, openai)")
	preprocessCmd.Flags().StringVar(&nerModel, "ner-model", "", "model name for the server/openai providers")
	preprocessCmd.Flags().StringVar(&nerURL, "ner-url", "", "tagging server base URL")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	if nerProvider != "" {
		cfg.NER.Provider = nerProvider
	}
	if nerModel != "" {
		cfg.NER.Model = nerModel
	}
	if nerURL != "" {
		cfg.NER.BaseURL = nerURL
	}
	if cfg.NER.Provider == "openai" && cfg.NER.APIKey == "" {
		cfg.NER.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.NER.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	recognizer, err := ner.New(cfg.NER)
	if err != nil {
		return err
	}

	ctx := context.Background()
	p := pipeline.NewPreprocess(cfg, recognizer)

	start := time.Now()
	if countsOnly {
		if _, err := p.RunCountsOnly(ctx); err != nil {
			return fmt.Errorf("preprocess failed: %w", err)
		}
	} else {
		if !recognizer.IsAvailable(ctx) {
			return fmt.Errorf("NER provider %q is not available", recognizer.Name())
		}
		if _, err := p.Run(ctx); err != nil {
			return fmt.Errorf("preprocess failed: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
