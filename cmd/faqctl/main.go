// Command faqctl inspects the chatbot knowledge base offline.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/internal/knowledge"
)

type options struct {
	faqPath      string
	taxonomyPath string
	outputJSON   bool
	noColor      bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "faqctl",
		Short: "Inspect and exercise the portfolio chatbot knowledge base",
		Long: `faqctl loads the FAQ knowledge base and keyword taxonomy the API server uses
and runs the same matching engine against them offline.

Use it to validate edits to the data files, see which FAQ a question selects
and flush cached generated answers.`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVar(&opts.faqPath, "faq", "./data/faq-data.json", "knowledge base JSON file")
	root.PersistentFlags().StringVar(&opts.taxonomyPath, "taxonomy", "./data/taxonomy.yaml", "keyword taxonomy YAML file (empty for built-in tables)")
	root.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newValidateCmd(opts),
		newAskCmd(opts),
		newScoreCmd(opts),
		newCacheCmd(opts),
	)

	return root
}

func (o *options) ui(cmd *cobra.Command) *ui {
	return newUI(cmd.OutOrStdout(), o.outputJSON, o.noColor)
}

func (o *options) load() (*knowledge.KnowledgeBase, *faq.Engine, error) {
	kb, err := knowledge.LoadKnowledgeBase(o.faqPath)
	if err != nil {
		return nil, nil, err
	}
	tax, err := knowledge.LoadTaxonomy(o.taxonomyPath)
	if err != nil {
		return nil, nil, err
	}
	engine, err := knowledge.NewEngine(kb, tax)
	if err != nil {
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}
	return kb, engine, nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
