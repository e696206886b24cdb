package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/venue-quote/internal/model"
)

var (
	quoteOutput string
	quoteQuiet  bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <url>",
	Short: "Quote a single hotel website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if quoteOutput != "json" && quoteOutput != "yaml" {
			return eris.Errorf("unsupported output format %q (want json or yaml)", quoteOutput)
		}

		p, err := initPipeline(cfg, "quote")
		if err != nil {
			return err
		}

		var s *spinner.Spinner
		if !quoteQuiet {
			s = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			s.Suffix = " quoting " + args[0]
			s.Start()
		}
		q, err := p.Run(cmd.Context(), args[0])
		if s != nil {
			s.Stop()
		}
		if err != nil {
			return eris.Wrapf(err, "quote %s", args[0])
		}

		return writeQuote(cmd.OutOrStdout(), q, quoteOutput)
	},
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteOutput, "output", "o", "json", "output format: json or yaml")
	quoteCmd.Flags().BoolVarP(&quoteQuiet, "quiet", "q", false, "disable the progress spinner")
	rootCmd.AddCommand(quoteCmd)
}

func writeQuote(w io.Writer, q *model.Quote, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(q); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(q), "encode json")
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
