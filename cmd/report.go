package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/logger"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
	"github.com/KaramelBytes/dashwise-cli/internal/report"
	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
	"github.com/KaramelBytes/dashwise-cli/internal/utils"
)

var (
	repOutputPath string
	repJSON       bool
	repSheetName  string
	repSheetIndex int
	repDelimiter  string
	repExtended   bool
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Compute KPIs, metrics, suggestions and chart tables for a studio spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		loc, err := c.Location()
		if err != nil {
			return err
		}
		opt := c.LoadOptions()
		if repSheetName != "" {
			opt.SheetName = repSheetName
		}
		if cmd.Flags().Changed("sheet-index") {
			opt.SheetIndex = repSheetIndex
		}
		switch repDelimiter {
		case "":
		case ",":
			opt.Delimiter = ','
		case ";":
			opt.Delimiter = ';'
		case "\t", "tab":
			opt.Delimiter = '\t'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", repDelimiter)
		}
		sopt := c.SuggestOptions()
		if cmd.Flags().Changed("extended") {
			sopt.Extended = repExtended
		}

		doc, err := buildDocument(args[0], opt, loc, sopt)
		if err != nil {
			return err
		}

		var out []byte
		if repJSON {
			if out, err = utils.PrettyJSON(doc); err != nil {
				return err
			}
		} else {
			out = []byte(doc.Markdown())
		}
		if repOutputPath != "" {
			if err := utils.SafeWriteFile(repOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", repOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// buildDocument runs the whole pipeline for one file.
func buildDocument(path string, opt dataset.LoadOptions, loc *time.Location, sopt suggest.Options) (*report.Document, error) {
	raw, err := dataset.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	tbl, snap, err := metrics.Process(raw, loc)
	if err != nil {
		return nil, err
	}
	list := suggest.Generate(tbl, &snap, sopt)
	logger.Debug("report computed",
		zap.String("file", raw.Name),
		zap.Int("rows", tbl.Len()),
		zap.Bool("has_profit", tbl.HasProfit),
		zap.Int("suggestions", len(list)),
	)
	return report.NewDocument(tbl, snap, list), nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report")
	reportCmd.Flags().BoolVar(&repJSON, "json", false, "emit JSON instead of Markdown")
	reportCmd.Flags().StringVar(&repSheetName, "sheet-name", "", "XLSX: sheet name to read")
	reportCmd.Flags().IntVar(&repSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	reportCmd.Flags().StringVar(&repDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	reportCmd.Flags().BoolVar(&repExtended, "extended", true, "include the client champion, hidden gem and membership mix suggestions")
}
