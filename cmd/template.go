package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dashwise-cli/internal/demo"
	"github.com/KaramelBytes/dashwise-cli/internal/utils"
)

var tmplOutputPath string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a one-row workbook with the expected columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := currentConfig().Location()
		if err != nil {
			return err
		}
		b, err := demo.TemplateWorkbook(time.Now().In(loc))
		if err != nil {
			return fmt.Errorf("build template: %w", err)
		}
		if err := utils.SafeWriteFile(tmplOutputPath, b); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote template to %s\n", tmplOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVarP(&tmplOutputPath, "output", "o", "gym_template.xlsx", "path of the workbook to write")
}
