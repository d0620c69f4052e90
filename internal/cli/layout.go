package cli

import (
	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/internal/server/api"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print a keyboard layout as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := layout.ParseVariant(layoutName)
		if err != nil {
			return err
		}
		l, err := layout.ForVariant(variant)
		if err != nil {
			return err
		}
		printJson(api.NewLayoutView(l))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)

	layoutCmd.Flags().StringVar(&layoutName, "variant", string(layout.VariantExtended), "keyboard layout (basic or extended)")
}
