package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentic-research/autobake/internal/bake"
	"github.com/agentic-research/autobake/internal/scenefile"
)

var validateObject string

var validateCmd = &cobra.Command{
	Use:   "validate [scene.hcl]",
	Short: "Check that a scene's active object can be baked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, _, err := scenefile.Load(args[0])
		if err != nil {
			return err
		}
		if validateObject != "" {
			if err := selectObject(sc, validateObject); err != nil {
				return err
			}
		}

		rep := bake.NewReporter(slog.Default())
		bctx, err := bake.Validate(sc, rep)
		if err != nil {
			return err
		}
		fmt.Printf("%q with material %q is bakeable.\n", bctx.Model.Name, bctx.Material.Name)
		for _, m := range rep.Messages() {
			if m.Severity == bake.SeverityWarning {
				fmt.Printf("  warning: %s\n", m.Text)
			}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateObject, "object", "", "Validate this object instead of the document's active one")
	rootCmd.AddCommand(validateCmd)
}
