package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/pkg/config"
)

const defaultDesignFile = "design.toml"

// initCommand writes an example design file to start from.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write an example design file",
		Long: `Write an example design file (benzene-toluene, constant relative volatility)
to design.toml or the given path. Use - to print it instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDesignFile
			if len(args) > 0 {
				path = args[0]
			}
			if path != "-" && !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			data, err := config.Example().Bytes()
			if err != nil {
				return err
			}
			if err := writeArtifact(path, data); err != nil {
				return err
			}
			if path == "-" {
				return nil
			}

			printSuccess("Wrote example design")
			printFile(path)
			printNewline()
			printNextStep("Solve it", fmt.Sprintf("%s solve %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
