package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikey/spam-classifier/internal/di"
	"github.com/mikey/spam-classifier/internal/text"
)

func newNormalizeCommand(flags *di.CLIFlags) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the normalized form of a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args, inputFile)
			if err != nil {
				return err
			}

			container, err := di.BuildNormalizeContainer(flags)
			if err != nil {
				return err
			}
			return container.Invoke(func(n *text.Normalizer) {
				fmt.Fprintln(cmd.OutOrStdout(), n.Normalize(input))
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the message from a file instead of stdin")

	return cmd
}
