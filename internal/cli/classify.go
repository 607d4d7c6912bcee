package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/filter"
	"github.com/mikey/spam-classifier/internal/di"
)

func newClassifyCommand(flags *di.CLIFlags) *cobra.Command {
	var (
		inputFile string
		isEmail   bool
	)

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify a message",
		Long: `Classify a message given as arguments, read from a file or from stdin.

With --email the input is parsed as an RFC 5322 message and its subject and
text/plain body are classified together.

Examples:
  spam-detector classify "See you at lunch"
  spam-detector classify --file sms.txt
  spam-detector classify --email < message.eml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.BuildCLIContainer(flags)
			if err != nil {
				return err
			}

			return container.Invoke(func(cli *filter.CliFilter, logger *zap.Logger) error {
				defer logger.Sync()
				cli.SetOutput(cmd.OutOrStdout())

				input, err := readInput(cmd, args, inputFile)
				if err != nil {
					return err
				}

				ctx := context.Background()
				if isEmail {
					_, err = cli.ProcessEmail(ctx, strings.NewReader(input))
					return err
				}
				_, err = cli.ProcessMessage(ctx, input)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the message from a file instead of stdin")
	cmd.Flags().BoolVar(&isEmail, "email", false, "parse the input as an email message")

	return cmd
}
