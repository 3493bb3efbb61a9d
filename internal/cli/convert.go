package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/transform"
	"github.com/mrz1836/go-template-sync/internal/validation"
)

// conversionKinds labels the rules of a conversion set in creation order
//
//nolint:gochecknoglobals // fixed labels matching transform.CreateConversions
var conversionKinds = []string{"literal", "joined", "snake", "camel", "pascal"}

// createConvertCmd creates the convert command
func createConvertCmd(_ *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <from-name> <to-name> [text...]",
		Short: "Show the identifier conversions for a name pair",
		Long: `Print the conversion rules derived from two hyphenated project names and,
when text is given, the text with every rule applied in order.

Pass "-" as the text to read it from standard input.`,
		Example: `  # Show the rules
  go-template-sync convert go-template my-service

  # Convert a line of text
  go-template-sync convert go-template my-service "import go_template.GoTemplate"

  # Convert a file
  go-template-sync convert go-template my-service - < main.go`,
		Aliases: []string{"c"},
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newWriter(cmd)
			fromName, toName := args[0], args[1]

			if err := validation.ValidateProjectName("from-name", fromName); err != nil {
				return err
			}
			if err := validation.ValidateProjectName("to-name", toName); err != nil {
				return err
			}

			conversions := transform.CreateConversions(fromName, toName)

			out.Info("Conversions:")
			for i, c := range conversions {
				out.Plainf("  %-8s %s -> %s", conversionKinds[i], c.From, c.To)
			}
			if err := conversions.Validate(); err != nil {
				out.Warnf("Conversions are not stable when applied twice: %v", err)
			}

			text, err := convertInput(cmd.InOrStdin(), args[2:])
			if err != nil {
				return err
			}
			if text == "" {
				return nil
			}

			out.Info("Converted:")
			out.Plain(transform.Convert(conversions, text))
			return nil
		},
	}
}

// convertInput joins args with spaces, or reads stdin when the only arg is "-"
func convertInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	}
	return strings.Join(args, " "), nil
}
