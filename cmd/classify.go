package cmd

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/spf13/cobra"
)

var classifyRoot string

var classifyCmd = &cobra.Command{
	Use:   "classify <url>...",
	Short: "Classify links as External, Login, API or Page relative to a root domain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := strings.ToLower(strings.TrimSpace(classifyRoot))
		if root == "" {
			return fmt.Errorf("%w: --root", sharedErrors.ErrMissingRequired)
		}

		var result *multierror.Error
		out := cmd.OutOrStdout()
		for _, raw := range args {
			lt, err := sitegraph.ClassifyLink(raw, root)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", formatLinkTypeWithColor(lt), raw)
		}
		return result.ErrorOrNil()
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyRoot, "root", "", "root domain links are judged against")
	_ = classifyCmd.MarkFlagRequired("root")
}
