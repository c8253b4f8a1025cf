package cmd

import (
	"fmt"

	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/spf13/cobra"
)

var subdomainsJSON bool

var subdomainsCmd = &cobra.Command{
	Use:   "subdomains <domain>",
	Short: "List known subdomains of a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		domain, err := sitegraph.NormalizeDomain(args[0])
		if err != nil {
			return &InvalidDomainError{Input: args[0], Err: err}
		}

		names, err := newSubdomainSource(appCtx.Config).Subdomains(commandContext(cmd), domain)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if subdomainsJSON {
			return renderJSON(out, names)
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d subdomains for %s\n", colorInfo("→"), len(names), domain)
		return nil
	},
}

func init() {
	subdomainsCmd.Flags().BoolVar(&subdomainsJSON, "json", false, "print the list as a JSON array")
}
