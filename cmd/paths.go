package cmd

import (
	"fmt"

	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/cmsapi"
	"github.com/foomo/cmsfront/pkg/utils"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewPathsCommand prints the pages to render ahead of the first request, one
// "<hostname> /<url>" per line
func NewPathsCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "paths <cms url>",
		Short: "Print the static paths of all sites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !utils.IsValidUrl(args[0]) {
				return errors.Errorf("invalid cms url %q", args[0])
			}
			client := cmsapi.New(zap.L(), args[0],
				cmsapi.WithHTTPClient(keelhttp.NewHTTPClient(
					keelhttp.HTTPClientWithTimeout(cmsTimeoutFlag(v)),
				)),
				cmsapi.WithCredentials(cmsUsernameFlag(v), cmsPasswordFlag(v)),
			)
			sites, err := client.Sites(cmd.Context())
			if err != nil {
				return err
			}
			for _, path := range cms.StaticPaths(sites) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s /%s\n", path.Site, path.URL)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addCMSUsernameFlag(flags, v)
	addCMSPasswordFlag(flags, v)
	addCMSTimeoutFlag(flags, v)

	return cmd
}
