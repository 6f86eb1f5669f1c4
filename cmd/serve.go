package cmd

import (
	"context"

	"github.com/foomo/cmsfront/pkg/analytics"
	"github.com/foomo/cmsfront/pkg/cache"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/cmsapi"
	"github.com/foomo/cmsfront/pkg/handler"
	"github.com/foomo/cmsfront/pkg/page"
	"github.com/foomo/cmsfront/pkg/semantic"
	"github.com/foomo/cmsfront/pkg/sites"
	"github.com/foomo/cmsfront/pkg/snapshot"
	"github.com/foomo/cmsfront/pkg/utils"
	"github.com/foomo/cmsfront/pkg/widgets"
	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func NewServeCommand() *cobra.Command {
	v := newViper()
	service.DefaultHTTPPProfAddr = ":6060"

	cmd := &cobra.Command{
		Use:   "serve <cms url>",
		Short: "Serve pages of the CMS sites",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You must specify the base URL of the CMS api")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !utils.IsValidUrl(args[0]) {
				return errors.Errorf("invalid cms url %q", args[0])
			}

			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
				keel.WithHTTPPProfService(servicePProfEnabledFlag(v)),
			)

			l := svr.Logger()

			httpClient := keelhttp.NewHTTPClient(
				keelhttp.HTTPClientWithTimeout(cmsTimeoutFlag(v)),
				keelhttp.HTTPClientWithTelemetry(),
			)

			cmsClient := cmsapi.New(l.Named("inst.cmsapi"), args[0],
				cmsapi.WithHTTPClient(httpClient),
				cmsapi.WithCredentials(cmsUsernameFlag(v), cmsPasswordFlag(v)),
			)

			sitesOpts := []sites.Option{
				sites.WithTTL(sitesCacheTTLFlag(v)),
				sites.WithPoll(pollFlag(v)),
				sites.WithPollInterval(pollIntervalFlag(v)),
			}
			if bucket := snapshotBucketFlag(v); bucket != "" {
				store, err := snapshot.Open(cmd.Context(), l.Named("inst.snapshot"), bucket,
					snapshot.WithPrefix(snapshotPrefixFlag(v)),
					snapshot.WithLimit(snapshotLimitFlag(v)),
				)
				if err != nil {
					return err
				}
				svr.AddClosers(func(ctx context.Context) error {
					return store.Close()
				})
				sitesOpts = append(sitesOpts, sites.WithSnapshots(store))
			}
			repo := sites.New(l.Named("inst.sites"), cmsClient, cache.New(l, "sites"), sitesOpts...)

			widgetsConfig, err := widgets.Load(widgetsConfigFlag(v))
			if err != nil {
				return err
			}

			shaper := cms.New(l.Named("inst.cms"))
			pageOpts := []page.Option{
				page.WithWidgets(widgetsConfig),
				page.WithDevMode(devModeFlag(v)),
				page.WithRevalidate(revalidateFlag(v)),
			}
			if endpoint := semanticEndpointFlag(v); endpoint != "" {
				pageOpts = append(pageOpts, page.WithSemantic(semantic.New(l.Named("inst.semantic"), endpoint,
					semantic.WithAPIKey(semanticAPIKeyFlag(v)),
					semantic.WithHTTPClient(httpClient),
				)))
			}
			pages := page.New(l.Named("inst.page"), cmsClient, repo, shaper, cache.New(l, "pages"), pageOpts...)

			handlerOpts := []handler.HTTPOption{handler.WithPolls(cmsClient)}
			if property := analyticsPropertyFlag(v); property != "" {
				var clientOpts []option.ClientOption
				if credentials := analyticsCredentialsFlag(v); credentials != "" {
					clientOpts = append(clientOpts, option.WithCredentialsFile(credentials))
				}
				runner, err := analytics.NewRunner(cmd.Context(), clientOpts...)
				if err != nil {
					return err
				}
				handlerOpts = append(handlerOpts, handler.WithAnalytics(analytics.New(l.Named("inst.analytics"), runner, cache.New(l, "analytics"), shaper, property,
					analytics.WithCacheEnabled(analyticsCacheFlag(v)),
				)))
			}

			isAvailableHealthzerFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !repo.Available() {
					return errors.New("site structure not available yet")
				}
				return nil
			})
			// a restored snapshot is enough to serve
			svr.AddStartupHealthzers(isAvailableHealthzerFn)
			svr.AddReadinessHealthzers(isAvailableHealthzerFn)

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.sites"), "sites", func(ctx context.Context, l *zap.Logger) error {
					return repo.Start(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					handler.NewHTTP(l.Named("inst.handler"), pages, repo, handlerOpts...),
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v)
	addCMSUsernameFlag(flags, v)
	addCMSPasswordFlag(flags, v)
	addCMSTimeoutFlag(flags, v)
	addSitesCacheTTLFlag(flags, v)
	addPollFlag(flags, v)
	addPollIntervalFlag(flags, v)
	addRevalidateFlag(flags, v)
	addDevModeFlag(flags, v)
	addSnapshotBucketFlag(flags, v)
	addSnapshotPrefixFlag(flags, v)
	addSnapshotLimitFlag(flags, v)
	addWidgetsConfigFlag(flags, v)
	addSemanticEndpointFlag(flags, v)
	addSemanticAPIKeyFlag(flags, v)
	addAnalyticsPropertyFlag(flags, v)
	addAnalyticsCredentialsFlag(flags, v)
	addAnalyticsCacheFlag(flags, v)
	addGracefulPeriodFlag(flags, v)
	addGzipLevelFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)
	addServicePProfEnabledFlag(flags, v)

	return cmd
}
