package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "CMSFRONT_ADDRESS")
}

func cmsUsernameFlag(v *viper.Viper) string {
	return v.GetString("cms.username")
}

func addCMSUsernameFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("cms-username", "", "Directory user to read the site structure with")
	_ = v.BindPFlag("cms.username", flags.Lookup("cms-username"))
	_ = v.BindEnv("cms.username", "CMSFRONT_CMS_USERNAME")
}

func cmsPasswordFlag(v *viper.Viper) string {
	return v.GetString("cms.password")
}

func addCMSPasswordFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("cms-password", "", "Password of the directory user")
	_ = v.BindPFlag("cms.password", flags.Lookup("cms-password"))
	_ = v.BindEnv("cms.password", "CMSFRONT_CMS_PASSWORD")
}

func cmsTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("cms.timeout")
}

func addCMSTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("cms-timeout", 10*time.Second, "Timeout of requests against the CMS")
	_ = v.BindPFlag("cms.timeout", flags.Lookup("cms-timeout"))
	_ = v.BindEnv("cms.timeout", "CMSFRONT_CMS_TIMEOUT")
}

func sitesCacheTTLFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("sites.cache_ttl")
}

func addSitesCacheTTLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("sites-cache-ttl", 5*time.Minute, "Time the site structure is served from the cache")
	_ = v.BindPFlag("sites.cache_ttl", flags.Lookup("sites-cache-ttl"))
	_ = v.BindEnv("sites.cache_ttl", "CMSFRONT_SITES_CACHE_TTL")
}

func pollFlag(v *viper.Viper) bool {
	return v.GetBool("poll.enabled")
}

func addPollFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("poll", false, "If true, the site structure is periodically updated")
	_ = v.BindPFlag("poll.enabled", flags.Lookup("poll"))
	_ = v.BindEnv("poll.enabled", "CMSFRONT_POLL")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "CMSFRONT_POLL_INTERVAL")
}

func revalidateFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("revalidate")
}

func addRevalidateFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("revalidate", 5*time.Second, "Time a rendered page is served before it is rendered again")
	_ = v.BindPFlag("revalidate", flags.Lookup("revalidate"))
	_ = v.BindEnv("revalidate", "CMSFRONT_REVALIDATE")
}

func devModeFlag(v *viper.Viper) bool {
	return v.GetBool("dev_mode")
}

func addDevModeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("dev-mode", false, "Serve unknown hostnames, e.g. localhost, with the main site")
	_ = v.BindPFlag("dev_mode", flags.Lookup("dev-mode"))
	_ = v.BindEnv("dev_mode", "CMSFRONT_DEV_MODE")
}

func snapshotBucketFlag(v *viper.Viper) string {
	return v.GetString("snapshot.bucket")
}

func addSnapshotBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("snapshot-bucket", "file:///var/lib/cmsfront", "Bucket url of site structure snapshots (file://, gs://, mem://), empty to disable")
	_ = v.BindPFlag("snapshot.bucket", flags.Lookup("snapshot-bucket"))
	_ = v.BindEnv("snapshot.bucket", "CMSFRONT_SNAPSHOT_BUCKET")
}

func snapshotPrefixFlag(v *viper.Viper) string {
	return v.GetString("snapshot.prefix")
}

func addSnapshotPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("snapshot-prefix", "", "Key prefix of snapshots in the bucket")
	_ = v.BindPFlag("snapshot.prefix", flags.Lookup("snapshot-prefix"))
	_ = v.BindEnv("snapshot.prefix", "CMSFRONT_SNAPSHOT_PREFIX")
}

func snapshotLimitFlag(v *viper.Viper) int {
	return v.GetInt("snapshot.limit")
}

func addSnapshotLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("snapshot-limit", 2, "Number of snapshot versions to keep")
	_ = v.BindPFlag("snapshot.limit", flags.Lookup("snapshot-limit"))
	_ = v.BindEnv("snapshot.limit", "CMSFRONT_SNAPSHOT_LIMIT")
}

func widgetsConfigFlag(v *viper.Viper) string {
	return v.GetString("widgets.config")
}

func addWidgetsConfigFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("widgets-config", "", "YAML file of widget parameter defaults, empty for the built in ones")
	_ = v.BindPFlag("widgets.config", flags.Lookup("widgets-config"))
	_ = v.BindEnv("widgets.config", "CMSFRONT_WIDGETS_CONFIG")
}

func semanticEndpointFlag(v *viper.Viper) string {
	return v.GetString("semantic.endpoint")
}

func addSemanticEndpointFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("semantic-endpoint", "", "Semantic search backend, empty to disable")
	_ = v.BindPFlag("semantic.endpoint", flags.Lookup("semantic-endpoint"))
	_ = v.BindEnv("semantic.endpoint", "CMSFRONT_SEMANTIC_ENDPOINT")
}

func semanticAPIKeyFlag(v *viper.Viper) string {
	return v.GetString("semantic.api_key")
}

func addSemanticAPIKeyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("semantic-api-key", "", "Api key of the semantic search backend")
	_ = v.BindPFlag("semantic.api_key", flags.Lookup("semantic-api-key"))
	_ = v.BindEnv("semantic.api_key", "CMSFRONT_SEMANTIC_API_KEY")
}

func analyticsPropertyFlag(v *viper.Viper) string {
	return v.GetString("analytics.property")
}

func addAnalyticsPropertyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("analytics-property", "", "Analytics property id, empty to disable reports")
	_ = v.BindPFlag("analytics.property", flags.Lookup("analytics-property"))
	_ = v.BindEnv("analytics.property", "CMSFRONT_ANALYTICS_PROPERTY")
}

func analyticsCredentialsFlag(v *viper.Viper) string {
	return v.GetString("analytics.credentials")
}

func addAnalyticsCredentialsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("analytics-credentials", "", "Service account credentials file, empty for application default credentials")
	_ = v.BindPFlag("analytics.credentials", flags.Lookup("analytics-credentials"))
	_ = v.BindEnv("analytics.credentials", "CMSFRONT_ANALYTICS_CREDENTIALS")
}

func analyticsCacheFlag(v *viper.Viper) bool {
	return v.GetBool("analytics.cache")
}

func addAnalyticsCacheFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("analytics-cache", true, "Cache analytics reports")
	_ = v.BindPFlag("analytics.cache", flags.Lookup("analytics-cache"))
	_ = v.BindEnv("analytics.cache", "CMSFRONT_ANALYTICS_CACHE")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutting down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "CMSFRONT_GRACEFUL_PERIOD")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", 6, "Compression level of responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "CMSFRONT_GZIP_LEVEL")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}
