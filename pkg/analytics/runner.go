package analytics

import (
	"context"

	"github.com/pkg/errors"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

// Runner runs reports against the analytics data api
type Runner interface {
	RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error)
	BatchRunReports(ctx context.Context, property string, req *analyticsdata.BatchRunReportsRequest) (*analyticsdata.BatchRunReportsResponse, error)
	RunRealtimeReport(ctx context.Context, property string, req *analyticsdata.RunRealtimeReportRequest) (*analyticsdata.RunRealtimeReportResponse, error)
}

type apiRunner struct {
	properties *analyticsdata.PropertiesService
}

// NewRunner a Runner backed by the analytics data api
func NewRunner(ctx context.Context, opts ...option.ClientOption) (Runner, error) {
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create analytics data service")
	}
	return &apiRunner{properties: svc.Properties}, nil
}

func (r *apiRunner) RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return r.properties.RunReport(property, req).Context(ctx).Do()
}

func (r *apiRunner) BatchRunReports(ctx context.Context, property string, req *analyticsdata.BatchRunReportsRequest) (*analyticsdata.BatchRunReportsResponse, error) {
	return r.properties.BatchRunReports(property, req).Context(ctx).Do()
}

func (r *apiRunner) RunRealtimeReport(ctx context.Context, property string, req *analyticsdata.RunRealtimeReportRequest) (*analyticsdata.RunRealtimeReportResponse, error) {
	return r.properties.RunRealtimeReport(property, req).Context(ctx).Do()
}
