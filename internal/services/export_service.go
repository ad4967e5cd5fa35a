// Package services holds the business logic that sits between the HTTP
// layer and the WeRead client.
package services

import (
	"context"
	"fmt"

	"github.com/mrlokans/weread-exporter/internal/export"
	"github.com/mrlokans/weread-exporter/internal/weread"
)

// ExportService runs a full notebook export for one cookie: it builds the
// session, probes connectivity, then drives the aggregation pipeline.
type ExportService struct {
	client    *weread.Client
	opts      export.Options
	metrics   *export.Metrics
	userAgent string
}

// NewExportService creates an export service. Metrics may be nil. An empty
// userAgent falls back to the client default.
func NewExportService(client *weread.Client, opts export.Options, metrics *export.Metrics, userAgent string) *ExportService {
	return &ExportService{
		client:    client,
		opts:      opts,
		metrics:   metrics,
		userAgent: userAgent,
	}
}

// Metrics exposes the service's metric collectors for HTTP scraping.
func (s *ExportService) Metrics() *export.Metrics {
	return s.metrics
}

// Run exports every book in the account behind the cookie. A non-empty
// userAgent takes precedence over the configured one, so web callers keep
// their own browser identity. The returned error distinguishes a bad
// cookie (weread.ErrEmptyCookie), an unreachable site (wrapped
// weread.ErrWarmup), and pipeline failures.
func (s *ExportService) Run(ctx context.Context, cookie, userAgent string, sink export.ProgressSink) (*export.Batch, error) {
	if sink == nil {
		sink = export.NoopSink{}
	}
	if userAgent == "" {
		userAgent = s.userAgent
	}

	sess, err := weread.NewSession(cookie, userAgent)
	if err != nil {
		return nil, err
	}

	sink.Notify(export.Event{Status: export.StatusConnecting, Message: "Connecting to WeRead"})
	if err := s.client.Warmup(ctx, sess); err != nil {
		return nil, fmt.Errorf("connectivity probe failed: %w", err)
	}

	pipeline := export.NewPipeline(s.client, s.opts, s.metrics)
	return pipeline.Run(ctx, sess, sink)
}
