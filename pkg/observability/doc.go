/*
Package observability provides lifecycle hooks for monitoring presentation generation.

Metrics exports Prometheus counters and histograms per artifact, and LoggingHooks
writes one structured log line per artifact start and completion. Both plug into
the orchestrator via domain.LifecycleHooks and can be combined with Merge.
*/
package observability
