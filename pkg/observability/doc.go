/*
Package observability turns walkthrough lifecycle hooks into Prometheus metrics and
structured log records.

Both Metrics.Hooks and LogHooks return domain.LifecycleHooks, so they compose with
user hooks through LifecycleHooks.Merge.
*/
package observability
