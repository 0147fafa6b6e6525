// Package metrics records crawl counters in a private Prometheus registry
// and exports them in the node_exporter textfile format.
package metrics
