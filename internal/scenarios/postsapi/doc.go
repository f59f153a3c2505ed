// Package postsapi holds the end-to-end scenarios for the /posts resource.
// They run against an in-process double unless PROBE_LIVE is set.
package postsapi
