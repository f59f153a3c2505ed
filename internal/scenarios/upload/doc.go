// Package upload holds the browser scenarios for the file upload page.
// They run against in-process doubles of both drop zone variants unless
// PROBE_LIVE is set, in which case the configured page is used.
package upload
