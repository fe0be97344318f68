// Package connectors holds transport implementations for external report
// servers. The ssrs subpackage implements the driven.Fetcher port over
// SSRS ATOM data feeds.
package connectors
