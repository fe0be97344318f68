// Package ssrs fetches report feed content from a SQL Server Reporting
// Services instance.
//
// SSRS renders a report to an ATOM data feed when requested with
// rs:Format=ATOM. Each feed entry carries the report row's columns as
// property elements; the connector parses them into untyped field maps
// and leaves keying and typing to the core.
//
// # Architecture
//
// The package implements the [driven.Fetcher] port:
//
//   - Client: handles HTTP communication with timeout and throttling
//   - Fetcher: fetches a feed URL and parses entries
//
// # Rate Limiting
//
// Report servers are often shared, underpowered boxes. The client
// throttles proactively with a token bucket rather than reacting to
// server signals, because SSRS exposes no rate-limit headers.
//
// # Timeouts
//
// Every request carries an upper-bound timeout so a hung transport can
// never wedge a sync run or a connectivity test.
package ssrs
