// Package atomsvc parses SSRS "ATOMSVC" report-subscription documents
// and raw ATOM feeds into classified feed descriptor candidates.
//
// SSRS exports a service document listing one or more report
// subscriptions (collections) with report URLs. Tag names are matched
// case-insensitively because report servers are not consistent about
// casing, and href values arrive HTML-entity-encoded on top of the XML
// encoding, so they are decoded once more before use.
package atomsvc
