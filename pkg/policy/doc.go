// Package policy evaluates cross-key rules against a resolved
// configuration before it is emitted.
//
// Per-key type constraints live in the template; policies cover what a
// single key cannot express: https demands a certificate folder, an
// enabled LDAP login demands an LDAP URL, a poll interval below a
// sensible floor deserves a warning. Rules are written in Rego and
// evaluated with OPA against an input document of the form
//
//	{"config": {"HTTP_TYPE": "https", ...}}
//
// where each policy contributes a deny set of violation objects with
// message, key, and severity fields. Built-in policies cover the known
// Broadsea pitfalls; additional .rego files can be loaded from disk.
//
// Policies run in one of two modes: advisory, where violations are
// logged and the render proceeds, and enforcing, where error-severity
// violations abort the run.
package policy
