// Package validate checks whether links are reachable.
//
// A Checker sends one GET per link and records what happened in a
// model.Result. Whether that result counts as a dead link is decided later
// by model.Result.Dead under the configured model.StatusPolicy, so the
// checker never has to know the policy.
//
// The HTTP client is built by NewHTTPClient. It can route every request
// through a SOCKS5 proxy and sets the same User-Agent on every request,
// redirects included.
package validate
