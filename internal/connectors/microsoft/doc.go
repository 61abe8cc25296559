// Package microsoft provides OAuth2 and Graph support for the Microsoft
// identity platform.
//
// This package provides:
//   - OAuth2 authorization-code handling against a single Entra ID tenant
//   - Outbound pacing for Microsoft Graph API requests
//   - Error mapping for Microsoft Graph API responses
//
// # OAuth2 Flow
//
// Endpoints are tenant specific:
//   - Auth URL: https://login.microsoftonline.com/{tenant}/oauth2/v2.0/authorize
//   - Token URL: https://login.microsoftonline.com/{tenant}/oauth2/v2.0/token
//
// The authorize request sets prompt=select_account so that a cached browser
// session does not silently pick the wrong account. The token request repeats
// the redirect URI and scopes used at authorize time; Entra ID requires an
// exact match.
//
// # Planner
//
// The planner subpackage reads plans, plan details and tasks through the
// Graph SDK, with a raw REST fallback for task listing.
//
// # Rate Limits
//
// Microsoft Graph allows approximately 10,000 requests per 10 minutes per app.
// Planner has tighter service limits, so requests are paced conservatively.
package microsoft
