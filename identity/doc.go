// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity bridges login against federated fediverse instances.

# Login Flow

BeginAuthorization takes whatever the user typed ("name@host" or a bare
domain), discovers what software the instance runs via NodeInfo, makes
sure an app is registered there, and returns the URL to redirect the
browser to plus a single-use state token:

	url, state, err := bridge.BeginAuthorization(ctx, "alice@fedi.example")

CompleteAuthorization consumes the state, exchanges the callback code
with the instance, fetches the account handle, and mints a session:

	credential, ident, err := bridge.CompleteAuthorization(ctx, code, state)

The instance half of the resulting Identity is always the domain the
user typed. Instances are mutually untrusting; nothing an instance
returns can claim an identity on another instance.

# Providers

Two protocol families cover the fediverse:

  - mastodonProvider: standard OAuth 2 (mastodon, pleroma, akkoma, ...)
  - misskeyProvider: Misskey app-auth (misskey, cherrypick, castella, sharkey)

Dispatch is by the software name in the instance's NodeInfo document.
App credentials are registered once per instance and cached in the
database.

# Sessions

Sessions are HS256 JWTs whose jti matches a session row. Resolve checks
the signature, the expiry, and the row, so Logout (which deletes the
row) truly revokes a credential even before the JWT expires:

	ident, err := bridge.Resolve(ctx, credential) // nil, nil when logged out

# Errors

  - ErrInvalidDomain: the typed domain is not a plausible host
  - ErrDiscoveryFailed: no compliant NodeInfo document (or registration failed)
  - ErrStateMismatch: unknown, expired, or replayed state token
  - ErrExchangeFailed: the instance rejected the code exchange
*/
package identity
