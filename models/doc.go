// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - PostAuthorizeRequest: instance
  - PostLiteratureRequest: title, text, isNsfw

(Art submissions arrive as multipart form data, not JSON.)

# Response Types

  - PostAuthorizeResponse: url
  - GetEnabledResponse: literature, art
  - GetOpenedResponse: opened, openAt, closeAt
  - CastVoteResponse: ok
  - VoteState: voted, voteCount (the requester's own spent votes)
  - ErrorResponse: error, message

# Domain Types

  - User: handle, instance
  - LiteratureMetadata / Literature (metadata plus full text)
  - ArtMetadata (adds description; image bytes served separately)
  - LiteratureResult / ArtResult (metadata plus voteCount)

All JSON field names are camelCase, matching the web client.
*/
package models
