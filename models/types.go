package models

import "time"

// Request types

type PostAuthorizeRequest struct {
	Instance string `json:"instance"`
}

type PostLiteratureRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	IsNsfw bool   `json:"isNsfw"`
}

// Response types

type PostAuthorizeResponse struct {
	URL string `json:"url"`
}

type GetEnabledResponse struct {
	Literature bool `json:"literature"`
	Art        bool `json:"art"`
}

type GetOpenedResponse struct {
	Opened  bool      `json:"opened"`
	OpenAt  time.Time `json:"openAt"`
	CloseAt time.Time `json:"closeAt"`
}

type CastVoteResponse struct {
	OK bool `json:"ok"`
}

type VoteState struct {
	Voted bool `json:"voted"`
	// VoteCount is the requesting voter's own vote total in the
	// submission's category, not the submission's tally.
	VoteCount int `json:"voteCount"`
}

// Domain types

type User struct {
	Handle   string `json:"handle"`
	Instance string `json:"instance"`
}

type LiteratureMetadata struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	IsNsfw         bool      `json:"isNsfw"`
	AuthorHandle   string    `json:"authorHandle"`
	AuthorInstance string    `json:"authorInstance"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Literature struct {
	LiteratureMetadata
	Text string `json:"text"`
}

type ArtMetadata struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	IsNsfw         bool      `json:"isNsfw"`
	AuthorHandle   string    `json:"authorHandle"`
	AuthorInstance string    `json:"authorInstance"`
	CreatedAt      time.Time `json:"createdAt"`
}

type LiteratureResult struct {
	LiteratureMetadata
	VoteCount int `json:"voteCount"`
}

type ArtResult struct {
	ArtMetadata
	VoteCount int `json:"voteCount"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
