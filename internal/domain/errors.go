package domain

import "errors"

var (
	// ErrNoFileSelected is returned when a search is submitted before a file is chosen
	ErrNoFileSelected = errors.New("no file selected")

	// ErrSearchFailed is the catch-all returned to callers when a search does not produce results
	ErrSearchFailed = errors.New("search failed")

	// ErrSearchSuperseded is returned when a newer search started before this one finished
	ErrSearchSuperseded = errors.New("search superseded by a newer submission")

	// ErrSearchAPIFailure is returned when the search backend cannot be reached
	ErrSearchAPIFailure = errors.New("search API request failed")

	// ErrUnexpectedStatus is returned when the search backend answers with a non-2xx status
	ErrUnexpectedStatus = errors.New("search API returned unexpected status")

	// ErrMalformedResponse is returned when the search response body cannot be decoded
	ErrMalformedResponse = errors.New("malformed search response")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrRateLimited is returned when a client exceeds its search rate
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnsupportedImage is returned when a file does not pass the image picker filter
	ErrUnsupportedImage = errors.New("unsupported image type")
)
