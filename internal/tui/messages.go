package tui

// Message types for TUI state updates. Commands return them when their
// network call or storage read finishes.

// SessionRestoredMsg is sent once the persisted session has been read.
type SessionRestoredMsg struct{}

// SessionChangedMsg is sent when another process changed the session file.
type SessionChangedMsg struct{}

// ListLoadedMsg is sent after a list fetch (first page, retry or next page).
type ListLoadedMsg struct {
	Err error
}

// DetailLoadedMsg is sent after a detail fetch.
type DetailLoadedMsg struct {
	Err error
}

// SignInDoneMsg is sent when a sign-in attempt finishes.
type SignInDoneMsg struct {
	Err error
}

// SignUpDoneMsg is sent when a registration attempt finishes.
type SignUpDoneMsg struct {
	Notice string
	Err    error
}

// SignedOutMsg is sent once the session has been cleared.
type SignedOutMsg struct{}

// RegisteredRedirectMsg moves from the register form to login after the
// success notice has been shown.
type RegisteredRedirectMsg struct{}
