package cli

import "errors"

// ErrPromptCancelled indicates that the user aborted an interactive prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// ErrRejected marks a request refused before any file was touched. Its
// report has already been written when the command returns it.
var ErrRejected = errors.New("request rejected")
