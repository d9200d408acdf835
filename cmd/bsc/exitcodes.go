package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no project, invalid bibscope.yml)
	ExitDataError   = 3 // Data error (missing input, unreadable .bib file)
)
