// Package iocli abstracts terminal input and output for CLI commands.
package iocli

//go:generate moq -out io_mock.go . IO

// IO is the console used by CLI commands
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	// ReadSecret reads a line without echo when input is a terminal
	ReadSecret(prompt string) (string, error)
	// ReadAll reads the rest of the input, e.g. a note body piped into the command
	ReadAll() (string, error)
	Write(p []byte) (n int, err error)
}
