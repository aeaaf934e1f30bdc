package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned by Read when no file is given and stdin is a
// terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f flag or pipe JSON input")

// FileReader decodes a JSON document of type T from the file named by its
// -f flag, or from stdin when the flag is unset.
type FileReader[T any] struct {
	fileFlagValue string

	// Stdin overrides os.Stdin. A non-file reader is always treated as piped
	// input.
	Stdin io.Reader
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Available reports whether Read has something to read: a file was named
// or stdin is not a terminal.
func (fr *FileReader[T]) Available() bool {
	return fr.fileFlagValue != "" || !isTerminal(fr.stdin())
}

func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		stdin := fr.stdin()
		if isTerminal(stdin) {
			return input, ErrNoInput
		}
		reader = stdin
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}

func (fr *FileReader[T]) stdin() io.Reader {
	if fr.Stdin != nil {
		return fr.Stdin
	}
	return os.Stdin
}

// IsTerminal reports whether r is a terminal file descriptor.
func IsTerminal(r io.Reader) bool {
	return isTerminal(r)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
