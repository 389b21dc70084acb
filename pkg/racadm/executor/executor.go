// Package executor runs the racadm binary and captures what it prints
package executor

import (
	"context"
	"strings"
)

// Result is what a finished racadm process left behind
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor launches a program with arguments. An error means the program
// could not be started or reached; a program that ran and failed is reported
// through the Result.
type Executor interface {
	Execute(ctx context.Context, program string, args []string) (*Result, error)
}

// Uploader copies a local file to the machine racadm runs on
type Uploader interface {
	UploadFile(ctx context.Context, localPath, remotePath string) error
}

// Redact masks the value following every -p flag so argument lists can be logged
func Redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "-p" {
			out[i+1] = "********"
			i++
		}
	}
	return out
}

// ShellQuote joins program and args into one POSIX shell command line
func ShellQuote(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(program))
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=@,+%", r)
}

func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}
