// Package errs defines the error kinds the rest of ggsum reports against.
// Fatal kinds carry a remediation hint so the CLI can tell the user what to
// fix instead of just what broke.
package errs

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel kinds. Callers classify with errors.Is.
var (
	ErrNotAGitRepository    = errors.New("not a git repository")
	ErrGitCommand           = errors.New("git command failed")
	ErrNoProviderConfigured = errors.New("no AI provider configured")
	ErrProviderExhausted    = errors.New("all AI providers exhausted")
	ErrMalformedCompletion  = errors.New("malformed completion")
	ErrExport               = errors.New("export failed")
	ErrAbortedByUser        = errors.New("aborted by user")
)

// NotAGitRepository reports that path is not inside a git work tree.
func NotAGitRepository(path string) error {
	return errors.WithHint(
		errors.Wrapf(ErrNotAGitRepository, "%s", path),
		"Run ggsum inside a git repository, or pass --path.",
	)
}

// GitCommand wraps a failed git invocation with its exit code and stderr.
func GitCommand(args []string, exitCode int, stderr string) error {
	return errors.Wrapf(ErrGitCommand, "git %s: exit %d: %s",
		strings.Join(args, " "), exitCode, strings.TrimSpace(stderr))
}

// NoProviderConfigured reports that no provider has credentials.
func NoProviderConfigured() error {
	return errors.WithHint(
		ErrNoProviderConfigured,
		"Set OPENROUTER_API_KEY (free keys at https://openrouter.ai/keys) or GEMINI_API_KEY (https://aistudio.google.com/apikey).",
	)
}

// AttemptError records the last error seen from one provider.
type AttemptError struct {
	Provider string
	Err      error
}

// ProviderExhausted reports terminal gateway failure, keeping the last error
// from each provider that was tried.
func ProviderExhausted(attempts []AttemptError) error {
	var parts []string
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return errors.WithHint(
		errors.Wrapf(ErrProviderExhausted, "%s", strings.Join(parts, "; ")),
		"Check your API keys and provider status, then retry.",
	)
}

// MalformedCompletion reports an empty or undecodable provider completion.
func MalformedCompletion(reason string) error {
	return errors.Wrapf(ErrMalformedCompletion, "%s", reason)
}

// Export wraps a failure from the markdown writer.
func Export(path string, err error) error {
	return errors.Wrapf(errors.WithSecondaryError(ErrExport, err), "writing %s", path)
}

// Hint returns the remediation hint attached to err, if any.
func Hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}
