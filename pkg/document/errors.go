package document

import (
	"fmt"

	"github.com/pkg/errors"
)

// LoadError reports that the document for a language could not be fetched or parsed.
type LoadError struct {
	Language string
	Target   string
	Err      error
}

func (e *LoadError) Error() (msg string) {
	msg = fmt.Sprintf("failed to load %s (language %q): %v", e.Target, e.Language, e.Err)
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() (err error) {
	err = e.Err
	return err
}

// IsLoadFailure reports whether err is, or wraps, a LoadError.
func IsLoadFailure(err error) (ok bool) {
	var loadErr *LoadError
	ok = errors.As(err, &loadErr)
	return ok
}

func newLoadError(lang, target string, cause error) (err error) {
	err = &LoadError{
		Language: lang,
		Target:   target,
		Err:      cause,
	}
	return err
}
