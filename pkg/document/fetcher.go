package document

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// FetchTimeout bounds a single document fetch.
const FetchTimeout = 30 * time.Second

// Source fetches data-<lang>.json documents from a directory or an http(s) base URL.
type Source struct {
	location string
	baseURL  *url.URL
	client   *http.Client
	group    singleflight.Group
}

// NewSource creates a Source rooted at location.
func NewSource(location string) (source *Source, err error) {
	if location == "" {
		err = errors.New("data location is required")
		return source, err
	}

	source = &Source{
		location: location,
		client: &http.Client{
			Timeout: FetchTimeout,
		},
	}

	parsedURL, urlErr := url.Parse(location)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		source.baseURL = parsedURL
	}

	return source, err
}

// TargetName returns the document file name for a language code.
func TargetName(lang string) (name string) {
	name = "data-" + lang + ".json"
	return name
}

// LocalDir returns the directory documents are read from, when the source is local.
func (s *Source) LocalDir() (dir string, ok bool) {
	if s.baseURL != nil {
		return dir, ok
	}
	dir = s.location
	ok = true
	return dir, ok
}

// Target returns the full path or URL fetched for lang.
func (s *Source) Target(lang string) (target string) {
	if s.baseURL != nil {
		target = s.baseURL.JoinPath(TargetName(lang)).String()
		return target
	}
	target = filepath.Join(s.location, TargetName(lang))
	return target
}

// Fetch retrieves and parses the document for lang. Any failure is a *LoadError.
// Concurrent fetches of the same language share one underlying request.
func (s *Source) Fetch(ctx context.Context, lang string) (doc Document, err error) {
	target := s.Target(lang)

	if !validCode(lang) {
		err = newLoadError(lang, target, errors.Errorf("illegal language code %q", lang))
		return doc, err
	}

	// The shared request must not die with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(lang, func() (value interface{}, fetchErr error) {
		value, fetchErr = s.fetch(shared, target)
		return value, fetchErr
	})

	select {
	case <-ctx.Done():
		err = newLoadError(lang, target, ctx.Err())
		return doc, err
	case res := <-ch:
		if res.Err != nil {
			err = newLoadError(lang, target, res.Err)
			return doc, err
		}
		doc = res.Val.(Document)
	}

	return doc, err
}

// Forget makes the next Fetch of lang start a new request instead of joining
// one already in flight.
func (s *Source) Forget(lang string) {
	s.group.Forget(lang)
}

func (s *Source) fetch(ctx context.Context, target string) (doc Document, err error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	var data []byte
	if s.baseURL != nil {
		data, err = s.fetchFromURL(ctx, target)
	} else {
		data, err = fetchFromFile(target)
	}
	if err != nil {
		return doc, err
	}

	doc, err = Parse(data)
	return doc, err
}

// Parse decodes a document from JSON.
func Parse(data []byte) (doc Document, err error) {
	err = json.Unmarshal(data, &doc)
	if err != nil {
		err = errors.Wrap(err, "failed to parse document JSON")
		return doc, err
	}
	return doc, err
}

// fetchFromFile reads a document from disk.
func fetchFromFile(path string) (data []byte, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return data, err
	}
	return data, err
}

// fetchFromURL retrieves a document over HTTP.
func (s *Source) fetchFromURL(ctx context.Context, urlStr string) (data []byte, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return data, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "portfolio/1.0")

	var resp *http.Response
	resp, err = s.client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return data, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return data, err
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return data, err
	}

	return data, err
}

// validCode rejects codes that would escape the data location.
func validCode(lang string) (ok bool) {
	if lang == "" {
		return ok
	}
	if strings.ContainsAny(lang, `/\`) || strings.Contains(lang, "..") {
		return ok
	}
	ok = true
	return ok
}
