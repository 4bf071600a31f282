package schema

import (
	"context"
	"strings"
)

// Resolver fetches the textual content of a schema document by URL.
type Resolver func(ctx context.Context, url string) (string, error)

// Route returns a resolver dispatching on URL scheme: http and https go
// to the HTTP store, everything else to the file store. Either store may
// be nil, in which case URLs for it fail.
func Route(files *FileStore, web *HTTPStore) Resolver {
	return func(ctx context.Context, url string) (string, error) {
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
			if web == nil {
				return "", &UnsupportedSchemeError{URL: url}
			}
			return web.Resolve(ctx, url)
		}
		if files == nil {
			return "", &UnsupportedSchemeError{URL: url}
		}
		return files.Resolve(ctx, url)
	}
}

// UnsupportedSchemeError indicates no store handles the URL's scheme.
type UnsupportedSchemeError struct {
	URL string
}

// Error implements the error interface.
func (e *UnsupportedSchemeError) Error() string {
	return "no schema store for " + e.URL
}
