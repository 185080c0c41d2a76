package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/tcapi/internal/http"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// page is a TeamCity list response that may link to a following page.
type page[T any] interface {
	items() []T
	next() string
}

type buildsPage tcapi.Builds

func (p *buildsPage) items() []tcapi.Build { return p.Build }
func (p *buildsPage) next() string         { return p.NextHref }

type changesPage tcapi.Changes

func (p *changesPage) items() []tcapi.Change { return p.Change }
func (p *changesPage) next() string          { return p.NextHref }

// pageWalker fetches a list and follows nextHref links. Pages are fetched
// sequentially since each link is only known once the previous page arrives.
type pageWalker[T any, P any, PP interface {
	*P
	page[T]
}] struct {
	httpClient *http.Client
	noun       string
}

// collect returns the items of every page in page order. nextHref values are
// requested verbatim; the transport does not re-root them.
func (w pageWalker[T, P, PP]) collect(ctx context.Context, path string, query url.Values, opts *tcapi.ListOptions) ([]T, error) {
	if opts == nil {
		opts = tcapi.DefaultListOptions()
	}

	items := make([]T, 0)

	for pageNumber := 1; ; pageNumber++ {
		resp, err := w.httpClient.Get(ctx, path, query)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", w.noun, err)
		}

		current := PP(new(P))

		err = json.Unmarshal(resp.Body, current)
		if err != nil {
			return nil, fmt.Errorf("parsing %s list response: %w", w.noun, err)
		}

		items = append(items, current.items()...)

		if !opts.Paginate || current.next() == "" {
			break
		}

		if opts.MaxPages > 0 && pageNumber >= opts.MaxPages {
			break
		}

		path, query = current.next(), nil
	}

	return items, nil
}
