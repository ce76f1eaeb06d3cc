package country

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	gerrors "github.com/dbmrq/globe/internal/errors"
)

const (
	// DefaultConcurrency bounds parallel page fetches in FetchAll.
	DefaultConcurrency = 4

	// MaxPages is the largest last page FetchAll will follow.
	MaxPages = 10000
)

// Lister fetches one page of the country list.
type Lister interface {
	ListCountries(ctx context.Context, page int) (*Page, error)
}

// FetchAll downloads every page. Page 1 is fetched first to learn the last
// page; the rest are fetched concurrently and joined in page order.
func FetchAll(ctx context.Context, l Lister, concurrency int) ([]Summary, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	first, err := l.ListCountries(ctx, 1)
	if err != nil {
		return nil, err
	}
	last := first.Pagination.Last
	if last <= 1 {
		return append([]Summary(nil), first.Data...), nil
	}
	if last > MaxPages {
		return nil, gerrors.New(gerrors.ErrParse, fmt.Sprintf("backend reported %d pages, more than the %d allowed", last, MaxPages))
	}

	pages := make([][]Summary, last+1)
	pages[1] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for n := 2; n <= last; n++ {
		g.Go(func() error {
			p, err := l.ListCountries(gctx, n)
			if err != nil {
				return err
			}
			pages[n] = p.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Summary
	for _, data := range pages {
		all = append(all, data...)
	}
	return all, nil
}
