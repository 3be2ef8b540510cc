package cmd

import (
	"context"
	"errors"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

// maxPages bounds --all so a huge history cannot run forever.
const maxPages = 100

// pageFlags are the paging options shared by listing commands.
type pageFlags struct {
	page  int
	limit int
	all   bool
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 0, "Page to fetch (1-based)")
	cmd.Flags().IntVar(&p.limit, "limit", 0, "Results per page")
	cmd.Flags().BoolVar(&p.all, "all", false, "Follow pagination and print every page")
}

func (p *pageFlags) options() lastfm.ListOptions {
	return lastfm.ListOptions{Page: p.page, Limit: p.limit}
}

// collect returns the items of first and, when all is set, of every page
// after it.
func collect[T any](ctx context.Context, first *lastfm.Collection[T], all bool) ([]T, error) {
	items := append([]T(nil), first.Items...)
	if !all {
		return items, nil
	}

	page := first
	for range maxPages - 1 {
		next, err := page.Next(ctx)
		if errors.Is(err, lastfm.ErrNoMorePages) {
			break
		}
		if err != nil {
			return items, err
		}
		if next.Len() == 0 {
			break
		}
		logger.Debug().Int("page", next.Page).Int("total_pages", next.TotalPages).Msg("fetched page")
		items = append(items, next.Items...)
		page = next
	}
	return items, nil
}

// list fetches a collection and prints it.
func list[T any](cmd *cobra.Command, p *pageFlags, columns []column[T],
	fetch func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[T], error)) error {
	ctx := cmd.Context()

	first, err := fetch(ctx, p.options())
	if err != nil {
		return err
	}
	items, err := collect(ctx, first, p.all)
	if err != nil {
		return err
	}
	return printItems(cmd.OutOrStdout(), format(), items, columns)
}
