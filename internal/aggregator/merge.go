package aggregator

import (
	"cmp"
	"slices"

	"feedhub/internal/domain"
)

// MergeOptions controls the merge.
type MergeOptions struct {
	// CutOff truncates the merged sequence to the size of the smallest
	// per-account result, counting accounts that returned nothing.
	CutOff bool
}

// MergeResult is the merged feed and the resumption state of every
// queried account, in request order.
type MergeResult[T domain.Item] struct {
	Items      []T
	Pagination []domain.PaginationEntry
}

type tagged[T domain.Item] struct {
	item  T
	set   int
	index int
}

// Merge combines per-account results into one sequence ordered newest first.
//
// Items with equal timestamps are ordered by account ID and then by their
// position in the adapter's answer, so an account's own order is never
// changed by the merge.
//
// For every account, since is the cursor of its newest fetched item and
// until is the cursor of its oldest item that survived the cut-off. An
// account that lost all of its items to the cut-off gets the cursor of its
// newest fetched item as until. An account that fetched nothing gets no
// until and echoes the since it was asked with.
func Merge[T domain.Item](sets []AccountItems[T], opts MergeOptions) MergeResult[T] {
	total := 0
	for _, s := range sets {
		total += len(s.Items)
	}

	working := make([]tagged[T], 0, total)
	for si, s := range sets {
		for ii, item := range s.Items {
			working = append(working, tagged[T]{item: item, set: si, index: ii})
		}
	}

	slices.SortStableFunc(working, func(a, b tagged[T]) int {
		if c := b.item.ItemCreatedAt().Compare(a.item.ItemCreatedAt()); c != 0 {
			return c
		}
		if c := cmp.Compare(sets[a.set].AccountID, sets[b.set].AccountID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.set, b.set); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	if opts.CutOff && len(sets) > 0 {
		minLen := len(sets[0].Items)
		for _, s := range sets[1:] {
			minLen = min(minLen, len(s.Items))
		}
		working = working[:minLen]
	}

	kept := make([]int, len(sets))
	oldest := make([]domain.Cursor, len(sets))
	items := make([]T, 0, len(working))
	for _, t := range working {
		kept[t.set]++
		oldest[t.set] = t.item.SinceCursor()
		items = append(items, t.item)
	}

	pagination := make([]domain.PaginationEntry, 0, len(sets))
	for si, s := range sets {
		entry := domain.PaginationEntry{
			ProviderID: s.AccountID,
			Since:      s.Since,
		}
		if len(s.Items) > 0 {
			entry.Since = s.Items[0].SinceCursor()
			if kept[si] > 0 {
				entry.Until = oldest[si]
			} else {
				entry.Until = s.Items[0].SinceCursor()
			}
		}
		pagination = append(pagination, entry)
	}

	return MergeResult[T]{Items: items, Pagination: pagination}
}
