package notes

import (
	"sort"

	"github.com/mrlokans/weread-exporter/internal/weread"
)

// Merge combines the raw highlight and note records for one book into a
// single sequence ordered by reading position, then resolves every
// record's chapter title from the chapter table.
//
// Only type-1 bookmarks are highlights; everything else the provider mixes
// into the bookmark list is discarded. Highlights come before notes in the
// pre-sort concatenation, and the sort is stable, so same-position records
// keep the provider's relative order. Duplicates appearing in both sources
// are kept, matching the provider's own exports.
func Merge(bookmarks []weread.Bookmark, reviews []weread.ReviewBody, chapters map[int]weread.Chapter) []Annotation {
	merged := make([]Annotation, 0, len(bookmarks)+len(reviews))

	for _, b := range bookmarks {
		if b.Type != 1 {
			continue
		}
		merged = append(merged, fromBookmark(b))
	}
	for _, r := range reviews {
		merged = append(merged, fromReview(r))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].ChapterUID != merged[j].ChapterUID {
			return merged[i].ChapterUID < merged[j].ChapterUID
		}
		return merged[i].rangeStart() < merged[j].rangeStart()
	})

	for i := range merged {
		merged[i].ChapterTitle = chapters[merged[i].ChapterUID].Title
	}

	return merged
}
