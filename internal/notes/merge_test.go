package notes

import (
	"testing"

	"github.com/mrlokans/weread-exporter/internal/weread"
)

func highlight(chapterUID int, rng, text string) weread.Bookmark {
	return weread.Bookmark{ChapterUID: chapterUID, Range: rng, MarkText: text, Type: 1}
}

func note(chapterUID int, rng, content string) weread.ReviewBody {
	return weread.ReviewBody{ChapterUID: chapterUID, Range: rng, Content: content, ReviewID: "r-" + content}
}

func texts(annotations []Annotation) []string {
	out := make([]string, len(annotations))
	for i, a := range annotations {
		out[i] = a.Text()
	}
	return out
}

func TestMerge_OrdersByChapterThenRangeStart(t *testing.T) {
	bookmarks := []weread.Bookmark{
		highlight(2, "50-60", "c2 late"),
		highlight(1, "10-20", "c1"),
		highlight(2, "5-9", "c2 early"),
	}

	merged := Merge(bookmarks, nil, nil)

	want := []string{"c1", "c2 early", "c2 late"}
	got := texts(merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestMerge_EmptyRangeSortsFirstWithinChapter(t *testing.T) {
	bookmarks := []weread.Bookmark{
		highlight(1, "10-20", "positioned"),
		highlight(1, "", "unpositioned"),
	}

	merged := Merge(bookmarks, nil, nil)

	if merged[0].Text() != "unpositioned" || merged[1].Text() != "positioned" {
		t.Errorf("expected empty range to sort first, got %v", texts(merged))
	}
}

func TestMerge_MalformedRangeFallsBackToZero(t *testing.T) {
	bookmarks := []weread.Bookmark{
		highlight(1, "7-9", "numeric"),
		highlight(1, "abc-9", "alpha prefix"),
		highlight(1, "noseparator", "no separator"),
	}

	merged := Merge(bookmarks, nil, nil)

	// Malformed ranges sort as position 0, before the numeric one, keeping
	// their relative input order.
	want := []string{"alpha prefix", "no separator", "numeric"}
	got := texts(merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestMerge_IsStableForEqualKeys(t *testing.T) {
	bookmarks := []weread.Bookmark{
		highlight(3, "100-110", "first highlight"),
		highlight(3, "100-120", "second highlight"),
	}
	reviews := []weread.ReviewBody{
		note(3, "100-115", "interleaved note"),
	}

	merged := Merge(bookmarks, reviews, nil)

	// Equal (chapterUid, rangeStart) keys preserve highlights-then-notes
	// concatenation order.
	want := []string{"first highlight", "second highlight", "interleaved note"}
	got := texts(merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stable order %v, got %v", want, got)
		}
	}
}

func TestMerge_DiscardsNonHighlightBookmarks(t *testing.T) {
	bookmarks := []weread.Bookmark{
		highlight(1, "1-2", "kept"),
		{ChapterUID: 1, Range: "3-4", MarkText: "dropped", Type: 2},
	}

	merged := Merge(bookmarks, nil, nil)

	if len(merged) != 1 || merged[0].Text() != "kept" {
		t.Errorf("expected only type-1 bookmarks, got %v", texts(merged))
	}
}

func TestMerge_DefaultsMissingChapterToOne(t *testing.T) {
	bookmarks := []weread.Bookmark{
		highlight(2, "1-2", "chapter two"),
		highlight(0, "5-6", "no chapter"),
	}

	merged := Merge(bookmarks, nil, nil)

	if merged[0].Text() != "no chapter" {
		t.Fatalf("expected absent chapterUid to default to 1 and sort first, got %v", texts(merged))
	}
	if merged[0].ChapterUID != 1 {
		t.Errorf("expected chapterUid 1, got %d", merged[0].ChapterUID)
	}
}

func TestMerge_ResolvesChapterTitles(t *testing.T) {
	chapters := map[int]weread.Chapter{
		5: {ChapterUID: 5, Title: "Intro"},
	}
	bookmarks := []weread.Bookmark{
		highlight(5, "1-2", "known chapter"),
		highlight(99, "1-2", "unknown chapter"),
	}

	merged := Merge(bookmarks, nil, chapters)

	if merged[0].ChapterTitle != "Intro" {
		t.Errorf("expected chapter title Intro, got %q", merged[0].ChapterTitle)
	}
	if merged[1].ChapterTitle != "" {
		t.Errorf("expected empty title for unknown chapter, got %q", merged[1].ChapterTitle)
	}
}

func TestMerge_EmptyChapterTableDecoratesWithEmptyTitles(t *testing.T) {
	merged := Merge([]weread.Bookmark{highlight(1, "1-2", "text")}, nil, map[int]weread.Chapter{})

	if merged[0].ChapterTitle != "" {
		t.Errorf("expected empty chapter title, got %q", merged[0].ChapterTitle)
	}
}

func TestMerge_RenamesNoteContentToMarkText(t *testing.T) {
	reviews := []weread.ReviewBody{
		{ChapterUID: 1, Content: "my thought", Abstract: "the quoted text", ReviewID: "r1", CreateTime: 42},
	}

	merged := Merge(nil, reviews, nil)

	if len(merged) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(merged))
	}
	a := merged[0]
	if a.Kind != KindNote || !a.IsNote() {
		t.Errorf("expected note variant, got %q", a.Kind)
	}
	if a.MarkText != "my thought" || a.Text() != "my thought" {
		t.Errorf("expected content renamed to markText, got %q", a.MarkText)
	}
	if a.Abstract != "the quoted text" || a.ReviewID != "r1" {
		t.Errorf("expected abstract and reviewId preserved, got %+v", a)
	}
}

func TestMerge_KeepsDuplicateAnnotations(t *testing.T) {
	bookmarks := []weread.Bookmark{highlight(1, "10-20", "same span")}
	reviews := []weread.ReviewBody{note(1, "10-20", "same span")}

	merged := Merge(bookmarks, reviews, nil)

	if len(merged) != 2 {
		t.Fatalf("expected duplicates preserved, got %d records", len(merged))
	}
}
