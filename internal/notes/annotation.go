package notes

import (
	"strconv"
	"strings"

	"github.com/mrlokans/weread-exporter/internal/weread"
)

// Kind tags the two annotation variants.
type Kind string

const (
	// KindHighlight is a user-selected text span without free text.
	KindHighlight Kind = "highlight"
	// KindNote is a user-authored annotation with free text.
	KindNote Kind = "note"
)

const defaultChapterUID = 1

// Annotation is the normalized form of a highlight or a note. Both variants
// expose the display text through MarkText, mirroring the provider's wire
// shape where a note's content is renamed into the highlight text field.
// ChapterTitle is always populated by Merge, possibly with "".
type Annotation struct {
	Kind         Kind   `json:"kind"`
	ChapterUID   int    `json:"chapterUid"`
	Range        string `json:"range,omitempty"`
	CreateTime   int64  `json:"createTime"`
	ChapterTitle string `json:"chapter_title"`
	MarkText     string `json:"markText"`
	Abstract     string `json:"abstract,omitempty"`
	ReviewID     string `json:"reviewId,omitempty"`
}

// Text returns the display text regardless of variant.
func (a Annotation) Text() string {
	return a.MarkText
}

// IsNote reports whether the annotation carries user-authored free text.
func (a Annotation) IsNote() bool {
	return a.Kind == KindNote
}

// rangeStart parses the integer before the first '-' of the range field.
// The provider occasionally emits empty or non-numeric ranges; those sort
// as position 0 rather than failing the run.
func (a Annotation) rangeStart() int {
	prefix, _, _ := strings.Cut(a.Range, "-")
	start, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil || start < 0 {
		return 0
	}
	return start
}

// fromBookmark normalizes a raw highlight record.
func fromBookmark(b weread.Bookmark) Annotation {
	return Annotation{
		Kind:       KindHighlight,
		ChapterUID: chapterOrDefault(b.ChapterUID),
		Range:      b.Range,
		CreateTime: b.CreateTime,
		MarkText:   b.MarkText,
	}
}

// fromReview normalizes a raw note record, renaming the content field to
// the common text field used by highlights.
func fromReview(r weread.ReviewBody) Annotation {
	return Annotation{
		Kind:       KindNote,
		ChapterUID: chapterOrDefault(r.ChapterUID),
		Range:      r.Range,
		CreateTime: r.CreateTime,
		MarkText:   r.Content,
		Abstract:   r.Abstract,
		ReviewID:   r.ReviewID,
	}
}

func chapterOrDefault(uid int) int {
	if uid <= 0 {
		return defaultChapterUID
	}
	return uid
}
