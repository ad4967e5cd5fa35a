package weread

// Notebook is one entry of the user's notebook list: a book the account
// has annotated, plus the provider's ordering key.
type Notebook struct {
	BookID        string `json:"bookId"`
	Book          Book   `json:"book"`
	Sort          int64  `json:"sort"`
	NoteCount     int    `json:"noteCount,omitempty"`
	ReviewCount   int    `json:"reviewCount,omitempty"`
	BookmarkCount int    `json:"bookmarkCount,omitempty"`
}

// Book is the provider's book summary embedded in a notebook entry. It is
// passed through to the export unmodified.
type Book struct {
	BookID string `json:"bookId"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Cover  string `json:"cover,omitempty"`
}

// BookInfo holds the detail fields extracted from /book/info. Raw keeps the
// full provider payload since its schema shifts between clients.
type BookInfo struct {
	ISBN   string
	Rating float64
	Raw    map[string]any
}

// Chapter is one row of a book's chapter table.
type Chapter struct {
	ChapterUID int    `json:"chapterUid"`
	ChapterIdx int    `json:"chapterIdx,omitempty"`
	Title      string `json:"title"`
}

// Bookmark is a raw highlight record from /book/bookmarklist. Type 1 marks
// a user highlight; other types are provider-internal and discarded.
type Bookmark struct {
	BookmarkID string `json:"bookmarkId,omitempty"`
	ChapterUID int    `json:"chapterUid"`
	Range      string `json:"range"`
	MarkText   string `json:"markText"`
	Type       int    `json:"type"`
	CreateTime int64  `json:"createTime"`
	ColorStyle int    `json:"colorStyle,omitempty"`
}

// Review is a raw record from /review/list. The provider wraps the actual
// review body in an envelope keyed by reviewId.
type Review struct {
	ReviewID string     `json:"reviewId"`
	Review   ReviewBody `json:"review"`
}

// ReviewBody distinguishes free-text notes (type 1) from book-level
// summaries (type 4) via the Type tag.
type ReviewBody struct {
	ReviewID   string `json:"reviewId"`
	Type       int    `json:"type"`
	Content    string `json:"content,omitempty"`
	Abstract   string `json:"abstract,omitempty"`
	ChapterUID int    `json:"chapterUid,omitempty"`
	Range      string `json:"range,omitempty"`
	CreateTime int64  `json:"createTime"`
}

// Wire envelopes.

type notebookListResponse struct {
	Books []Notebook `json:"books"`
}

type chapterInfosResponse struct {
	Data []struct {
		BookID  string    `json:"bookId"`
		Updated []Chapter `json:"updated"`
	} `json:"data"`
}

type bookmarkListResponse struct {
	Updated []Bookmark `json:"updated"`
}

type reviewListResponse struct {
	Reviews []Review `json:"reviews"`
}
