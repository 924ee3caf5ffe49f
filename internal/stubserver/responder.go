package stubserver

import (
	"net/http"
	"time"
)

// blockBytes is how many uploaded bytes the default responder turns into
// one block.
const blockBytes = 1024

type page struct {
	ID      int     `json:"id"`
	Width   float32 `json:"width"`
	Height  float32 `json:"height"`
	NeedOCR bool    `json:"need_ocr"`
}

type block struct {
	ID    int    `json:"id"`
	Pages []int  `json:"pages_id"`
	Kind  string `json:"kind"`
	Text  string `json:"text"`
}

type metadata struct {
	ParsingDuration int64  `json:"parsing_duration"`
	FerrulesVersion string `json:"ferrules_version"`
}

// Document is the data object of a successful stub parse.
type Document struct {
	DocName  string   `json:"doc_name"`
	Pages    []page   `json:"pages"`
	Blocks   []block  `json:"blocks"`
	Metadata metadata `json:"metadata"`
}

// NewDocument builds a parse result with the given counts and duration.
// Blocks are spread round-robin over the pages.
func NewDocument(name string, pages, blocks int, parsing time.Duration) Document {
	doc := Document{
		DocName:  name,
		Pages:    make([]page, pages),
		Blocks:   make([]block, blocks),
		Metadata: metadata{ParsingDuration: parsing.Milliseconds(), FerrulesVersion: "stub"},
	}
	for i := range doc.Pages {
		doc.Pages[i] = page{ID: i, Width: 612, Height: 792}
	}
	for i := range doc.Blocks {
		pageID := 0
		if pages > 0 {
			pageID = i % pages
		}
		doc.Blocks[i] = block{ID: i, Pages: []int{pageID}, Kind: "text"}
	}
	return doc
}

// DefaultResponder returns one page and one block per KiB uploaded (at least
// one), with a parsing duration proportional to the size.
func DefaultResponder(filename string, data []byte) (int, any) {
	blocks := len(data) / blockBytes
	if blocks < 1 {
		blocks = 1
	}
	parsing := time.Duration(10+blocks) * time.Millisecond
	return http.StatusOK, Response{Success: true, Data: NewDocument(filename, 1, blocks, parsing)}
}
