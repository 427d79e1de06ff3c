package schema

// Document is a projected row of the secondary store.
type Document map[string]any

// PageLink points at another page. The zero value renders as {}.
type PageLink struct {
	PageNum  int `json:"page_num,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

// IsZero reports whether the link points nowhere.
func (l PageLink) IsZero() bool { return l.PageNum == 0 && l.PageSize == 0 }

// Page is a paginated browse result with its navigation envelope. Results
// always encode as a list, never as null.
type Page struct {
	Data          []Document `json:"results"`
	Count         int64      `json:"count"`
	Total         int64      `json:"total"`
	NumberOfPages int64      `json:"number_of_pages"`
	Next          PageLink   `json:"next"`
	Previous      PageLink   `json:"previous"`
}

// NamedCount pairs a database or collection name with its document count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
