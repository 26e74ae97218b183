package notion

// Document is a page shaped for the "recent docs" widget tab.
type Document struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Icon           string `json:"icon,omitempty"`
	LastEditedTime string `json:"lastEditedTime"`
	URL            string `json:"url"`
}

// SearchResult is a page or database shaped for the search tab.
type SearchResult struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"` // "page" or "database"
	Icon   string `json:"icon,omitempty"`
	URL    string `json:"url"`
	Parent string `json:"parent,omitempty"`
}

// Page is the minimal handle returned by page creation.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePageParams describes a new page. Without a parent page id the
// page is created at the workspace root.
type CreatePageParams struct {
	Title        string
	Content      string
	ParentPageID string
}
