package types

// PageSummary is one read page as it appears in the context bundle.
type PageSummary struct {
	URL      string   `json:"url"`
	Title    string   `json:"title,omitempty"`
	Headings []string `json:"headings,omitempty"`
}

// NewsItem is one external news index result.
type NewsItem struct {
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ProductItem is one product-discovery index result.
type ProductItem struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline,omitempty"`
	URL     string `json:"url,omitempty"`
	Points  int    `json:"points,omitempty"`
}

// ContextBundle is the canonical, serializable merge of company context,
// theme and evidence. Built once per job after evidence gathering, consumed
// only by the generation cascade and its serializers; immutable after
// construction.
type ContextBundle struct {
	Company  CompanyContext `json:"company"`
	Pages    []PageSummary  `json:"pages,omitempty"`
	Brand    Theme          `json:"brand"`
	Press    []string       `json:"press,omitempty"`
	News     []NewsItem     `json:"news,omitempty"`
	Products []ProductItem  `json:"products,omitempty"`
	Patterns []string       `json:"patterns,omitempty"`
	Keywords []string       `json:"keywords,omitempty"`
}
