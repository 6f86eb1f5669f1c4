package content

type (
	// SearchResultSet result of a CMS search, already filtered by the backend
	SearchResultSet struct {
		Count  int          `json:"count"`
		Result []*SearchHit `json:"result"`
	}
	// SearchHit one search result
	SearchHit struct {
		NodeData *Object `json:"nodeData"`
	}
	// LiveblogPosts latest posts of a liveblog
	LiveblogPosts struct {
		Count  int       `json:"count"`
		Result []*Object `json:"result"`
	}
)
