package content

// Status error kind of a page context
type Status string

const (
	// StatusOk content resolved
	StatusOk Status = ""
	// ErrorNotFound the site or url has no resolvable CMS mapping
	ErrorNotFound Status = "not-found"
)
