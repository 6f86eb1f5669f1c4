package content

// Nodes every object referenced by a page, keyed by id
type Nodes map[string]*Object

// Get returns the node or nil for dangling references
func (n Nodes) Get(id string) *Object {
	if n == nil {
		return nil
	}
	return n[id]
}
