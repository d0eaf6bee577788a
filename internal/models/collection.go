package models

// ItemCollection maps product IDs to normalized records, remembering insertion order.
// A collection belongs to a single scenario and is not safe for concurrent use.
type ItemCollection struct {
	ids   []string
	items map[string]*NormalizedProduct
}

// NewItemCollection creates an empty collection
func NewItemCollection() *ItemCollection {
	return &ItemCollection{
		items: make(map[string]*NormalizedProduct),
	}
}

// Add stores a record under id. Re-adding an id replaces the record but keeps its position.
func (c *ItemCollection) Add(id string, item *NormalizedProduct) {
	if _, ok := c.items[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.items[id] = item
}

// Get returns the record stored under id
func (c *ItemCollection) Get(id string) (*NormalizedProduct, bool) {
	item, ok := c.items[id]
	return item, ok
}

// IDs returns the stored ids in insertion order
func (c *ItemCollection) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Items returns the stored records in insertion order
func (c *ItemCollection) Items() []*NormalizedProduct {
	out := make([]*NormalizedProduct, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.items[id])
	}
	return out
}

// Len returns the number of stored records
func (c *ItemCollection) Len() int {
	return len(c.ids)
}
