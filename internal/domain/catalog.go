// Package domain defines the reading club catalog: books, their reviews,
// and the comments under each review.
package domain

// Catalog is the root persisted document. Book order is display order.
type Catalog struct {
	Books []*Book `json:"books"`
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{Books: []*Book{}}
}

// FindBook returns the index and book with the given ID, or -1 and nil.
func (c *Catalog) FindBook(id string) (int, *Book) {
	for i, b := range c.Books {
		if b.ID == id {
			return i, b
		}
	}
	return -1, nil
}

// AppendBook adds a book at the end of the catalog.
func (c *Catalog) AppendBook(b *Book) {
	c.Books = append(c.Books, b)
}

// RemoveBookAt removes and returns the book at index i, keeping the order
// of the remaining books.
func (c *Catalog) RemoveBookAt(i int) *Book {
	b := c.Books[i]
	c.Books = append(c.Books[:i], c.Books[i+1:]...)
	return b
}

// Normalize fills in collections missing from hand-edited or older documents
// so that every book, review, and vote set is non-nil.
func (c *Catalog) Normalize() {
	if c.Books == nil {
		c.Books = []*Book{}
	}
	kept := c.Books[:0]
	for _, b := range c.Books {
		if b == nil {
			continue
		}
		b.normalize()
		kept = append(kept, b)
	}
	c.Books = kept
}

// Stats summarizes the size of a catalog.
type Stats struct {
	Books    int `json:"books"`
	Reviews  int `json:"reviews"`
	Comments int `json:"comments"`
	Votes    int `json:"votes"`
}

// Stats counts every entity in the catalog.
func (c *Catalog) Stats() Stats {
	var s Stats
	for _, b := range c.Books {
		s.Books++
		s.Votes += b.Votes.Count()
		reviews, comments := b.Descendants()
		s.Reviews += reviews
		s.Comments += comments
	}
	return s
}
