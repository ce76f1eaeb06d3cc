package country

import "strings"

// Catalogue is the ordered, growing list of summaries fetched so far plus
// the cursor of the last response. It is not safe for concurrent use.
type Catalogue struct {
	items  []Summary
	cursor Pagination
}

// Reset replaces the contents with p.
func (c *Catalogue) Reset(p *Page) {
	c.items = append([]Summary(nil), p.Data...)
	c.cursor = p.Pagination
}

// Append adds p's records after the existing ones. Records are not
// de-duplicated by ID.
func (c *Catalogue) Append(p *Page) {
	c.items = append(c.items, p.Data...)
	c.cursor = p.Pagination
}

// Items returns a copy of all records in fetch order.
func (c *Catalogue) Items() []Summary {
	return append([]Summary(nil), c.items...)
}

// Len returns the number of records.
func (c *Catalogue) Len() int {
	return len(c.items)
}

// Page returns the page number of the last response.
func (c *Catalogue) Page() int {
	return c.cursor.Page
}

// Last returns the last page number reported by the backend.
func (c *Catalogue) Last() int {
	return c.cursor.Last
}

// HasMore reports whether the last response said more pages exist.
func (c *Catalogue) HasMore() bool {
	return c.cursor.HasMore()
}

// NextPage returns the page to request next.
func (c *Catalogue) NextPage() int {
	return c.cursor.Page + 1
}

// Filter returns the records whose name, alpha-2 or alpha-3 code contains
// term, ignoring case. An empty term matches everything.
func Filter(items []Summary, term string) []Summary {
	term = strings.ToLower(term)
	out := make([]Summary, 0, len(items))
	for _, c := range items {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Alpha2Code), term) ||
			strings.Contains(strings.ToLower(c.Alpha3Code), term) {
			out = append(out, c)
		}
	}
	return out
}
