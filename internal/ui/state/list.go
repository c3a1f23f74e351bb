// Package state holds the list state behind the window-type picker: the full
// item set, the filtered view, the cursor and the scroll offset.
package state

// Item is one selectable row.
type Item struct {
	ID     string
	Label  string
	Detail string
}

// List tracks picker rows, filtering and viewport position.
type List struct {
	Title          string
	Items          []Item
	Full           []Item
	Filter         string
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a List over items with the cursor on the first row.
func NewList(title string, items []Item) *List {
	l := &List{Title: title, LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the visible index of the item with id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the item set, keeping the filter and, where possible,
// the item under the cursor.
func (l *List) UpdateItems(items []Item) {
	var keep string
	if cur, ok := l.Current(); ok {
		keep = cur.ID
	}
	l.Full = cloneItems(items)
	l.applyFilter()
	if idx := l.IndexOf(keep); idx >= 0 {
		l.Cursor = idx
	}
	if l.ViewportOffset > len(l.Items)-1 || l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

func cloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
