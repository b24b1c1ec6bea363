// Package document owns the ordered annotation collection for one editing
// session and implements picking and selection over it. Later items render,
// and therefore hit-test, in front of earlier ones.
package document

import (
	"image/color"

	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/item"
)

// Document is a single-owner collection; it is mutated only from the
// interaction thread and needs no locking.
type Document struct {
	items []item.Item
}

// New returns an empty document.
func New() *Document { return &Document{} }

// Items returns the live collection in creation order. Callers must not
// reorder it.
func (d *Document) Items() []item.Item { return d.items }

// Len returns the number of items.
func (d *Document) Len() int { return len(d.items) }

// Append adds it as the new front-most item.
func (d *Document) Append(it item.Item) { d.items = append(d.items, it) }

// Replace swaps in a restored collection, e.g. after undo or redo.
func (d *Document) Replace(items []item.Item) { d.items = items }

// Remove deletes the item with the given identity, reporting whether it was
// present.
func (d *Document) Remove(target item.Item) bool {
	for i, it := range d.items {
		if it.Base().ID == target.Base().ID {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return true
		}
	}
	return false
}

// PickTopmost returns the front-most item hit by p, or nil. Items created
// later win ties.
func (d *Document) PickTopmost(p geom.Point) item.Item {
	for i := len(d.items) - 1; i >= 0; i-- {
		if d.items[i].Hit(p) {
			return d.items[i]
		}
	}
	return nil
}

// ClearSelection drops every selection flag.
func (d *Document) ClearSelection() {
	for _, it := range d.items {
		it.Base().Selected = false
	}
}

// SelectAt clears the selection and then selects the topmost item under p.
// A miss leaves nothing selected; the picked item (or nil) is returned.
func (d *Document) SelectAt(p geom.Point) item.Item {
	d.ClearSelection()
	it := d.PickTopmost(p)
	if it != nil {
		it.Base().Selected = true
	}
	return it
}

// SelectWithin clears the selection and then selects every item the marquee
// rectangle captures, returning how many matched.
func (d *Document) SelectWithin(r geom.Rect) int {
	d.ClearSelection()
	n := 0
	for _, it := range d.items {
		if it.HitRect(r) {
			it.Base().Selected = true
			n++
		}
	}
	return n
}

// SelectAll flags every item selected.
func (d *Document) SelectAll() {
	for _, it := range d.items {
		it.Base().Selected = true
	}
}

// Selected returns the selected items in creation order.
func (d *Document) Selected() []item.Item {
	var out []item.Item
	for _, it := range d.items {
		if it.Base().Selected {
			out = append(out, it)
		}
	}
	return out
}

// RemoveSelected deletes every selected item and reports how many went.
func (d *Document) RemoveSelected() int {
	kept := d.items[:0]
	removed := 0
	for _, it := range d.items {
		if it.Base().Selected {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(d.items); i++ {
		d.items[i] = nil
	}
	d.items = kept
	return removed
}

// SetSelectedColor recolors the selected items and reports how many actually
// changed, so callers can keep no-op edits out of history. Erasers keep the
// canvas background color.
func (d *Document) SetSelectedColor(c color.RGBA) int {
	n := 0
	for _, it := range d.items {
		base := it.Base()
		if !base.Selected || it.Tool() == item.ToolEraser || base.Color == c {
			continue
		}
		base.Color = c
		n++
	}
	return n
}

// SetSelectedWidth adjusts stroke width on the selected items, reporting how
// many changed. Highlighters keep their fixed width.
func (d *Document) SetSelectedWidth(w float64) int {
	n := 0
	for _, it := range d.items {
		base := it.Base()
		if !base.Selected || it.Tool() == item.ToolHighlighter || base.Width == w {
			continue
		}
		base.Width = w
		n++
	}
	return n
}
