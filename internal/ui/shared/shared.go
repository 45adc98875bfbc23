package shared

// Window is the visible part of a list that scrolls to keep a cursor in view.
// A zero Height shows the whole list.
type Window struct {
	Offset int
	Height int
}

// Follow moves the window so the cursor row is visible.
func (w *Window) Follow(cursor, length int) {
	if length == 0 || w.Height <= 0 {
		w.Offset = 0
		return
	}
	if cursor < w.Offset {
		w.Offset = cursor
	} else if cursor >= w.Offset+w.Height {
		w.Offset = cursor - w.Height + 1
	}
	maxOffset := length - w.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if w.Offset > maxOffset {
		w.Offset = maxOffset
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
}

// Range returns the start and end indices of the visible rows.
func (w Window) Range(length int) (int, int) {
	if length == 0 {
		return 0, 0
	}
	if w.Height <= 0 {
		return 0, length
	}
	start := w.Offset
	end := w.Offset + w.Height
	if end > length {
		end = length
	}
	return start, end
}

// Truncate shortens a string to the given width in runes, with ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
