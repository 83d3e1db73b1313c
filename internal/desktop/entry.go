package desktop

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// editEntry is a single-line entry that reports Escape and loss of focus,
// which widget.Entry does not expose as callbacks.
type editEntry struct {
	widget.Entry

	onCancel    func()
	onFocusLost func()
}

func newEditEntry() *editEntry {
	e := &editEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *editEntry) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape {
		if e.onCancel != nil {
			e.onCancel()
		}
		return
	}
	e.Entry.TypedKey(k)
}

func (e *editEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocusLost != nil {
		e.onFocusLost()
	}
}
