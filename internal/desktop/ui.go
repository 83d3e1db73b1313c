// Package desktop is the fyne front end. Widgets dispatch todo actions on the
// shared service and redraw from its state.
package desktop

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/todo"
)

// RemoveDelay is the length of the fade played on a deleted row.
const RemoveDelay = 300 * time.Millisecond

// UI holds the window's widgets and the last rendered state.
type UI struct {
	svc    *todo.Service
	win    fyne.Window
	logger *log.Logger

	input       *widget.Entry
	addBtn      *widget.Button
	filterBtns  map[todo.Filter]*widget.Button
	list        *widget.List
	emptyLabel  *widget.Label
	statusLabel *widget.Label
	clearBtn    *widget.Button

	state   todo.State
	visible []todo.Task
	rows    map[fyne.CanvasObject]*taskRow

	editingID int64
	focusEdit bool
	removing  map[int64]bool
}

// taskRow is the set of widgets making up one recycled list row.
type taskRow struct {
	bg     *canvas.Rectangle
	check  *widget.Button
	label  *widget.Label
	entry  *editEntry
	edit   *widget.Button
	delete *widget.Button
}

// New builds the UI for win. Call Content to get the root object.
func New(svc *todo.Service, win fyne.Window, logger *log.Logger) *UI {
	if logger == nil {
		logger = log.Default()
	}
	return &UI{
		svc:        svc,
		win:        win,
		logger:     logger,
		filterBtns: make(map[todo.Filter]*widget.Button),
		rows:       make(map[fyne.CanvasObject]*taskRow),
		removing:   make(map[int64]bool),
	}
}

// ── Build UI ─────────────────────────────────────────────────────────────────

// Content builds the widget tree and renders the current state.
func (u *UI) Content() fyne.CanvasObject {
	// Header
	title := canvas.NewText("  ✓  mkToDo", color.White)
	title.TextSize = 20
	title.TextStyle = fyne.TextStyle{Bold: true}

	u.input = widget.NewEntry()
	u.input.SetPlaceHolder("What needs to be done?")
	u.input.OnSubmitted = func(string) { u.addTask() }

	u.addBtn = widget.NewButton("+ Add", u.addTask)
	u.addBtn.Importance = widget.HighImportance

	addRow := container.NewBorder(nil, nil, nil, u.addBtn, u.input)
	headerBG := canvas.NewRectangle(colSurface)
	header := container.NewStack(headerBG, container.NewPadded(container.NewVBox(title, addRow)))

	// Filter tabs
	tabs := []fyne.CanvasObject{layout.NewSpacer()}
	for _, f := range todo.Filters {
		btn := widget.NewButton(f.Title(), func() { u.setFilter(f) })
		u.filterBtns[f] = btn
		tabs = append(tabs, btn)
	}
	tabs = append(tabs, layout.NewSpacer())
	filterRow := container.NewHBox(tabs...)

	// Task list
	u.list = widget.NewList(
		func() int { return len(u.visible) },
		u.makeTaskRow,
		u.updateTaskRow,
	)
	u.list.OnSelected = func(id widget.ListItemID) { u.list.Unselect(id) }

	u.emptyLabel = widget.NewLabel("")
	u.emptyLabel.Alignment = fyne.TextAlignCenter
	body := container.NewStack(u.list, container.NewCenter(u.emptyLabel))

	// Footer / status
	u.statusLabel = widget.NewLabel("")
	u.clearBtn = widget.NewButton("Clear completed", u.clearCompleted)
	footerBG := canvas.NewRectangle(colSurface)
	footer := container.NewStack(footerBG, container.NewPadded(
		container.NewBorder(nil, nil, u.statusLabel, u.clearBtn),
	))

	// Root layout
	bg := canvas.NewRectangle(colBackground)
	ui := container.NewBorder(
		container.NewVBox(header, filterRow),
		footer,
		nil, nil,
		body,
	)
	u.refresh()
	return container.NewStack(bg, ui)
}

// Input is the new-task entry, for initial focus.
func (u *UI) Input() fyne.Focusable {
	return u.input
}

// ── Task row template ─────────────────────────────────────────────────────────

func (u *UI) makeTaskRow() fyne.CanvasObject {
	r := &taskRow{
		bg:     canvas.NewRectangle(colSurface),
		check:  widget.NewButtonWithIcon("", theme.RadioButtonIcon(), nil),
		label:  widget.NewLabel("task"),
		entry:  newEditEntry(),
		edit:   widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
		delete: widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	}
	r.bg.CornerRadius = 8
	r.check.Importance = widget.LowImportance
	r.edit.Importance = widget.LowImportance
	r.delete.Importance = widget.DangerImportance
	r.label.Truncation = fyne.TextTruncateEllipsis
	r.entry.Hide()

	content := container.NewBorder(nil, nil,
		r.check,
		container.NewHBox(r.edit, r.delete),
		container.NewStack(r.label, r.entry),
	)
	obj := container.NewStack(r.bg, container.NewPadded(content))
	u.rows[obj] = r
	return obj
}

func (u *UI) updateTaskRow(i widget.ListItemID, obj fyne.CanvasObject) {
	r, ok := u.rows[obj]
	if !ok || i >= len(u.visible) {
		return
	}
	t := u.visible[i]

	if t.Completed {
		r.check.SetIcon(theme.ConfirmIcon())
		r.label.TextStyle = fyne.TextStyle{Italic: true}
		r.label.Importance = widget.LowImportance
		r.bg.FillColor = colDoneRow
	} else {
		r.check.SetIcon(theme.RadioButtonIcon())
		r.label.TextStyle = fyne.TextStyle{}
		r.label.Importance = widget.MediumImportance
		r.bg.FillColor = colSurface
	}
	r.bg.Refresh()
	r.label.SetText(t.Text)

	id := t.ID
	r.check.OnTapped = func() { u.toggleTask(id) }
	r.edit.OnTapped = func() { u.startEdit(id) }
	r.delete.OnTapped = func() { u.deleteTask(id, r.bg) }

	if id != u.editingID {
		r.entry.onCancel, r.entry.onFocusLost, r.entry.OnSubmitted = nil, nil, nil
		r.entry.Hide()
		r.label.Show()
		return
	}

	r.entry.onCancel = func() { u.cancelEdit(id) }
	r.entry.onFocusLost = func() { u.commitEdit(id, r.entry.Text) }
	r.entry.OnSubmitted = func(text string) { u.commitEdit(id, text) }
	r.label.Hide()
	r.entry.Show()
	if u.focusEdit {
		u.focusEdit = false
		r.entry.SetText(t.Text)
		u.win.Canvas().Focus(r.entry)
	}
}

// ── Actions ───────────────────────────────────────────────────────────────────

// dispatch applies a and reports whether anything changed. Save failures are
// shown but the new state is kept.
func (u *UI) dispatch(a todo.Action) bool {
	out, err := u.svc.Dispatch(a)
	if err != nil {
		u.logger.Error("persist tasks", "action", a.Kind, "err", err)
		dialog.ShowError(err, u.win)
	}
	return out.Changed
}

func (u *UI) refresh() {
	u.state = u.svc.Snapshot()
	u.visible = u.state.Visible()
	u.list.Refresh()

	if len(u.visible) == 0 {
		u.emptyLabel.SetText(todo.EmptyMessage(u.state.Filter))
		u.emptyLabel.Show()
	} else {
		u.emptyLabel.Hide()
	}

	for f, btn := range u.filterBtns {
		if f == u.state.Filter {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}

	remaining := u.state.Remaining()
	u.statusLabel.SetText(todo.RemainingLabel(remaining))
	if remaining < len(u.state.Tasks) {
		u.clearBtn.Enable()
	} else {
		u.clearBtn.Disable()
	}
}

func (u *UI) addTask() {
	if !u.dispatch(todo.Add(u.input.Text)) {
		return
	}
	u.input.SetText("")
	u.refresh()
}

func (u *UI) toggleTask(id int64) {
	if u.dispatch(todo.Toggle(id)) {
		u.refresh()
	}
}

func (u *UI) setFilter(f todo.Filter) {
	u.dispatch(todo.SetFilter(f))
	u.refresh()
}

func (u *UI) clearCompleted() {
	if u.dispatch(todo.ClearCompleted()) {
		u.refresh()
	}
}

func (u *UI) startEdit(id int64) {
	if u.removing[id] {
		return
	}
	u.editingID = id
	u.focusEdit = true
	u.list.Refresh()
}

// commitEdit runs on Enter and on focus loss, whichever comes first.
func (u *UI) commitEdit(id int64, text string) {
	if u.editingID != id {
		return
	}
	u.editingID = 0
	u.dispatch(todo.Edit(id, text))
	u.refresh()
}

func (u *UI) cancelEdit(id int64) {
	if u.editingID != id {
		return
	}
	u.editingID = 0
	u.refresh()
}

// deleteTask removes the task at once, then fades bg out before the row is
// detached from the list. A nil bg skips the fade.
func (u *UI) deleteTask(id int64, bg *canvas.Rectangle) {
	if u.removing[id] || !u.dispatch(todo.Delete(id)) {
		return
	}
	if u.editingID == id {
		u.editingID = 0
	}
	if bg == nil {
		u.refresh()
		return
	}

	u.removing[id] = true
	from := colSurface
	if c, ok := bg.FillColor.(color.NRGBA); ok {
		from = c
	}
	anim := fyne.NewAnimation(RemoveDelay, func(p float32) {
		faded := from
		faded.A = uint8(float32(from.A) * (1 - p))
		bg.FillColor = faded
		bg.Refresh()
		if p >= 1 {
			u.finishRemove(id)
		}
	})
	anim.Curve = fyne.AnimationEaseOut
	anim.Start()
}

func (u *UI) finishRemove(id int64) {
	delete(u.removing, id)
	u.refresh()
}
