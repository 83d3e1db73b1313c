package desktop

import (
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/tasklist/internal/store"
	"github.com/MihkelHunter/tasklist/internal/todo"
)

func newUI(t *testing.T) (*UI, *todo.Service) {
	t.Helper()
	test.NewTempApp(t)
	logger := log.New(io.Discard)
	svc := todo.NewService(store.NewTaskRepository(store.NewMemory(), ""), todo.WithLogger(logger))

	w := test.NewTempWindow(t, nil)
	u := New(svc, w, logger)
	w.SetContent(u.Content())
	w.Resize(fyne.NewSize(600, 600))
	return u, svc
}

func addViaInput(u *UI, text string) {
	u.input.SetText(text)
	test.Tap(u.addBtn)
}

func TestAdd_ClearsInputAndUpdatesStatus(t *testing.T) {
	u, svc := newUI(t)
	assert.Equal(t, todo.EmptyMessage(todo.FilterAll), u.emptyLabel.Text)
	assert.True(t, u.emptyLabel.Visible())
	assert.True(t, u.clearBtn.Disabled())

	addViaInput(u, "  Buy milk ")
	require.Len(t, svc.All(), 1)
	assert.Equal(t, "Buy milk", svc.All()[0].Text)
	assert.Empty(t, u.input.Text)
	assert.Equal(t, "1 task left", u.statusLabel.Text)
	assert.False(t, u.emptyLabel.Visible())

	addViaInput(u, "   ")
	assert.Len(t, svc.All(), 1)
	assert.Equal(t, "   ", u.input.Text, "blank input is left alone")
}

func TestToggleAndClearCompleted(t *testing.T) {
	u, svc := newUI(t)
	addViaInput(u, "Buy milk")
	addViaInput(u, "Walk dog")
	milk := svc.All()[0]

	u.toggleTask(milk.ID)
	assert.Equal(t, "1 task left", u.statusLabel.Text)
	assert.False(t, u.clearBtn.Disabled())

	test.Tap(u.filterBtns[todo.FilterActive])
	require.Len(t, u.visible, 1)
	assert.Equal(t, "Walk dog", u.visible[0].Text)
	assert.Equal(t, widget.HighImportance, u.filterBtns[todo.FilterActive].Importance)

	test.Tap(u.filterBtns[todo.FilterCompleted])
	require.Len(t, u.visible, 1)
	assert.Equal(t, "Buy milk", u.visible[0].Text)

	test.Tap(u.clearBtn)
	assert.Empty(t, u.visible)
	assert.Equal(t, todo.EmptyMessage(todo.FilterCompleted), u.emptyLabel.Text)

	test.Tap(u.filterBtns[todo.FilterAll])
	require.Len(t, u.visible, 1)
	assert.Equal(t, "Walk dog", u.visible[0].Text)
}

func TestEdit_CommitAndCancel(t *testing.T) {
	u, svc := newUI(t)
	addViaInput(u, "draft")
	id := svc.All()[0].ID

	u.startEdit(id)
	assert.Equal(t, id, u.editingID)
	u.cancelEdit(id)
	assert.Zero(t, u.editingID)
	assert.Equal(t, "draft", svc.All()[0].Text)

	u.startEdit(id)
	u.commitEdit(id, "   ")
	assert.Equal(t, "draft", svc.All()[0].Text, "blank edit reverts")

	u.startEdit(id)
	u.commitEdit(id, " final ")
	assert.Equal(t, "final", svc.All()[0].Text)

	// A late focus-loss after Enter must not dispatch again.
	u.commitEdit(id, "stale")
	assert.Equal(t, "final", svc.All()[0].Text)
}

func TestEditEntry_EscapeCancels(t *testing.T) {
	test.NewTempApp(t)

	cancelled, lost := false, false
	e := newEditEntry()
	e.onCancel = func() { cancelled = true }
	e.onFocusLost = func() { lost = true }

	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.True(t, cancelled)

	e.FocusGained()
	e.FocusLost()
	assert.True(t, lost)
}

func TestDelete(t *testing.T) {
	u, svc := newUI(t)
	addViaInput(u, "only")
	id := svc.All()[0].ID

	u.deleteTask(id, nil)
	assert.Empty(t, svc.All())
	assert.Empty(t, u.visible)
	assert.Equal(t, todo.EmptyMessage(todo.FilterAll), u.emptyLabel.Text)

	u.deleteTask(id, nil)
	assert.Empty(t, svc.All(), "second delete is a no-op")
}

func TestDelete_RowStaysUntilFadeEnds(t *testing.T) {
	u, svc := newUI(t)
	addViaInput(u, "a")
	addViaInput(u, "b")
	id := svc.All()[0].ID

	u.removing[id] = true
	require.True(t, u.dispatch(todo.Delete(id)))
	assert.Len(t, u.visible, 2, "row is still drawn while fading")

	u.finishRemove(id)
	require.Len(t, u.visible, 1)
	assert.Equal(t, "b", u.visible[0].Text)
	assert.Empty(t, u.removing)
}

func TestDarkTheme_Palette(t *testing.T) {
	th := DarkTheme{}
	assert.Equal(t, colMuted, th.Color(theme.ColorNamePlaceHolder, theme.VariantDark))
	assert.Equal(t, colAccent, th.Color(theme.ColorNamePrimary, theme.VariantDark))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameError, theme.VariantDark),
		th.Color(theme.ColorNameError, theme.VariantDark))
}
