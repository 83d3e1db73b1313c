package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/tasklist/internal/store"
	"github.com/MihkelHunter/tasklist/internal/todo"
)

type harness struct {
	t       *testing.T
	svc     *todo.Service
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.New(io.Discard)
	svc := todo.NewService(store.NewTaskRepository(store.NewMemory(), store.DefaultKey), todo.WithLogger(logger))
	srv, err := New(svc, logger)
	require.NoError(t, err)
	return &harness{t: t, svc: svc, handler: srv.Handler()}
}

func (h *harness) post(path string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(h.t, http.StatusSeeOther, rec.Code, "POST %s", path)
	assert.Equal(h.t, "/", rec.Header().Get("Location"))
	return rec
}

func (h *harness) page(path string) *goquery.Document {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(h.t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(h.t, err)
	return doc
}

func (h *harness) add(text string) todo.Task {
	h.t.Helper()
	h.post("/tasks", url.Values{"text": {text}})
	all := h.svc.All()
	require.NotEmpty(h.t, all)
	return all[len(all)-1]
}

func itemTexts(doc *goquery.Document) []string {
	var out []string
	doc.Find("#todo-list .todo-item .todo-text").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func taskPath(id int64, verb string) string {
	return "/tasks/" + strconv.FormatInt(id, 10) + "/" + verb
}

func TestNew_RequiresService(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil)
	assert.EqualError(t, err, "service is required")
}

func TestIndex_EmptyStatePerFilter(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, f := range todo.Filters {
		h.post("/filter", url.Values{"filter": {f.String()}})
		doc := h.page("/")
		assert.Equal(t, todo.EmptyMessage(f), strings.TrimSpace(doc.Find(".empty-state p").Text()))
		assert.Equal(t, f.Title(), strings.TrimSpace(doc.Find(".filter-btn.active").Text()))
		assert.Equal(t, 0, doc.Find(".todo-item").Length())
	}
}

func TestAdd_IgnoresBlankText(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.post("/tasks", url.Values{"text": {"   "}})
	h.post("/tasks", url.Values{})
	assert.Empty(t, h.svc.All())

	h.add("  Buy milk  ")
	doc := h.page("/")
	assert.Equal(t, []string{"Buy milk"}, itemTexts(doc))
	assert.Equal(t, "1 task left", doc.Find("#task-count").Text())
	_, disabled := doc.Find("#clear-completed").Attr("disabled")
	assert.True(t, disabled)
}

func TestRender_EscapesMarkup(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	payload := `<script>alert("x")</script> & 'q'`
	task := h.add(payload)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert")
	assert.Contains(t, body, "&lt;script&gt;")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{payload}, itemTexts(doc))
	assert.Equal(t, 0, doc.Find("#todo-list script").Length())

	edit := h.page("/?edit=" + strconv.FormatInt(task.ID, 10))
	val, ok := edit.Find(".edit-input").Attr("value")
	require.True(t, ok)
	assert.Equal(t, payload, val)
}

func TestToggle_UpdatesCountAndClass(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	milk := h.add("Buy milk")
	h.add("Walk dog")

	h.post(taskPath(milk.ID, "toggle"), nil)
	doc := h.page("/")
	assert.Equal(t, "1 task left", doc.Find("#task-count").Text())
	done := doc.Find(".todo-item.completed")
	require.Equal(t, 1, done.Length())
	id, _ := done.Attr("data-id")
	assert.Equal(t, strconv.FormatInt(milk.ID, 10), id)

	h.post(taskPath(milk.ID, "toggle"), nil)
	assert.Equal(t, 0, h.page("/").Find(".todo-item.completed").Length())
}

func TestDelete_IsIdempotentAndShowsEmptyState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	task := h.add("only")

	h.post(taskPath(task.ID, "delete"), nil)
	h.post(taskPath(task.ID, "delete"), nil)
	assert.Empty(t, h.svc.All())

	doc := h.page("/")
	assert.Equal(t, todo.EmptyMessage(todo.FilterAll), strings.TrimSpace(doc.Find(".empty-state p").Text()))
}

func TestBadIDsAreNoops(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.add("stay")
	for _, path := range []string{"/tasks/abc/toggle", "/tasks/12x/delete", "/tasks/999/toggle"} {
		h.post(path, nil)
	}
	require.Len(t, h.svc.All(), 1)
	assert.False(t, h.svc.All()[0].Completed)
}

func TestEdit_CommitCancelAndBlank(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	task := h.add("draft")
	editPage := "/?edit=" + strconv.FormatInt(task.ID, 10)

	doc := h.page(editPage)
	require.Equal(t, 1, doc.Find(".edit-input").Length())
	assert.Equal(t, 0, doc.Find(".todo-text").Length())

	h.post(taskPath(task.ID, "edit"), url.Values{"text": {"changed"}, "cancel": {"1"}})
	assert.Equal(t, "draft", h.svc.All()[0].Text)

	h.post(taskPath(task.ID, "edit"), url.Values{"text": {"   "}})
	assert.Equal(t, "draft", h.svc.All()[0].Text)

	h.post(taskPath(task.ID, "edit"), url.Values{"text": {"  final  "}})
	assert.Equal(t, "final", h.svc.All()[0].Text)

	doc = h.page("/")
	assert.Equal(t, 0, doc.Find(".edit-input").Length())
	assert.Equal(t, []string{"final"}, itemTexts(doc))
}

func TestIndex_UnknownEditIDRendersList(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.add("a")
	doc := h.page("/?edit=42")
	assert.Equal(t, 0, doc.Find(".edit-input").Length())
	assert.Equal(t, []string{"a"}, itemTexts(doc))
}

func TestScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	milk := h.add("Buy milk")
	h.add("Walk dog")
	h.post(taskPath(milk.ID, "toggle"), nil)

	h.post("/filter", url.Values{"filter": {"active"}})
	assert.Equal(t, []string{"Walk dog"}, itemTexts(h.page("/")))

	h.post("/filter", url.Values{"filter": {"completed"}})
	assert.Equal(t, []string{"Buy milk"}, itemTexts(h.page("/")))

	h.post("/clear-completed", nil)
	doc := h.page("/")
	assert.Empty(t, itemTexts(doc))
	assert.Equal(t, todo.EmptyMessage(todo.FilterCompleted), strings.TrimSpace(doc.Find(".empty-state p").Text()))

	h.post("/filter", url.Values{"filter": {"all"}})
	assert.Equal(t, []string{"Walk dog"}, itemTexts(h.page("/")))
}

func TestAPITasks(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	a := h.add("a")
	h.add("b")
	h.post(taskPath(a.ID, "toggle"), nil)

	get := func(path string) apiTasks {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp apiTasks
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	all := get("/api/tasks")
	assert.Equal(t, "all", all.Filter)
	assert.Len(t, all.Tasks, 2)
	assert.Equal(t, 1, all.Remaining)

	done := get("/api/tasks?filter=completed")
	require.Len(t, done.Tasks, 1)
	assert.Equal(t, "a", done.Tasks[0].Text)
	assert.Equal(t, todo.FilterAll, h.svc.Filter(), "query filter does not change state")
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, path := range []string{"/static/app.css", "/static/app.js"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Body.String(), path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/clear-completed", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
