package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tasks "google.golang.org/api/tasks/v1"

	"anto/internal/logging"
	"anto/internal/task"
)

// fakeAPI is a minimal in-memory Google Tasks REST server.
type fakeAPI struct {
	mu     sync.Mutex
	lists  []*tasks.TaskList
	items  map[string][]*tasks.Task
	nextID int

	// failures maps "METHOD kind" (kind is lists, tasks or task) to a status code.
	failures map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string][]*tasks.Task), failures: make(map[string]int)}
}

func (f *fakeAPI) addList(id, title string, titles ...string) {
	f.lists = append(f.lists, &tasks.TaskList{Id: id, Title: title})
	for _, t := range titles {
		f.nextID++
		f.items[id] = append(f.items[id], &tasks.Task{
			Id:     fmt.Sprintf("seed-%d", f.nextID),
			Title:  t,
			Status: statusOpen,
		})
	}
	f.renumber(id)
}

func (f *fakeAPI) renumber(listID string) {
	for i, t := range f.items[listID] {
		t.Position = fmt.Sprintf("%020d", i)
	}
}

func (f *fakeAPI) titles(listID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []string
	for _, t := range f.items[listID] {
		result = append(result, t.Title+":"+t.Status)
	}
	return result
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tasks/v1/"), "/")
	kind := "lists"
	if len(parts) == 3 && parts[0] == "lists" {
		kind = "tasks"
	} else if len(parts) == 4 {
		kind = "task"
	}
	if code, ok := f.failures[r.Method+" "+kind]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"injected"}}`, code)
		return
	}

	switch {
	case kind == "lists" && r.Method == http.MethodGet:
		writeJSON(w, &tasks.TaskLists{Items: f.lists})

	case kind == "lists" && r.Method == http.MethodPost:
		var list tasks.TaskList
		json.NewDecoder(r.Body).Decode(&list)
		f.nextID++
		list.Id = fmt.Sprintf("list-%d", f.nextID)
		f.lists = append(f.lists, &list)
		f.items[list.Id] = nil
		writeJSON(w, &list)

	case kind == "tasks" && r.Method == http.MethodGet:
		writeJSON(w, &tasks.Tasks{Items: f.items[parts[1]]})

	case kind == "tasks" && r.Method == http.MethodPost:
		listID := parts[1]
		var item tasks.Task
		json.NewDecoder(r.Body).Decode(&item)
		f.nextID++
		item.Id = fmt.Sprintf("task-%d", f.nextID)

		// Without "previous" the API inserts at the top.
		at := 0
		if prev := r.URL.Query().Get("previous"); prev != "" {
			for i, t := range f.items[listID] {
				if t.Id == prev {
					at = i + 1
				}
			}
		}
		list := f.items[listID]
		list = append(list, nil)
		copy(list[at+1:], list[at:])
		list[at] = &item
		f.items[listID] = list
		f.renumber(listID)
		writeJSON(w, &item)

	case kind == "task":
		listID, taskID := parts[1], parts[3]
		for i, t := range f.items[listID] {
			if t.Id != taskID {
				continue
			}
			if r.Method == http.MethodDelete {
				f.items[listID] = append(f.items[listID][:i], f.items[listID][i+1:]...)
				f.renumber(listID)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			var patch tasks.Task
			json.NewDecoder(r.Body).Decode(&patch)
			if patch.Status != "" {
				t.Status = patch.Status
			}
			writeJSON(w, t)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"missing"}}`)

	default:
		http.NotFound(w, r)
	}
}

func newClient(t *testing.T, api *fakeAPI, listTitle string) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/", listTitle, logging.Discard())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestLoad_CreatesMissingList(t *testing.T) {
	api := newFakeAPI()
	api.addList("other", "Other", "ignored")
	c := newClient(t, api, "anto")

	loaded, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty list, got %d tasks", len(loaded))
	}
	if len(api.lists) != 2 || api.lists[1].Title != "anto" {
		t.Errorf("expected list to be created, got %+v", api.lists)
	}
}

func TestLoad_ExistingList(t *testing.T) {
	api := newFakeAPI()
	api.addList("mine", "Anto", "buy milk", "walk dog")
	api.items["mine"][1].Status = statusCompleted
	c := newClient(t, api, " anto ")

	loaded, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(loaded))
	}
	if loaded[0].Description != "buy milk" || loaded[0].Done {
		t.Errorf("unexpected first task %+v", *loaded[0])
	}
	if loaded[1].Description != "walk dog" || !loaded[1].Done {
		t.Errorf("unexpected second task %+v", *loaded[1])
	}
}

func TestLoad_AmbiguousList(t *testing.T) {
	api := newFakeAPI()
	api.addList("a", "anto")
	api.addList("b", "ANTO")
	c := newClient(t, api, "anto")

	_, err := c.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Fatalf("expected ambiguous error, got %v", err)
	}
}

func TestLoad_Unauthorized(t *testing.T) {
	api := newFakeAPI()
	api.failures["GET lists"] = http.StatusUnauthorized
	c := newClient(t, api, "anto")

	_, err := c.Load(context.Background())
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestMutations(t *testing.T) {
	api := newFakeAPI()
	api.addList("mine", "anto", "buy milk")
	c := newClient(t, api, "anto")
	ctx := context.Background()

	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Append(ctx, task.New("walk dog")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.Append(ctx, task.New("read book")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.MarkDone(ctx, 2); err != nil {
		t.Fatalf("mark: %v", err)
	}

	want := "buy milk:needsAction,walk dog:needsAction,read book:completed"
	if got := strings.Join(api.titles("mine"), ","); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if err := c.Delete(ctx, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Index 1 now addresses "read book".
	if err := c.Unmark(ctx, 1); err != nil {
		t.Fatalf("unmark: %v", err)
	}

	want = "walk dog:needsAction,read book:needsAction"
	if got := strings.Join(api.titles("mine"), ","); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAppend_FailureKeepsIndexMap(t *testing.T) {
	api := newFakeAPI()
	api.addList("mine", "anto", "buy milk")
	c := newClient(t, api, "anto")
	ctx := context.Background()

	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	api.failures["POST tasks"] = http.StatusInternalServerError

	if err := c.Append(ctx, task.New("walk dog")); err == nil {
		t.Fatal("expected error")
	}
	if err := c.MarkDone(ctx, 1); err == nil {
		t.Error("failed append must not add an index")
	}
}

func TestDelete_NotFound(t *testing.T) {
	api := newFakeAPI()
	api.addList("mine", "anto", "buy milk")
	c := newClient(t, api, "anto")
	ctx := context.Background()

	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	// Removed behind our back.
	api.mu.Lock()
	api.items["mine"] = nil
	api.mu.Unlock()

	if err := c.Delete(ctx, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotLoaded(t *testing.T) {
	c := newClient(t, newFakeAPI(), "anto")

	if err := c.Append(context.Background(), task.New("x")); err == nil {
		t.Error("expected error before load")
	}
	if err := c.MarkDone(context.Background(), 0); err == nil {
		t.Error("expected error before load")
	}
}

func TestSortKey_SubtasksFollowParent(t *testing.T) {
	items := []*tasks.Task{
		{Id: "p2", Position: "00000000000000000002"},
		{Id: "c1", Parent: "p1", Position: "00000000000000000000"},
		{Id: "p1", Position: "00000000000000000001"},
	}
	positions := map[string]string{}
	for _, it := range items {
		positions[it.Id] = it.Position
	}

	keys := []string{sortKey(items[0], positions), sortKey(items[1], positions), sortKey(items[2], positions)}
	if !(keys[2] < keys[1] && keys[1] < keys[0]) {
		t.Errorf("expected p1 < c1 < p2, got %v", keys)
	}
}
