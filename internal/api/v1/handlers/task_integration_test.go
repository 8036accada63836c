package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskflow-backend/internal/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskdef")

	listID := createTestList(t, app, token, map[string]interface{}{
		"title": "Groceries",
		"color": "#28a745",
	})
	task := createTestTask(t, app, token, map[string]interface{}{
		"title":  "Buy milk",
		"listId": listID,
	})

	if task["title"] != "Buy milk" {
		t.Errorf("Expected title 'Buy milk', got %v", task["title"])
	}
	if task["priority"] != "medium" {
		t.Errorf("Expected default priority 'medium', got %v", task["priority"])
	}
	if task["completed"] != false {
		t.Errorf("Expected completed false, got %v", task["completed"])
	}
	if task["dueDate"] != nil {
		t.Errorf("Expected null dueDate, got %v", task["dueDate"])
	}

	list, ok := task["list"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected embedded list summary in task response")
	}
	if int(list["id"].(float64)) != listID {
		t.Errorf("Expected list id %d, got %v", listID, list["id"])
	}
	if list["title"] != "Groceries" || list["color"] != "#28a745" {
		t.Errorf("Expected list summary {Groceries, #28a745}, got %v", list)
	}
}

// TestCreateTaskEmptyDescription: description "" disimpan sebagai NULL.
func TestCreateTaskEmptyDescription(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskempty")

	listID := createTestList(t, app, token, map[string]interface{}{"title": "Home"})
	task := createTestTask(t, app, token, map[string]interface{}{
		"title":       "Blank",
		"description": "",
		"listId":      listID,
	})
	if task["description"] != nil {
		t.Errorf("Expected null description, got %v", task["description"])
	}

	// Baca ulang dari store untuk memastikan nilai tersimpan juga NULL
	taskID := int(task["id"].(float64))
	get := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), nil, token)
	var got map[string]interface{}
	decodeBody(t, get, &got)
	if got["description"] != nil {
		t.Errorf("Expected null description on read-back, got %v", got["description"])
	}
}

func TestCreateTaskInForeignList(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	tokenA, _ := registerTestUser(t, app, "taskforf")
	tokenB, _ := registerTestUser(t, app, "taskforo")

	listID := createTestList(t, app, tokenA, map[string]interface{}{"title": "Private"})

	// List milik orang lain: 404, task tidak boleh tercipta
	resp := doJSON(t, app, "POST", "/api/tasks", map[string]interface{}{
		"title":  "Sneaky",
		"listId": listID,
	}, tokenB)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}

	listTasks := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/list/%d", listID), nil, tokenA)
	var tasks []map[string]interface{}
	decodeBody(t, listTasks, &tasks)
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks to be created, got %d", len(tasks))
	}
}

func TestTaskTitleBoundary(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskbound")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Bounds"})

	ok := doJSON(t, app, "POST", "/api/tasks", map[string]interface{}{
		"title":  strings.Repeat("b", 200),
		"listId": listID,
	}, token)
	ok.Body.Close()
	if ok.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201 for 200-char title, got %d", ok.StatusCode)
	}

	tooLong := doJSON(t, app, "POST", "/api/tasks", map[string]interface{}{
		"title":  strings.Repeat("b", 201),
		"listId": listID,
	}, token)
	tooLong.Body.Close()
	if tooLong.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for 201-char title, got %d", tooLong.StatusCode)
	}
}

func TestTaskDueDateBoundary(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskdue")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Dates"})

	today := time.Now().Format(models.DateLayout)
	task := createTestTask(t, app, token, map[string]interface{}{
		"title":   "Due today",
		"listId":  listID,
		"dueDate": today,
	})
	if task["dueDate"] != today {
		t.Errorf("Expected dueDate %q, got %v", today, task["dueDate"])
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	rejected := doJSON(t, app, "POST", "/api/tasks", map[string]interface{}{
		"title":   "Too late",
		"listId":  listID,
		"dueDate": yesterday,
	}, token)
	defer rejected.Body.Close()
	if rejected.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for past dueDate, got %d", rejected.StatusCode)
	}
	var result map[string]interface{}
	decodeBody(t, rejected, &result)
	if result["errors"] == nil {
		t.Errorf("Expected errors array for past dueDate")
	}
}

func TestTaskDueDateFormat(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskfmt")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Formats"})

	for _, bad := range []string{"2027/01/01", "2027-02-30", "next week"} {
		resp := doJSON(t, app, "POST", "/api/tasks", map[string]interface{}{
			"title":   "Bad date",
			"listId":  listID,
			"dueDate": bad,
		}, token)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400 for dueDate %q, got %d", bad, resp.StatusCode)
		}
	}
}

// TestPartialUpdate: hanya field yang dikirim yang berubah.
func TestPartialUpdate(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskpart")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Partial"})

	future := time.Now().AddDate(0, 1, 0).Format(models.DateLayout)
	created := createTestTask(t, app, token, map[string]interface{}{
		"title":       "Original title",
		"description": "Original description",
		"listId":      listID,
		"priority":    "high",
		"dueDate":     future,
	})
	taskID := int(created["id"].(float64))

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), map[string]interface{}{
		"completed": true,
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var updated map[string]interface{}
	decodeBody(t, resp, &updated)

	if updated["completed"] != true {
		t.Errorf("Expected completed true, got %v", updated["completed"])
	}
	// Field lain harus persis seperti sebelum update
	for _, field := range []string{"title", "description", "priority", "dueDate"} {
		if updated[field] != created[field] {
			t.Errorf("Field %q changed by partial update: %v -> %v", field, created[field], updated[field])
		}
	}
}

func TestUpdateClearDueDate(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskclear")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Clearing"})

	future := time.Now().AddDate(0, 0, 7).Format(models.DateLayout)
	created := createTestTask(t, app, token, map[string]interface{}{
		"title":   "Dated",
		"listId":  listID,
		"dueDate": future,
	})
	taskID := int(created["id"].(float64))

	// dueDate kosong eksplisit mengosongkan tanggal
	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), map[string]interface{}{
		"dueDate": "",
	}, token)
	var updated map[string]interface{}
	decodeBody(t, resp, &updated)
	if updated["dueDate"] != nil {
		t.Errorf("Expected dueDate cleared, got %v", updated["dueDate"])
	}

	// Begitu juga null eksplisit
	again := createTestTask(t, app, token, map[string]interface{}{
		"title":   "Dated again",
		"listId":  listID,
		"dueDate": future,
	})
	againID := int(again["id"].(float64))
	resp2 := doJSON(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", againID), map[string]interface{}{
		"dueDate": nil,
	}, token)
	var updated2 map[string]interface{}
	decodeBody(t, resp2, &updated2)
	if updated2["dueDate"] != nil {
		t.Errorf("Expected dueDate cleared by null, got %v", updated2["dueDate"])
	}
}

func TestUpdateTaskEmptyTitle(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskempty")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Titles"})
	created := createTestTask(t, app, token, map[string]interface{}{
		"title":  "Has title",
		"listId": listID,
	})
	taskID := int(created["id"].(float64))

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), map[string]interface{}{
		"title": "   ",
	}, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for blank title, got %d", resp.StatusCode)
	}
}

func TestGetTaskOtherUser(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	tokenA, _ := registerTestUser(t, app, "taskpriva")
	tokenB, _ := registerTestUser(t, app, "taskprivb")

	listID := createTestList(t, app, tokenA, map[string]interface{}{"title": "Mine"})
	task := createTestTask(t, app, tokenA, map[string]interface{}{"title": "Secret", "listId": listID})
	taskID := int(task["id"].(float64))

	own := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), nil, tokenA)
	own.Body.Close()
	if own.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for owner, got %d", own.StatusCode)
	}

	// Caller lain mendapat 404, bukan 403: keberadaan task tidak bocor.
	// Diperiksa dua kali supaya jalur cache ikut teruji.
	for i := 0; i < 2; i++ {
		foreign := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), nil, tokenB)
		foreign.Body.Close()
		if foreign.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404 for foreign task, got %d", foreign.StatusCode)
		}
	}
}

func TestTasksByListScoping(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskby")

	listA := createTestList(t, app, token, map[string]interface{}{"title": "A"})
	listB := createTestList(t, app, token, map[string]interface{}{"title": "B"})
	createTestTask(t, app, token, map[string]interface{}{"title": "In A", "listId": listA})
	createTestTask(t, app, token, map[string]interface{}{"title": "In B", "listId": listB})

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/list/%d", listA), nil, token)
	var tasks []map[string]interface{}
	decodeBody(t, resp, &tasks)
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task in list A, got %d", len(tasks))
	}
	if tasks[0]["title"] != "In A" {
		t.Errorf("Expected task 'In A', got %v", tasks[0]["title"])
	}

	missing := doJSON(t, app, "GET", "/api/tasks/list/999999", nil, token)
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown list, got %d", missing.StatusCode)
	}
}

func TestTaskIndexEmbedsList(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskidx")

	listID := createTestList(t, app, token, map[string]interface{}{
		"title": "Errands",
		"color": "#ff5733",
	})
	createTestTask(t, app, token, map[string]interface{}{"title": "Post office", "listId": listID})

	resp := doJSON(t, app, "GET", "/api/tasks", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var tasks []map[string]interface{}
	decodeBody(t, resp, &tasks)
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	list, ok := tasks[0]["list"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected embedded list summary")
	}
	if list["title"] != "Errands" || list["color"] != "#ff5733" {
		t.Errorf("Expected list summary {Errands, #ff5733}, got %v", list)
	}
}

func TestDeleteTask(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskdel")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Deleting"})
	task := createTestTask(t, app, token, map[string]interface{}{"title": "Goner", "listId": listID})
	taskID := int(task["id"].(float64))

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/tasks/%d", taskID), nil, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	get := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), nil, token)
	get.Body.Close()
	if get.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", get.StatusCode)
	}

	again := doJSON(t, app, "DELETE", fmt.Sprintf("/api/tasks/%d", taskID), nil, token)
	again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 on repeated delete, got %d", again.StatusCode)
	}
}

// TestTaskLifecycleScenario menelusuri alur lengkap: buat list, buat task,
// tandai selesai, lalu hapus list dan pastikan task ikut hilang.
func TestTaskLifecycleScenario(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "scenario")

	listID := createTestList(t, app, token, map[string]interface{}{
		"title": "Groceries",
		"color": "#28a745",
	})

	task := createTestTask(t, app, token, map[string]interface{}{
		"title":  "Buy milk",
		"listId": listID,
	})
	taskID := int(task["id"].(float64))
	if task["priority"] != "medium" || task["completed"] != false {
		t.Errorf("Expected fresh task with defaults, got priority=%v completed=%v",
			task["priority"], task["completed"])
	}
	summary := task["list"].(map[string]interface{})
	if summary["title"] != "Groceries" || summary["color"] != "#28a745" {
		t.Errorf("Expected list summary {Groceries, #28a745}, got %v", summary)
	}

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), map[string]interface{}{
		"completed": true,
	}, token)
	var updated map[string]interface{}
	decodeBody(t, resp, &updated)
	if updated["completed"] != true {
		t.Errorf("Expected completed true after update, got %v", updated["completed"])
	}
	if updated["title"] != "Buy milk" {
		t.Errorf("Expected title untouched, got %v", updated["title"])
	}

	del := doJSON(t, app, "DELETE", fmt.Sprintf("/api/lists/%d", listID), nil, token)
	del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 from delete list, got %d", del.StatusCode)
	}

	get := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), nil, token)
	get.Body.Close()
	if get.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 for task after list delete, got %d", get.StatusCode)
	}
}

// TestCreateGetRoundTrip: field kiriman user kembali persis lewat getOne.
func TestCreateGetRoundTrip(t *testing.T) {
	requireStore(t)
	app := createTestApp()
	token, _ := registerTestUser(t, app, "taskround")
	listID := createTestList(t, app, token, map[string]interface{}{"title": "Round"})

	due := time.Now().AddDate(0, 2, 0).Format(models.DateLayout)
	created := createTestTask(t, app, token, map[string]interface{}{
		"title":       "Exact",
		"description": "precisely this",
		"listId":      listID,
		"priority":    "low",
		"dueDate":     due,
	})
	taskID := int(created["id"].(float64))

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), nil, token)
	var got map[string]interface{}
	decodeBody(t, resp, &got)

	if got["title"] != "Exact" || got["description"] != "precisely this" ||
		got["priority"] != "low" || got["dueDate"] != due {
		t.Errorf("Round trip mismatch: %v", got)
	}
	if got["id"] == nil || got["created_at"] == nil {
		t.Errorf("Expected generated id and created_at")
	}
}
