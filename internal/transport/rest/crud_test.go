package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/risinglab/rising-backend/internal/domain"
)

// widget is a minimal entity for exercising the generic factories.
type widget struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Images []string  `json:"images"`
	Status string    `json:"status"`
}

type widgetRepo struct {
	items     map[uuid.UUID]*widget
	lastQuery domain.ListQuery
	findErr   error
}

func newWidgetRepo() *widgetRepo {
	return &widgetRepo{items: make(map[uuid.UUID]*widget)}
}

func (r *widgetRepo) Find(_ context.Context, q domain.ListQuery) ([]widget, error) {
	r.lastQuery = q
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := []widget{}
	for _, w := range r.items {
		out = append(out, *w)
	}
	return out, nil
}

func (r *widgetRepo) Create(_ context.Context, fields domain.Fields) (*widget, error) {
	name, _ := fields.String("name")
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	images, _ := fields.Strings("images")
	if images == nil {
		images = []string{}
	}
	w := &widget{ID: uuid.New(), Name: name, Images: images, Status: "active"}
	if s, ok := fields.String("status"); ok && s != "" {
		w.Status = s
	}
	r.items[w.ID] = w
	return w, nil
}

func (r *widgetRepo) FindByID(_ context.Context, id uuid.UUID) (*widget, error) {
	w, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("widget %s: %w", id, domain.ErrNotFound)
	}
	copied := *w
	return &copied, nil
}

func (r *widgetRepo) UpdateByID(_ context.Context, id uuid.UUID, fields domain.Fields) (*widget, error) {
	w, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("widget %s: %w", id, domain.ErrNotFound)
	}
	if name, ok := fields.String("name"); ok {
		w.Name = name
	}
	if images, ok := fields.Strings("images"); ok {
		w.Images = images
	}
	if s, ok := fields.String("status"); ok {
		w.Status = s
	}
	copied := *w
	return &copied, nil
}

func (r *widgetRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("widget %s: %w", id, domain.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

// fakeUploader hands out sequential URLs and can fail specific uploads.
type fakeUploader struct {
	calls     int
	failOn    map[int]bool
	uploads   []string
	filenames []string
}

func (u *fakeUploader) Upload(_ context.Context, dataURI, filename string) (string, error) {
	u.calls++
	if u.failOn[u.calls] {
		return "", errors.New("upload rejected")
	}
	u.uploads = append(u.uploads, dataURI)
	u.filenames = append(u.filenames, filename)
	return fmt.Sprintf("https://cdn.example.com/asset-%d.jpg", u.calls), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testNormalizer(media uploader) *Normalizer {
	return NewNormalizer(media, testLogger())
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestCreate_JSONThenGet(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	create := Create[widget](repo, testNormalizer(nil), "Widget", testLogger())

	body := strings.NewReader(`{"name":"Ring","status":"inactive"}`)
	req := httptest.NewRequest(http.MethodPost, "/widgets", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Message string `json:"message"`
		Item    widget `json:"item"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Message != "Widget created successfully" {
		t.Errorf("unexpected message %q", created.Message)
	}
	if created.Item.ID == uuid.Nil {
		t.Fatal("expected a persisted identifier")
	}
	if created.Item.Status != "inactive" {
		t.Errorf("expected status inactive, got %q", created.Item.Status)
	}

	// The identifier must be retrievable immediately after.
	get := Get[widget](repo, testLogger())
	getReq := httptest.NewRequest(http.MethodGet, "/widgets/"+created.Item.ID.String(), nil)
	getReq.SetPathValue("id", created.Item.ID.String())
	getRec := httptest.NewRecorder()

	get(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", getRec.Code)
	}
	var fetched widget
	if err := json.NewDecoder(getRec.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if fetched.ID != created.Item.ID {
		t.Errorf("expected id %s, got %s", created.Item.ID, fetched.ID)
	}
}

func TestCreate_ValidationError400(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	create := Create[widget](repo, testNormalizer(nil), "Widget", testLogger())

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(repo.items) != 0 {
		t.Error("nothing should be persisted")
	}
}

func TestCreate_MultipartImages(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	media := &fakeUploader{}
	create := Create[widget](repo, testNormalizer(media), "Widget", testLogger())

	body, contentType := multipartBody(t,
		map[string]string{"name": "Ring"},
		map[string][]byte{"a.jpg": []byte("first"), "b.jpg": []byte("second")})
	req := httptest.NewRequest(http.MethodPost, "/widgets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Item widget `json:"item"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(created.Item.Images) != 2 {
		t.Fatalf("expected 2 image URLs, got %d", len(created.Item.Images))
	}
	for _, u := range created.Item.Images {
		if !strings.HasPrefix(u, "https://cdn.example.com/") {
			t.Errorf("expected remote URL, got %q", u)
		}
	}
	if created.Item.Status != "active" {
		t.Errorf("expected default status active, got %q", created.Item.Status)
	}
}

func TestCreate_FailedUploadSilentlyDropped(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	media := &fakeUploader{failOn: map[int]bool{1: true}}
	create := Create[widget](repo, testNormalizer(media), "Widget", testLogger())

	body, contentType := multipartBody(t,
		map[string]string{"name": "Ring"},
		map[string][]byte{"a.jpg": []byte("first"), "b.jpg": []byte("second")})
	req := httptest.NewRequest(http.MethodPost, "/widgets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var created struct {
		Item widget `json:"item"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(created.Item.Images) != 1 {
		t.Fatalf("expected the failed upload to be dropped, got %d URLs", len(created.Item.Images))
	}
}

func TestGet_MissingID400(t *testing.T) {
	t.Parallel()

	get := Get[widget](newWidgetRepo(), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/widgets/", nil)
	rec := httptest.NewRecorder()

	get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGet_InvalidID400(t *testing.T) {
	t.Parallel()

	get := Get[widget](newWidgetRepo(), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/widgets/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestPatch_UnknownID404_CollectionUnchanged(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	existing, _ := repo.Create(context.Background(), domain.Fields{"name": "Keep"})

	patch := Patch[widget](repo, testNormalizer(nil), testLogger())
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/widgets/"+id.String(), strings.NewReader(`{"name":"New"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	patch(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if repo.items[existing.ID].Name != "Keep" {
		t.Error("collection must be unchanged after a 404 update")
	}
}

func TestPatch_UnsupportedContentType415(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	existing, _ := repo.Create(context.Background(), domain.Fields{"name": "Keep"})

	patch := Patch[widget](repo, testNormalizer(nil), testLogger())
	req := httptest.NewRequest(http.MethodPatch, "/widgets/"+existing.ID.String(), strings.NewReader("name=New"))
	req.Header.Set("Content-Type", "text/plain")
	req.SetPathValue("id", existing.ID.String())
	rec := httptest.NewRecorder()

	patch(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d", rec.Code)
	}
	if repo.items[existing.ID].Name != "Keep" {
		t.Error("no persistence change expected on a 415")
	}
}

func TestPatch_FormKeepsAbsoluteImageURLs(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	existing, _ := repo.Create(context.Background(), domain.Fields{"name": "Keep"})

	media := &fakeUploader{}
	patch := Patch[widget](repo, testNormalizer(media), testLogger())

	form := url.Values{}
	form.Set("name", "Updated")
	form.Add("images", "https://cdn.example.com/already-stored.jpg")
	req := httptest.NewRequest(http.MethodPatch, "/widgets/"+existing.ID.String(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", existing.ID.String())
	rec := httptest.NewRecorder()

	patch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if media.calls != 0 {
		t.Errorf("absolute URLs must not be re-uploaded, got %d uploads", media.calls)
	}
	var updated widget
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(updated.Images) != 1 || updated.Images[0] != "https://cdn.example.com/already-stored.jpg" {
		t.Errorf("expected the existing URL to be kept, got %v", updated.Images)
	}
	if updated.Name != "Updated" {
		t.Errorf("expected name Updated, got %q", updated.Name)
	}
}

func TestDelete_ThenGet404(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	existing, _ := repo.Create(context.Background(), domain.Fields{"name": "Gone"})

	del := Delete(repo, testLogger())
	req := httptest.NewRequest(http.MethodDelete, "/widgets/"+existing.ID.String(), nil)
	req.SetPathValue("id", existing.ID.String())
	rec := httptest.NewRecorder()

	del(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("expected empty body on delete")
	}

	get := Get[widget](repo, testLogger())
	getReq := httptest.NewRequest(http.MethodGet, "/widgets/"+existing.ID.String(), nil)
	getReq.SetPathValue("id", existing.ID.String())
	getRec := httptest.NewRecorder()

	get(getRec, getReq)

	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", getRec.Code)
	}
}

func TestDelete_UnknownID404(t *testing.T) {
	t.Parallel()

	del := Delete(newWidgetRepo(), testLogger())
	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/widgets/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	del(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestList_ForwardsQueryParams(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	list := List[widget](repo, testLogger())

	filter := url.QueryEscape(`{"status":"active"}`)
	options := url.QueryEscape(`{"sort":{"createdAt":-1},"limit":5,"skip":10}`)
	req := httptest.NewRequest(http.MethodGet, "/widgets?filter="+filter+"&options="+options, nil)
	rec := httptest.NewRecorder()

	list(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got, _ := repo.lastQuery.Filter.String("status"); got != "active" {
		t.Errorf("expected status filter to reach the repo, got %v", repo.lastQuery.Filter)
	}
	if repo.lastQuery.Limit != 5 || repo.lastQuery.Skip != 10 {
		t.Errorf("expected limit 5 skip 10, got %d %d", repo.lastQuery.Limit, repo.lastQuery.Skip)
	}
	if len(repo.lastQuery.Sort) != 1 || !repo.lastQuery.Sort[0].Desc {
		t.Errorf("expected descending createdAt sort, got %v", repo.lastQuery.Sort)
	}
}

func TestList_MalformedFilter500(t *testing.T) {
	t.Parallel()

	list := List[widget](newWidgetRepo(), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/widgets?filter=not-json", nil)
	rec := httptest.NewRecorder()

	list(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestList_ProjectionInclude(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	created, _ := repo.Create(context.Background(), domain.Fields{"name": "Ring"})

	list := List[widget](repo, testLogger())
	projection := url.QueryEscape(`{"name":1}`)
	req := httptest.NewRequest(http.MethodGet, "/widgets?projection="+projection, nil)
	rec := httptest.NewRecorder()

	list(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var docs []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	doc := docs[0]
	if doc["name"] != "Ring" {
		t.Errorf("expected projected name, got %v", doc)
	}
	if doc["id"] != created.ID.String() {
		t.Errorf("expected the id to ride along, got %v", doc)
	}
	if _, present := doc["status"]; present {
		t.Errorf("status must be dropped by an include projection, got %v", doc)
	}
}

func TestList_ProjectionExclude(t *testing.T) {
	t.Parallel()

	repo := newWidgetRepo()
	repo.Create(context.Background(), domain.Fields{"name": "Ring"}) //nolint:errcheck

	list := List[widget](repo, testLogger())
	projection := url.QueryEscape(`{"images":0}`)
	req := httptest.NewRequest(http.MethodGet, "/widgets?projection="+projection, nil)
	rec := httptest.NewRecorder()

	list(rec, req)

	var docs []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	doc := docs[0]
	if _, present := doc["images"]; present {
		t.Errorf("images must be dropped by an exclude projection, got %v", doc)
	}
	if doc["name"] != "Ring" {
		t.Errorf("other fields must survive an exclude projection, got %v", doc)
	}
}
