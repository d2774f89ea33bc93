package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	"portfolio-api/models"
)

func seedPost(t *testing.T, db *gorm.DB, slug, status string, publishedAt *time.Time) models.BlogPost {
	t.Helper()
	post := models.BlogPost{
		Title:       "Post " + slug,
		Slug:        slug,
		Status:      status,
		AuthorID:    "author-1",
		PublishedAt: publishedAt,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post %s: %v", slug, err)
	}
	return post
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag %s: %v", slug, err)
	}
	return tag
}

type postListResponse struct {
	Posts   []models.BlogPost `json:"posts"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

func TestListPostsPaginatesAndHidesDrafts(t *testing.T) {
	router, db, _ := setupTestRouter(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		seedPost(t, db, fmt.Sprintf("published-%d", i), models.StatusPublished, &at)
	}
	for i := 0; i < 3; i++ {
		seedPost(t, db, fmt.Sprintf("draft-%d", i), models.StatusDraft, nil)
	}

	w := doJSON(t, router, http.MethodGet, "/api/blog/posts", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp postListResponse
	decodeBody(t, w, &resp)

	if resp.Total != 12 {
		t.Errorf("expected total 12, got %d", resp.Total)
	}
	if len(resp.Posts) != 10 {
		t.Errorf("expected default page size 10, got %d posts", len(resp.Posts))
	}
	for _, p := range resp.Posts {
		if p.Status != models.StatusPublished {
			t.Errorf("draft post %s leaked into public listing", p.Slug)
		}
	}
	// Neueste zuerst
	if resp.Posts[0].Slug != "published-11" {
		t.Errorf("expected newest post first, got %s", resp.Posts[0].Slug)
	}

	w = doJSON(t, router, http.MethodGet, "/api/blog/posts?page=2", nil, "")
	decodeBody(t, w, &resp)
	if len(resp.Posts) != 2 {
		t.Errorf("expected 2 posts on page 2, got %d", len(resp.Posts))
	}
}

func TestListPostsClampsPageParams(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	at := time.Now().UTC()
	seedPost(t, db, "only-one", models.StatusPublished, &at)

	w := doJSON(t, router, http.MethodGet, "/api/blog/posts?page=0&per_page=500", nil, "")
	var resp postListResponse
	decodeBody(t, w, &resp)
	if resp.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", resp.Page)
	}
	if resp.PerPage != 50 {
		t.Errorf("expected per_page clamped to 50, got %d", resp.PerPage)
	}
}

func TestListPostsByTagSlug(t *testing.T) {
	router, db, _ := setupTestRouter(t)

	at := time.Now().UTC()
	tagged := seedPost(t, db, "tagged", models.StatusPublished, &at)
	seedPost(t, db, "untagged", models.StatusPublished, &at)
	tag := seedTag(t, db, "Training", "training")
	if err := db.Create(&models.BlogPostTag{PostID: tagged.ID, TagID: tag.ID}).Error; err != nil {
		t.Fatalf("failed to link tag: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/blog/posts?tag=training", nil, "")
	var resp postListResponse
	decodeBody(t, w, &resp)
	if resp.Total != 1 || len(resp.Posts) != 1 {
		t.Fatalf("expected exactly one tagged post, got total=%d len=%d", resp.Total, len(resp.Posts))
	}
	if resp.Posts[0].Slug != "tagged" {
		t.Errorf("expected post 'tagged', got %s", resp.Posts[0].Slug)
	}
	if len(resp.Posts[0].Tags) != 1 || resp.Posts[0].Tags[0].Slug != "training" {
		t.Errorf("expected tag 'training' attached, got %+v", resp.Posts[0].Tags)
	}

	// Unbekannter Slug liefert eine leere Seite, keinen Fehler
	w = doJSON(t, router, http.MethodGet, "/api/blog/posts?tag=does-not-exist", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown tag, got %d", w.Code)
	}
	decodeBody(t, w, &resp)
	if resp.Total != 0 || len(resp.Posts) != 0 {
		t.Errorf("expected empty result for unknown tag, got total=%d len=%d", resp.Total, len(resp.Posts))
	}
}

func TestGetPostBySlugOnlyPublished(t *testing.T) {
	router, db, _ := setupTestRouter(t)

	at := time.Now().UTC()
	seedPost(t, db, "live-post", models.StatusPublished, &at)
	seedPost(t, db, "hidden-draft", models.StatusDraft, nil)

	w := doJSON(t, router, http.MethodGet, "/api/blog/posts/live-post", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/blog/posts/hidden-draft", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for draft slug, got %d", w.Code)
	}
}

func TestCreatePostStampsPublishedAt(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	w := doJSON(t, router, http.MethodPost, "/api/blog/admin/posts", map[string]interface{}{
		"title":  "Launch",
		"slug":   "launch",
		"status": models.StatusPublished,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.BlogPost
	decodeBody(t, w, &created)
	if created.PublishedAt == nil {
		t.Error("expected published_at to be set on published create")
	}
	if created.AuthorID != "user-abc" {
		t.Errorf("expected author from token subject, got %q", created.AuthorID)
	}

	w = doJSON(t, router, http.MethodPost, "/api/blog/admin/posts", map[string]interface{}{
		"title": "WIP",
		"slug":  "wip",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &created)
	if created.Status != models.StatusDraft {
		t.Errorf("expected default status draft, got %q", created.Status)
	}
	if created.PublishedAt != nil {
		t.Error("expected nil published_at on draft create")
	}
}

func TestCreatePostRejectsInvalidStatus(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	w := doJSON(t, router, http.MethodPost, "/api/blog/admin/posts", map[string]interface{}{
		"title":  "Bad",
		"slug":   "bad",
		"status": "archived",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w.Code)
	}
}

func TestUpdatePostEmptyPatchRejected(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")
	post := seedPost(t, db, "patch-me", models.StatusDraft, nil)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), map[string]interface{}{}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdatePostReplacesTags(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	post := seedPost(t, db, "tag-swap", models.StatusDraft, nil)
	tagA := seedTag(t, db, "A", "a")
	tagB := seedTag(t, db, "B", "b")

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), map[string]interface{}{
		"tag_ids": []uint{tagA.ID, tagB.ID},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.BlogPost
	decodeBody(t, w, &updated)
	if len(updated.Tags) != 2 {
		t.Fatalf("expected 2 tags after update, got %d", len(updated.Tags))
	}

	// Leere Liste entfernt alle Verknüpfungen
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), map[string]interface{}{
		"tag_ids": []uint{},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &updated)
	if len(updated.Tags) != 0 {
		t.Errorf("expected tags cleared, got %d", len(updated.Tags))
	}

	// Patch ohne tag_ids lässt bestehende Verknüpfungen unberührt
	if err := db.Create(&models.BlogPostTag{PostID: post.ID, TagID: tagA.ID}).Error; err != nil {
		t.Fatalf("failed to relink tag: %v", err)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), map[string]interface{}{
		"title": "renamed",
	}, token)
	decodeBody(t, w, &updated)
	if len(updated.Tags) != 1 {
		t.Errorf("expected existing tag untouched, got %d tags", len(updated.Tags))
	}
}

func TestPublishAndUnpublishTransitions(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")
	post := seedPost(t, db, "toggle", models.StatusDraft, nil)

	w := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/blog/admin/posts/%d/publish", post.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var current models.BlogPost
	decodeBody(t, w, &current)
	if current.Status != models.StatusPublished || current.PublishedAt == nil {
		t.Errorf("expected published with timestamp, got status=%q published_at=%v", current.Status, current.PublishedAt)
	}

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/blog/admin/posts/%d/unpublish", post.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &current)
	if current.Status != models.StatusDraft || current.PublishedAt != nil {
		t.Errorf("expected draft with cleared timestamp, got status=%q published_at=%v", current.Status, current.PublishedAt)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/blog/admin/posts/99999/publish", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing post, got %d", w.Code)
	}
}

func TestUnpublishViaUpdateClearsTimestamp(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")
	at := time.Now().UTC()
	post := seedPost(t, db, "via-update", models.StatusPublished, &at)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), map[string]interface{}{
		"status": models.StatusDraft,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.BlogPost
	decodeBody(t, w, &updated)
	if updated.PublishedAt != nil {
		t.Errorf("expected published_at cleared, got %v", updated.PublishedAt)
	}
}

func TestDeletePostRemovesTagLinks(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	post := seedPost(t, db, "doomed", models.StatusDraft, nil)
	tag := seedTag(t, db, "Keep", "keep")
	if err := db.Create(&models.BlogPostTag{PostID: post.ID, TagID: tag.ID}).Error; err != nil {
		t.Fatalf("failed to link tag: %v", err)
	}

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var linkCount int64
	db.Model(&models.BlogPostTag{}).Where("post_id = ?", post.ID).Count(&linkCount)
	if linkCount != 0 {
		t.Errorf("expected tag links removed with post, found %d", linkCount)
	}
	// Das Tag selbst bleibt erhalten
	var tagCount int64
	db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&tagCount)
	if tagCount != 1 {
		t.Errorf("tag should survive post deletion")
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/blog/admin/posts/%d", post.ID), nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestTagCreateAndDelete(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	w := doJSON(t, router, http.MethodPost, "/api/blog/admin/tags", map[string]interface{}{
		"name": "Running",
		"slug": "running",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var tag models.Tag
	decodeBody(t, w, &tag)

	post := seedPost(t, db, "runner", models.StatusDraft, nil)
	if err := db.Create(&models.BlogPostTag{PostID: post.ID, TagID: tag.ID}).Error; err != nil {
		t.Fatalf("failed to link tag: %v", err)
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/blog/admin/tags/%d", tag.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var linkCount int64
	db.Model(&models.BlogPostTag{}).Where("tag_id = ?", tag.ID).Count(&linkCount)
	if linkCount != 0 {
		t.Errorf("expected post links removed with tag, found %d", linkCount)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/blog/admin/tags/424242", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown tag, got %d", w.Code)
	}
}

func TestAdminPostListIncludesDrafts(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	at := time.Now().UTC()
	seedPost(t, db, "pub", models.StatusPublished, &at)
	seedPost(t, db, "dra", models.StatusDraft, nil)

	w := doJSON(t, router, http.MethodGet, "/api/blog/admin/posts", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var posts []models.BlogPost
	decodeBody(t, w, &posts)
	if len(posts) != 2 {
		t.Errorf("expected both posts in admin listing, got %d", len(posts))
	}
}

func TestPostIDMustBeNumeric(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	w := doJSON(t, router, http.MethodGet, "/api/blog/admin/posts/not-a-number", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric id, got %d", w.Code)
	}
}
