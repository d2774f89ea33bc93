package main

import (
	"net/http"
	"testing"

	"portfolio-api/models"
)

func TestGetSettingsEmptyBeforeFirstWrite(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/settings", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "{}" {
		t.Errorf("expected empty object before first write, got %s", w.Body.String())
	}
}

func TestUpdateSettingsUpsertsSingleton(t *testing.T) {
	router, db, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	w := doJSON(t, router, http.MethodPut, "/api/settings/admin", map[string]interface{}{
		"hero_tagline":  "Fast und vorn",
		"contact_email": "mail@example.com",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var settings models.SiteSettings
	decodeBody(t, w, &settings)
	if settings.ID != models.SiteSettingsID {
		t.Errorf("expected singleton id %d, got %d", models.SiteSettingsID, settings.ID)
	}
	if settings.HeroTagline != "Fast und vorn" {
		t.Errorf("unexpected hero_tagline %q", settings.HeroTagline)
	}

	// Zweites Update überschreibt nur die mitgesendeten Felder
	w = doJSON(t, router, http.MethodPut, "/api/settings/admin", map[string]interface{}{
		"about_text": "Über mich",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &settings)
	if settings.AboutText != "Über mich" {
		t.Errorf("expected about_text updated, got %q", settings.AboutText)
	}
	if settings.HeroTagline != "Fast und vorn" {
		t.Errorf("expected hero_tagline preserved, got %q", settings.HeroTagline)
	}

	// Es bleibt bei genau einer Zeile
	var count int64
	db.Model(&models.SiteSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one settings row, got %d", count)
	}
}

func TestUpdateSettingsEmptyPatchRejected(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	token := adminToken(t, "user-abc")

	w := doJSON(t, router, http.MethodPut, "/api/settings/admin", map[string]interface{}{}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %d: %s", w.Code, w.Body.String())
	}
}
