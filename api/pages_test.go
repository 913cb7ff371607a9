package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/devsearch-backend/testutil"
)

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func withCookies(req *http.Request, cookies ...*http.Cookie) *http.Request {
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	return req
}

func loginCookie(t *testing.T, router http.Handler, username string) *http.Cookie {
	t.Helper()
	rec := serve(router, formRequest(http.MethodPost, "/login/", url.Values{
		"username": {username},
		"password": {testutil.TestPassword},
	}))
	testutil.AssertStatus(t, rec, http.StatusFound)
	cookie := cookieNamed(rec, accessTokenCookie)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("Expected the login to set the access token cookie")
	}
	return cookie
}

func TestLoginPage(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateTestProfile(t, db, "alice")

	tests := []struct {
		name     string
		form     url.Values
		status   int
		location string
	}{
		{"success", url.Values{"username": {"alice"}, "password": {testutil.TestPassword}}, http.StatusFound, "/account"},
		{"success with next", url.Values{"username": {"alice"}, "password": {testutil.TestPassword}, "next": {"/inbox"}}, http.StatusFound, "/inbox"},
		{"offsite next ignored", url.Values{"username": {"alice"}, "password": {testutil.TestPassword}, "next": {"//evil.example"}}, http.StatusFound, "/account"},
		{"bad password", url.Values{"username": {"alice"}, "password": {"nope"}}, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, formRequest(http.MethodPost, "/login/", tt.form))
			testutil.AssertStatus(t, rec, tt.status)
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Errorf("Expected redirect to %s, got %s", tt.location, rec.Header().Get("Location"))
			}
			if tt.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), "Username or password is incorrect.") {
				t.Error("Expected the login form to show the failure")
			}
		})
	}
}

func TestAccountRequiresLogin(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateTestProfile(t, db, "alice")

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/account", nil))
	testutil.AssertStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != "/login/?next=%2Faccount" {
		t.Errorf("Unexpected redirect %q", got)
	}

	cookie := loginCookie(t, router, "alice")
	rec = serve(router, withCookies(httptest.NewRequest(http.MethodGet, "/account", nil), cookie))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Error("Expected the account page to show the profile email")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("Expected security headers on pages")
	}
}

func TestStaleCookieIsDropped(t *testing.T) {
	router, _ := setupRouter(t)

	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), &http.Cookie{Name: accessTokenCookie, Value: "stale"})
	rec := serve(router, req)
	testutil.AssertStatus(t, rec, http.StatusOK)
	if c := cookieNamed(rec, accessTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Error("Expected the stale cookie to be cleared")
	}
}

func TestFlashShownOnce(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateTestProfile(t, db, "alice")

	rec := serve(router, formRequest(http.MethodPost, "/login/", url.Values{
		"username": {"alice"},
		"password": {testutil.TestPassword},
	}))
	access := cookieNamed(rec, accessTokenCookie)
	flash := cookieNamed(rec, flashCookie)
	if flash == nil {
		t.Fatal("Expected a flash cookie after login")
	}

	rec = serve(router, withCookies(httptest.NewRequest(http.MethodGet, "/account", nil), access, flash))
	if !strings.Contains(rec.Body.String(), "Welcome back, alice!") {
		t.Error("Expected the flash message on the next page")
	}
	if c := cookieNamed(rec, flashCookie); c == nil || c.MaxAge >= 0 {
		t.Error("Expected the flash cookie to be cleared once shown")
	}
}

func TestFlashExpires(t *testing.T) {
	f := newFlasher([]byte(testutil.TestSecret), cookieJar{})
	rec := httptest.NewRecorder()
	f.set(rec, flashInfo, "hello")
	cookie := cookieNamed(rec, flashCookie)

	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	if got := f.pop(httptest.NewRecorder(), req); got == nil || got.Message != "hello" {
		t.Fatalf("Expected the flash to be readable, got %+v", got)
	}

	f.now = func() time.Time { return time.Now().Add(flashTTL + time.Second) }
	if got := f.pop(httptest.NewRecorder(), req); got != nil {
		t.Errorf("Expected an expired flash to be ignored, got %+v", got)
	}

	tampered := *cookie
	tampered.Value += "x"
	f.now = time.Now
	req = withCookies(httptest.NewRequest(http.MethodGet, "/", nil), &tampered)
	if got := f.pop(httptest.NewRecorder(), req); got != nil {
		t.Errorf("Expected a tampered flash to be ignored, got %+v", got)
	}
}

func TestProfilesPageSearch(t *testing.T) {
	router, db := setupRouter(t)
	testutil.CreateTestProfile(t, db, "gopher")
	testutil.CreateTestProfile(t, db, "rustacean")

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/?search_query=goph", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "gopher") || strings.Contains(body, "rustacean") {
		t.Error("Expected only the matching developer")
	}
}

func TestRegisterPageShowsErrors(t *testing.T) {
	router, _ := setupRouter(t)

	rec := serve(router, formRequest(http.MethodPost, "/register/", url.Values{
		"username":   {"dave"},
		"email":      {"dave@example.com"},
		"password":   {testutil.TestPassword},
		"password_2": {"Different1!"},
	}))
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)
	if !strings.Contains(rec.Body.String(), "Passwords do not match.") {
		t.Error("Expected the confirmation error on the form")
	}

	rec = serve(router, formRequest(http.MethodPost, "/register/", url.Values{
		"username":   {"dave"},
		"email":      {"dave@example.com"},
		"password":   {testutil.TestPassword},
		"password_2": {testutil.TestPassword},
	}))
	testutil.AssertStatus(t, rec, http.StatusFound)
	if rec.Header().Get("Location") != "/edit-account" || cookieNamed(rec, accessTokenCookie) == nil {
		t.Error("Expected a signed-in redirect to the account editor")
	}
}

func TestAnonymousMessagePage(t *testing.T) {
	router, db := setupRouter(t)
	alice := testutil.CreateTestProfile(t, db, "alice")
	path := "/create-message/" + alice.ID.String()

	rec := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = serve(router, formRequest(http.MethodPost, path, url.Values{"subject": {"Hi"}, "body": {"Hello"}}))
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)

	rec = serve(router, formRequest(http.MethodPost, path, url.Values{
		"name":    {"Visitor"},
		"email":   {"visitor@example.com"},
		"subject": {"Hi"},
		"body":    {"Hello"},
	}))
	testutil.AssertStatus(t, rec, http.StatusFound)

	cookie := loginCookie(t, router, "alice")
	rec = serve(router, withCookies(httptest.NewRequest(http.MethodGet, "/inbox", nil), cookie))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Visitor") {
		t.Error("Expected the message in the inbox")
	}
}

func TestProjectPages(t *testing.T) {
	router, db := setupRouter(t)
	owner := testutil.CreateTestProfile(t, db, "owner")
	testutil.CreateTestProfile(t, db, "voter")
	project := testutil.CreateTestProject(t, db, owner, "Portfolio", "go")
	projectPath := "/projects/project/" + project.ID.String()

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/projects/?search_query=go", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Portfolio") {
		t.Error("Expected the project found by tag")
	}

	voter := loginCookie(t, router, "voter")
	rec = serve(router, withCookies(formRequest(http.MethodPost, projectPath, url.Values{"value": {"up"}, "body": {"Great"}}), voter))
	testutil.AssertStatus(t, rec, http.StatusFound)

	rec = serve(router, withCookies(httptest.NewRequest(http.MethodGet, projectPath, nil), voter))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "100% Positive Feedback (1 Vote)") {
		t.Error("Expected the recomputed vote ratio on the page")
	}

	ownerCookie := loginCookie(t, router, "owner")
	rec = serve(router, withCookies(httptest.NewRequest(http.MethodGet, "/projects/update-project/"+project.ID.String(), nil), voter))
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	tag, err := db.TagRepo().FindByName(context.Background(), "go")
	if err != nil {
		t.Fatalf("Expected the test tag to exist: %v", err)
	}
	tagPath := projectPath + "/delete-tag/" + tag.ID.String()
	rec = serve(router, withCookies(httptest.NewRequest(http.MethodPost, tagPath, nil), ownerCookie))
	testutil.AssertStatus(t, rec, http.StatusFound)

	rec = serve(router, withCookies(httptest.NewRequest(http.MethodPost, "/projects/delete-project/"+project.ID.String(), nil), ownerCookie))
	testutil.AssertStatus(t, rec, http.StatusFound)

	rec = serve(router, httptest.NewRequest(http.MethodGet, projectPath, nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func projectFormRequest(t *testing.T, path string, fields url.Values, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			writer.WriteField(name, v)
		}
	}
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUpdateProjectPageIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    func(t *testing.T) []byte
		wantStatus int
		wantTitle  string
		wantTag    bool
	}{
		{
			name:       "undecodable image leaves the project untouched",
			filename:   "bad.jpg",
			content:    func(*testing.T) []byte { return []byte("not an image at all") },
			wantStatus: http.StatusUnprocessableEntity,
			wantTitle:  "Portfolio",
		},
		{
			name:       "valid image applies every change",
			filename:   "shot.png",
			content:    pngBytes,
			wantStatus: http.StatusFound,
			wantTitle:  "Changed",
			wantTag:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, db := setupRouter(t)
			owner := testutil.CreateTestProfile(t, db, "owner")
			project := testutil.CreateTestProject(t, db, owner, "Portfolio")
			ownerCookie := loginCookie(t, router, "owner")

			fields := url.Values{"title": {"Changed"}, "newtags": {"rust"}}
			req := projectFormRequest(t, "/projects/update-project/"+project.ID.String(), fields, tt.filename, tt.content(t))
			rec := serve(router, withCookies(req, ownerCookie))
			testutil.AssertStatus(t, rec, tt.wantStatus)

			stored, err := db.ProjectRepo().FindByID(context.Background(), project.ID)
			if err != nil {
				t.Fatalf("Failed to reload project: %v", err)
			}
			if stored.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", stored.Title, tt.wantTitle)
			}
			if got := stored.HasTagNamed("rust"); got != tt.wantTag {
				t.Errorf("tag rust attached = %v, want %v", got, tt.wantTag)
			}
			if changed := stored.FeaturedImage != project.FeaturedImage; changed != tt.wantTag {
				t.Errorf("featured image = %q, changed = %v", stored.FeaturedImage, changed)
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/account"},
		{"/inbox", "/inbox"},
		{"//evil.example", "/account"},
		{"https://evil.example", "/account"},
		{"/\\evil.example", "/account"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.next, "/account"); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}
