package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rollcall/internal/apperr"
)

func serveFailing(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) { fail(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return w
}

func TestFailStatusMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:          apperr.New(apperr.Validation, "bad input"),
		http.StatusUnauthorized:        apperr.New(apperr.Unauthenticated, "Authentication failed"),
		http.StatusForbidden:           apperr.New(apperr.Forbidden, "no access"),
		http.StatusNotFound:            apperr.New(apperr.NotFound, "missing"),
		http.StatusInternalServerError: apperr.NewInternal("boom", errors.New("db down")),
	}
	for status, err := range cases {
		w := serveFailing(t, err)
		if w.Code != status {
			t.Fatalf("error %v: expected status %d got %d", err, status, w.Code)
		}
		var body map[string]any
		if jerr := json.Unmarshal(w.Body.Bytes(), &body); jerr != nil {
			t.Fatalf("expected JSON body, got %q", w.Body.String())
		}
		if body["error"] == "" {
			t.Fatalf("expected error field in body %v", body)
		}
	}
}

func TestFailIncludesFieldIssues(t *testing.T) {
	err := apperr.NewValidation("Invalid course data",
		apperr.FieldIssue{Field: "students.neptun_code", Message: "Neptun code must be exactly 6 characters"})
	w := serveFailing(t, err)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "neptun_code") {
		t.Fatalf("expected issue naming the field, got %s", w.Body.String())
	}
}

func TestFailWrapsUnknownErrors(t *testing.T) {
	w := serveFailing(t, errors.New("plain failure"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped error, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Fatalf("expected structured body, got %s", w.Body.String())
	}
}
