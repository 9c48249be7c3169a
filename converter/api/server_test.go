package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeSource is an in-memory value cache.
type fakeSource struct {
	values map[string]string
	topics []string
}

func (f *fakeSource) ListTopics() []string {
	return f.topics
}

func (f *fakeSource) GetValue(topic string) (string, bool) {
	value, ok := f.values[topic]
	return value, ok
}

func doRequest(t *testing.T, source ValueSource, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := NewServer(0, source)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	server.router().ServeHTTP(recorder, request)
	return recorder
}

func TestListTopics(t *testing.T) {
	source := &fakeSource{topics: []string{"a/one", "b/two"}}

	recorder := doRequest(t, source, "/list_topics")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", recorder.Code, http.StatusOK)
	}
	if body := recorder.Body.String(); body != "a/one,b/two" {
		t.Errorf("body = %q, expected %q", body, "a/one,b/two")
	}
}

func TestListTopicsEmpty(t *testing.T) {
	recorder := doRequest(t, &fakeSource{}, "/list_topics")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", recorder.Code, http.StatusOK)
	}
	if body := recorder.Body.String(); body != "" {
		t.Errorf("body = %q, expected empty", body)
	}
}

func TestGetValue(t *testing.T) {
	source := &fakeSource{values: map[string]string{"garage/temp": "21.5"}}

	recorder := doRequest(t, source, "/get_value?topic=garage%2Ftemp")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", recorder.Code, http.StatusOK)
	}
	if body := recorder.Body.String(); body != "21.5" {
		t.Errorf("body = %q, expected %q", body, "21.5")
	}
}

func TestGetValueNotFound(t *testing.T) {
	recorder := doRequest(t, &fakeSource{}, "/get_value?topic=unknown")

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, expected %d", recorder.Code, http.StatusNotFound)
	}
	if body := recorder.Body.String(); body != `Topic "unknown" not found` {
		t.Errorf("body = %q, expected not-found text", body)
	}
}
