package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.CacheSize == 0 {
		opts.CacheSize = 8
	}
	if opts.MaxBodyKB == 0 {
		opts.MaxBodyKB = 64
	}
	s, err := New(opts, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postDiagram(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/diagram", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestDiagram_CSharpByDefault(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := postDiagram(t, ts, `{"files":[{"name":"Widget.cs","content":"public class Widget { public void Render() {} private int size; }"}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	assert.Equal(t, "classDiagram\n    class Widget {\n        +Render() : void\n        -size : int\n    }", body["mermaid"])
	entities := body["entities"].([]any)
	require.Len(t, entities, 1)
	entity := entities[0].(map[string]any)
	assert.Equal(t, "Widget", entity["name"])
	assert.Equal(t, "Widget.cs", entity["sourceName"])

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["classes"])
	assert.Equal(t, float64(2), stats["members"])
}

func TestDiagram_ExplicitLanguage(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := postDiagram(t, ts, `{"language":"python","files":[{"name":"a.py","content":"class A(Base):\n    def run(self):\n        pass\n"}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["mermaid"], "    Base <|-- A")
}

func TestDiagram_FiltersMalformedItemsAndNamesBlankOnes(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := postDiagram(t, ts, `{"language":"java","files":[
		{"name":"  ","content":"class Kept {}"},
		{"name":"Bad.java","content":42},
		{"content":"class Nameless {}"},
		"not an object"
	]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entities := body["entities"].([]any)
	require.Len(t, entities, 1)
	entity := entities[0].(map[string]any)
	assert.Equal(t, "Kept", entity["name"])
	assert.Equal(t, "Untitled.java", entity["sourceName"])
}

func TestDiagram_EmptyFiles(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := postDiagram(t, ts, `{"files":[]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", body["mermaid"])
	assert.Empty(t, body["entities"])
}

func TestDiagram_BadRequests(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing files", `{"language":"csharp"}`, "files payload missing"},
		{"null files", `{"files":null}`, "files payload missing"},
		{"unknown language", `{"language":"cobol","files":[]}`, "unsupported language"},
		{"invalid JSON", `{"files":`, "invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postDiagram(t, ts, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestDiagram_BodyLimit(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyKB: 1})

	big := strings.Repeat("x", 2048)
	resp, body := postDiagram(t, ts, `{"files":[{"name":"A.cs","content":"`+big+`"}]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "request body too large", body["error"])
}

func TestDiagram_FocusAndFilterOptions(t *testing.T) {
	ts := newTestServer(t, Options{})

	src := `class Animal {}\nclass Dog extends Animal { private int age; }\nclass Car {}`
	resp, body := postDiagram(t, ts, `{"language":"java","hidePrivate":true,"focus":["Dog"],"depth":1,"files":[{"name":"Zoo.java","content":"`+src+`"}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mermaid := body["mermaid"].(string)
	assert.NotContains(t, mermaid, "Car")
	assert.NotContains(t, mermaid, "age")
	assert.Contains(t, mermaid, "    Animal <|-- Dog")
}

func TestDiagram_SlidesAndNodeCap(t *testing.T) {
	ts := newTestServer(t, Options{})

	src := `class Base {}\nclass Child extends Base {}\nclass Loner {}`
	resp, body := postDiagram(t, ts, `{"language":"java","maxNodes":2,"slides":true,"files":[{"name":"A.java","content":"`+src+`"}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotContains(t, body["mermaid"], "Loner")
	slides, ok := body["slides"].([]any)
	require.True(t, ok)
	require.Len(t, slides, 1)
	slide := slides[0].(map[string]any)
	assert.Equal(t, "Full Diagram", slide["title"])
	assert.Equal(t, body["mermaid"], slide["mermaid"])

	_, plain := postDiagram(t, ts, `{"language":"java","files":[{"name":"A.java","content":"`+src+`"}]}`)
	assert.NotContains(t, plain, "slides")
	assert.Contains(t, plain["mermaid"], "Loner")
}

func TestDiagram_CachedResponsesMatch(t *testing.T) {
	ts := newTestServer(t, Options{CacheSize: 2})
	payload := `{"language":"go","files":[{"name":"shape.go","content":"package shape\ntype Shape interface{ Area() float64 }\ntype Square struct{ S float64 }\nfunc (q Square) Area() float64 { return q.S * q.S }"}]}`

	first, firstBody := postDiagram(t, ts, payload)
	second, secondBody := postDiagram(t, ts, payload)

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, firstBody, secondBody)
	assert.NotEqual(t, first.Header.Get("X-Request-ID"), second.Header.Get("X-Request-ID"))
	assert.Contains(t, firstBody["mermaid"], "    Shape <|.. Square")
}

func TestDiagram_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/api/diagram")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestViewerAndHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	health, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	missing, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestViewerTemplateHasControls(t *testing.T) {
	for _, id := range []string{`id="language"`, `id="generate"`, `id="copy-src"`, `id="source"`, "/api/diagram"} {
		assert.Contains(t, viewerTemplate, id)
	}
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	_, err := New(Options{CacheSize: 0, MaxBodyKB: 10}, logger)
	assert.Error(t, err)

	_, err = New(Options{CacheSize: 4, MaxBodyKB: 0}, logger)
	assert.Error(t, err)
}

func TestCacheKey_DependsOnContent(t *testing.T) {
	a := cacheKey(normalizedRequest{Language: "java"})
	b := cacheKey(normalizedRequest{Language: "csharp"})
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}
