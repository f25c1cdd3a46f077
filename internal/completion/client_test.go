package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/models"
)

const barReply = `{"chartType":"bar","title":"Batch release status by line","xAxis":{"label":"Line","data":["Line A","Line B","Line C"]},"yAxis":{"label":"Batches"},"series":[{"name":"Released","data":[3,0,1]}],"insight":"Line A leads releases."}`

func ollamaServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func envelope(t *testing.T, response string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"response": response, "done": true})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      func(t *testing.T) string
		wantError string
	}{
		{"service error", http.StatusInternalServerError, func(*testing.T) string { return "boom" }, "Ollama API error: 500"},
		{"not found", http.StatusNotFound, func(*testing.T) string { return "" }, "Ollama API error: 404"},
		{"inner text not json", http.StatusOK, func(t *testing.T) string { return envelope(t, "{not json") }, ParseFailure},
		{"envelope not json", http.StatusOK, func(*testing.T) string { return "<html>" }, ParseFailure},
		{"empty envelope", http.StatusOK, func(*testing.T) string { return "{}" }, ParseFailure},
		{"inner null", http.StatusOK, func(t *testing.T) string { return envelope(t, "null") }, ParseFailure},
		{"inner array", http.StatusOK, func(t *testing.T) string { return envelope(t, `[{"chartType":"bar"}]`) }, ParseFailure},
		{"inner string", http.StatusOK, func(t *testing.T) string { return envelope(t, `"bar"`) }, ParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := ollamaServer(t, tt.status, tt.body(t))
			c := NewClient(NewOllamaProvider(srv.URL, "test-model"), WithLogger(zap.NewNop()))
			got := c.Complete(context.Background(), "prompt")
			want := models.ErrorSpec(tt.wantError)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Complete() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestClient_Complete_PassesReplyThrough(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": barReply, "done": true})
	}))
	defer srv.Close()

	c := NewClient(NewOllamaProvider(srv.URL+"/", "llama3"))
	got := c.Complete(context.Background(), "the prompt")

	want := generateRequest{Model: "llama3", Prompt: "the prompt", Stream: false, Format: "json"}
	if gotReq != want {
		t.Errorf("request = %+v, want %+v", gotReq, want)
	}
	var wantSpec models.ChartSpec
	if err := json.Unmarshal([]byte(barReply), &wantSpec); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, wantSpec) {
		t.Errorf("spec = %+v, want %+v", got, wantSpec)
	}
	b, _ := json.Marshal(got)
	if string(b) != barReply {
		t.Errorf("re-encoded reply changed:\n got %s\nwant %s", b, barReply)
	}
}

func TestClient_Complete_PassesLooseValuesThrough(t *testing.T) {
	replies := map[string]string{
		"null series value":  `{"chartType":"line","xAxis":{"data":["Mon","Tue","Wed"]},"series":[{"name":"s","data":[1,null,3]}]}`,
		"string numbers":     `{"chartType":"bar","xAxis":{"data":["A"]},"series":[{"name":"s","data":["12"]}]}`,
		"numeric column":     `{"chartType":"table","columns":["Line",2024],"rows":[["A",5]]}`,
		"empty title":        `{"chartType":"bar","title":"","xAxis":{"data":["a"]},"series":[]}`,
		"string pie value":   `{"chartType":"pie","data":[{"name":"a","value":"3"}]}`,
		"unmodelled fields":  `{"chartType":"bar","colors":["#f00"],"xAxis":{"data":["a"],"ticks":2},"series":[{"name":"s","data":[1]}]}`,
		"wrong field types":  `{"chartType":"bar","series":"nope","title":7}`,
		"indented key order": "{\n  \"title\": \"t\",\n  \"chartType\": \"pie\",\n  \"data\": []\n}",
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			srv := ollamaServer(t, http.StatusOK, envelope(t, reply))
			got := NewClient(NewOllamaProvider(srv.URL, "m")).Complete(context.Background(), "p")
			if got.IsError() {
				t.Fatalf("reply rejected: %q", got.Error)
			}
			b, err := json.Marshal(got)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != compact(t, reply) {
				t.Errorf("re-encoded reply changed:\n got %s\nwant %s", b, compact(t, reply))
			}
		})
	}
}

func compact(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestClient_Complete_ValidationRejectsWrongTypes(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK, envelope(t, `{"chartType":"bar","xAxis":{"data":["a"]},"series":"nope"}`))
	got := NewClient(NewOllamaProvider(srv.URL, "m"), WithValidation(true)).Complete(context.Background(), "p")
	if !strings.HasPrefix(got.Error, "Invalid chart response: invalid bar chart: series has the wrong type") {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestClient_Complete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := NewClient(NewOllamaProvider(url, "m")).Complete(context.Background(), "p")
	if got.Error == "" || got.Error == ParseFailure || strings.HasPrefix(got.Error, "Ollama API error") {
		t.Errorf("unexpected transport error message: %q", got.Error)
	}
	if got.ChartType != "" || got.Title != "" {
		t.Errorf("error spec must carry only the error: %+v", got)
	}
}

func TestClient_Complete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(NewOllamaProvider(srv.URL, "m"), WithTimeout(50*time.Millisecond))
	got := c.Complete(context.Background(), "p")
	if !strings.Contains(got.Error, "context deadline exceeded") {
		t.Errorf("Error = %q, want deadline exceeded", got.Error)
	}
}

func TestClient_Complete_Validation(t *testing.T) {
	reply := `{"chartType":"bar","title":"Only a title"}`
	srv := ollamaServer(t, http.StatusOK, envelope(t, reply))

	got := NewClient(NewOllamaProvider(srv.URL, "m")).Complete(context.Background(), "p")
	if got.IsError() || got.Title != "Only a title" {
		t.Errorf("without validation the reply must pass through: %+v", got)
	}

	got = NewClient(NewOllamaProvider(srv.URL, "m"), WithValidation(true)).Complete(context.Background(), "p")
	if got.Error != "Invalid chart response: invalid bar chart: xAxis.data is required" {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestClient_Complete_ModelErrorPassesThrough(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK, envelope(t, `{"error":"not enough data"}`))
	got := NewClient(NewOllamaProvider(srv.URL, "m"), WithValidation(true)).Complete(context.Background(), "p")
	if got.Error != "not enough data" {
		t.Errorf("Error = %q", got.Error)
	}
}

type stubProvider struct {
	err error
}

func (s stubProvider) Name() string  { return "Stub" }
func (s stubProvider) Model() string { return "stub" }
func (s stubProvider) Generate(context.Context, string) (string, error) {
	return "", s.err
}

func TestClient_Complete_UntypedErrorIsTransport(t *testing.T) {
	got := NewClient(stubProvider{err: errors.New("socket closed")}).Complete(context.Background(), "p")
	if got.Error != "socket closed" {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&TransportError{Err: errors.New("x")}, KindTransport},
		{&ServiceError{Provider: "Ollama", StatusCode: 502}, KindService},
		{&ParseError{Err: errors.New("x")}, KindParse},
		{errors.New("plain"), "unknown"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	p := NewOllamaProvider("", "")
	if p.baseURL != DefaultOllamaURL || p.Model() != DefaultOllamaModel {
		t.Errorf("defaults = %s %s", p.baseURL, p.Model())
	}
}
