package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillflow/pkg/buildinfo"
	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/observability"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newRouter(newLogger(io.Discard, log.DebugLevel), nil))
	t.Cleanup(srv.Close)
	return srv
}

func demoDocument(t *testing.T) []byte {
	t.Helper()
	ed := workflow.NewEditor(workflow.WithIDGenerator(testIDs()))
	ed.SetName("Demo Flow")
	a, _ := ed.AddNode(workflow.KindInput, 10, 20)
	b, _ := ed.AddNode(workflow.KindOutput, 300, 20)
	if _, err := ed.Connect(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	data, err := export.RenderJSON(ed.Snapshot(), export.WithClock(func() time.Time {
		return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != buildinfo.Version {
		t.Errorf("body = %v", body)
	}
}

func TestServeIndex(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	html, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"Create Agent Skills", "Conditional branching", "Decision"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("landing page missing %q", want)
		}
	}
}

func TestServeKinds(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/kinds")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var kinds []kindResponse
	if err := json.NewDecoder(resp.Body).Decode(&kinds); err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 5 {
		t.Fatalf("len(kinds) = %d, want 5", len(kinds))
	}
	if kinds[0].Name != "input" || kinds[0].Color != "#ff6b6b" {
		t.Errorf("kinds[0] = %+v", kinds[0])
	}
}

func TestServeExportPNG(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/export/png", "application/json", bytes.NewReader(demoDocument(t)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
	if got, want := resp.Header.Get("Content-Disposition"), "attachment; filename=Demo-Flow-workflow.png"; got != want {
		t.Errorf("Content-Disposition = %q, want %q", got, want)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != export.CanvasWidth || b.Dy() != export.CanvasHeight {
		t.Errorf("bounds = %v", b)
	}
}

func TestServeExportJSONRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	doc := demoDocument(t)
	resp, err := http.Post(srv.URL+"/api/export/json", "application/json", bytes.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	got, err := export.DecodeProject(data)
	if err != nil {
		t.Fatalf("DecodeProject: %v", err)
	}
	want, _ := export.DecodeProject(doc)
	if len(got.Nodes) != len(want.Nodes) || len(got.Connections) != 1 {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if resp.Header.Get("X-Skillflow-Notice") != "Skill exported as JSON" {
		t.Errorf("notice header = %q", resp.Header.Get("X-Skillflow-Notice"))
	}
}

func TestServeExportErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name     string
		format   string
		body     string
		wantCode string
	}{
		{"unknown format", "gif", string(demoDocument(t)), "INVALID_FORMAT"},
		{"garbage body", "png", "{nope", "INVALID_DOCUMENT"},
		{"unknown kind", "json", `{"name":"x","nodes":[{"id":"a","type":"loop"}],"connections":[]}`, "INVALID_DOCUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/export/"+tt.format, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if string(e.Code) != tt.wantCode {
				t.Errorf("code = %q, want %q", e.Code, tt.wantCode)
			}
		})
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/export/png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestServeMetrics(t *testing.T) {
	m := newMetrics()
	observability.SetExportHooks(m)
	observability.SetSinkHooks(m)
	t.Cleanup(observability.Reset)

	srv := httptest.NewServer(newRouter(newLogger(io.Discard, log.InfoLevel), m))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/export/dot", "application/json", bytes.NewReader(demoDocument(t)))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	resp, err = http.Post(srv.URL+"/api/export/gif", "application/json", bytes.NewReader(demoDocument(t)))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	wantLines := []string{
		`skillflow_renders_total{format="dot",result="ok"} 1`,
		`skillflow_deliveries_total{result="ok",sink="memory"} 1`,
		`skillflow_http_requests_total{code="200",method="POST"} 1`,
		`skillflow_http_requests_total{code="400",method="POST"} 1`,
	}
	for _, want := range wantLines {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
