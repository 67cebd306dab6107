package web

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mariovpereira/Iris/pkg/depth"
	"github.com/mariovpereira/Iris/pkg/music"
	"github.com/mariovpereira/Iris/pkg/scan"
	"github.com/mariovpereira/Iris/pkg/sonify"
	"github.com/mariovpereira/Iris/pkg/voice"
)

type fixture struct {
	mocks  [voice.NumSectors]*voice.MockVoice
	server *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mocks, voices := voice.MockVoices()
	eng := voice.NewEngine(voices, music.NewMapper(), nil)
	source := &depth.MockSource{Buf: depth.UniformBuffer(100, 100, 0.9)}
	son := sonify.New(sonify.DefaultConfig(), source, eng, scan.NewManualClock(), nil)

	return &fixture{
		mocks:  mocks,
		server: NewServer("0", son, nil),
	}
}

func (f *fixture) request(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	resp, err := f.server.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("bad json %q: %v", data, err)
	}
}

func TestHandleGrid_BeforeCapture(t *testing.T) {
	f := newFixture(t)
	resp := f.request(t, http.MethodGet, "/api/grid", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409 before capture", resp.StatusCode)
	}
}

func TestHandleCaptureThenGrid(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/api/capture", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("capture status = %d", resp.StatusCode)
	}

	resp = f.request(t, http.MethodGet, "/api/grid", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("grid status = %d", resp.StatusCode)
	}

	var grid gridResponse
	decode(t, resp, &grid)
	if grid.Rows != 9 || grid.Cols != 3 || len(grid.Cells) != 27 {
		t.Errorf("grid = %dx%d with %d cells", grid.Rows, grid.Cols, len(grid.Cells))
	}
}

func TestHandleSample(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/api/sample?x=0.5&y=0.5", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body map[string]any
	decode(t, resp, &body)
	if body["sector"] != "center" {
		t.Errorf("sector = %v, want center", body["sector"])
	}
	if math.Abs(body["meters"].(float64)-0.9) > 1e-9 {
		t.Errorf("meters = %v, want 0.9", body["meters"])
	}
}

func TestHandleSample_BadQuery(t *testing.T) {
	f := newFixture(t)
	resp := f.request(t, http.MethodGet, "/api/sample?x=abc&y=0.5", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleChangeInstrument(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/api/instrument",
		`{"sector":"left","instrument":"violin"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	progs := f.mocks[voice.SectorLeft].Programs
	if len(progs) != 1 || progs[0].Program != 40 {
		t.Errorf("programs = %+v, want violin", progs)
	}
}

func TestHandleChangeInstrument_Unknown(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/api/instrument",
		`{"sector":"left","instrument":"kazoo"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp = f.request(t, http.MethodPost, "/api/instrument",
		`{"sector":"everywhere","instrument":"violin"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleScanEndpoints(t *testing.T) {
	f := newFixture(t)

	// No grid yet: starting a scan conflicts.
	resp := f.request(t, http.MethodPost, "/api/scan/sequential", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("scan without capture: status = %d, want 409", resp.StatusCode)
	}

	f.request(t, http.MethodPost, "/api/capture", "")

	resp = f.request(t, http.MethodPost, "/api/scan/sequential", `{"column":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sequential status = %d", resp.StatusCode)
	}

	// A second start supersedes the first rather than failing.
	resp = f.request(t, http.MethodPost, "/api/scan/simultaneous", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("simultaneous status = %d", resp.StatusCode)
	}

	resp = f.request(t, http.MethodPost, "/api/scan/cancel", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d", resp.StatusCode)
	}

	var body map[string]any
	decode(t, resp, &body)
	if body["cancelled"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestHandleListInstruments(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/api/instruments", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out []instrumentInfo
	decode(t, resp, &out)
	if len(out) != len(music.Instruments()) {
		t.Errorf("got %d instruments, want %d", len(out), len(music.Instruments()))
	}
}
