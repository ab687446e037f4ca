package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/joacominatel/salesdash/internal/database/dbtest"
)

const totalProfit = "Find the total profit per category"

func newTestServer(t *testing.T, cfg Config) (*Server, *dbtest.Driver) {
	t.Helper()
	d := dbtest.New()
	opts := app.DefaultExecutorOptions()
	opts.Timeout = time.Second
	svc := app.NewService(d, catalog.Default(), opts)
	if err := svc.Connect(context.Background(), "postgresql://localhost/retail"); err != nil {
		t.Fatal(err)
	}

	existing, _ := catalog.Default().Catalog(catalog.KindExisting)
	stmt, _ := existing.Resolve(totalProfit)
	d.SetResult(stmt, []string{"Category", "total_profit"}, []any{"A", 150.0}, []any{"B", 30.0})

	return New(svc, cfg), d
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func reportURL(kind, question string) string {
	return "/api/v1/report?" + url.Values{"catalog": {kind}, "question": {question}}.Encode()
}

func TestReportTable(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := get(t, s.Handler(), reportURL("existing", totalProfit))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got app.RenderInstruction
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != app.RenderTable || got.Title != "Results for: "+totalProfit {
		t.Errorf("report = %+v", got)
	}
	if len(got.Rows) != 2 || got.Rows[0][0] != "A" || got.Rows[0][1] != 150.0 {
		t.Errorf("rows = %v", got.Rows)
	}
}

func TestReportPromptAndNoData(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()

	tests := []struct {
		name     string
		target   string
		wantKind app.RenderKind
		wantMsg  string
	}{
		{name: "unknown question", target: reportURL("existing", "not a question"), wantKind: app.RenderPrompt, wantMsg: app.MsgSelectQuestion},
		{name: "missing question", target: reportURL("new", ""), wantKind: app.RenderPrompt, wantMsg: app.MsgSelectQuestion},
		{name: "empty result", target: reportURL("new", "Find regions where the total revenue exceeds $1,000,000"), wantKind: app.RenderNoData, wantMsg: app.MsgNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var got app.RenderInstruction
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Kind != tt.wantKind || got.Message != tt.wantMsg {
				t.Errorf("got %s %q", got.Kind, got.Message)
			}
		})
	}
}

func TestReportError(t *testing.T) {
	s, d := newTestServer(t, Config{})
	existing, _ := catalog.Default().Catalog(catalog.KindExisting)
	stmt, _ := existing.Resolve(totalProfit)
	d.SetError(stmt, errors.New(`relation "retail_sales1" does not exist`))

	rec := get(t, s.Handler(), reportURL("existing", totalProfit))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "An error occurred: ") {
		t.Errorf("body = %s", rec.Body)
	}
	if d.Rollbacks() != 1 {
		t.Errorf("rollbacks = %d, want 1", d.Rollbacks())
	}
}

func TestReportBadCatalog(t *testing.T) {
	s, d := newTestServer(t, Config{})
	rec := get(t, s.Handler(), reportURL("archived", totalProfit))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if d.Queries() != 0 {
		t.Errorf("store calls = %d", d.Queries())
	}
}

func TestQuestions(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := get(t, s.Handler(), "/api/v1/questions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got questionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Catalogs) != 2 {
		t.Fatalf("catalogs = %d", len(got.Catalogs))
	}
	if got.Catalogs[0].Kind != catalog.KindExisting || len(got.Catalogs[0].Questions) != 10 {
		t.Errorf("existing = %+v", got.Catalogs[0])
	}
	if got.Catalogs[1].Title != "New Questions" || got.Catalogs[1].Prompt != "Select a Question" {
		t.Errorf("new = %+v", got.Catalogs[1])
	}
}

func TestIndex(t *testing.T) {
	s, d := newTestServer(t, Config{})
	h := s.Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Retail Sales Analysis Dashboard", "Explore Key Metrics", "Select the Questions below", "Questions are:", "Existing Questions", "New Questions"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if d.Queries() != 1 {
		t.Errorf("default selection should run once, store calls = %d", d.Queries())
	}

	rec = get(t, h, "/?"+url.Values{"tab": {"existing"}, "q": {totalProfit}}.Encode())
	body = rec.Body.String()
	if !strings.Contains(body, "<td>150</td>") || !strings.Contains(body, "<th>total_profit</th>") {
		t.Errorf("table not rendered:\n%s", body)
	}

	rec = get(t, h, "/?tab=new&q=nope")
	if !strings.Contains(rec.Body.String(), app.MsgSelectQuestion) {
		t.Error("unknown question should render the prompt")
	}

	if rec := get(t, h, "/?tab=archived"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown tab status = %d", rec.Code)
	}
}

func TestIndexTabNotServed(t *testing.T) {
	existing, _ := catalog.Default().Catalog(catalog.KindExisting)
	set, err := catalog.NewSet(existing)
	if err != nil {
		t.Fatal(err)
	}
	svc := app.NewService(dbtest.Connected(), set, app.DefaultExecutorOptions())
	h := New(svc, Config{}).Handler()

	for _, target := range []string{"/?tab=new", "/?tab=archived"} {
		if rec := get(t, h, target); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
	if rec := get(t, h, "/?tab=existing"); rec.Code != http.StatusOK {
		t.Errorf("GET /?tab=existing status = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, d := newTestServer(t, Config{})
	h := s.Handler()

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthy status = %d", rec.Code)
	}

	d.ConnectErr = errors.New("connection refused")
	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "unavailable") {
		t.Errorf("unhealthy: %d %s", rec.Code, rec.Body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()
	get(t, h, reportURL("existing", totalProfit))

	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `salesdash_http_requests_total{method="GET",route="/api/v1/report",status_code="200"}`) {
		t.Error("request metric not recorded under its route pattern")
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimit: 2})
	h := s.Handler()

	for i := 0; i < 2; i++ {
		if rec := get(t, h, "/api/v1/questions"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := get(t, h, "/api/v1/questions"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("health check rate limited: %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, Config{CORSOrigins: []string{"https://bi.example.com"}})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
	req.Header.Set("Origin", "https://bi.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://bi.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/questions")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
