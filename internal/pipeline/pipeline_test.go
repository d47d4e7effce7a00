package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nao1215/markdown"

	"github.com/nao1215/doclinks/internal/extract"
	"github.com/nao1215/doclinks/internal/model"
	"github.com/nao1215/doclinks/internal/report"
	"github.com/nao1215/doclinks/internal/validate"
	"github.com/nao1215/doclinks/internal/walker"
)

// fakeValidator returns canned results keyed by URL and records calls.
type fakeValidator struct {
	mu      sync.Mutex
	calls   []string
	results map[string]model.Result
}

func (f *fakeValidator) Check(_ context.Context, link string) model.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, link)
	if r, ok := f.results[link]; ok {
		r.URL = link
		return r
	}
	return model.Result{URL: link, StatusCode: http.StatusOK}
}

// barrierValidator blocks every call until n calls are in flight.
type barrierValidator struct {
	wg sync.WaitGroup
}

func newBarrierValidator(n int) *barrierValidator {
	b := &barrierValidator{}
	b.wg.Add(n)
	return b
}

func (b *barrierValidator) Check(_ context.Context, link string) model.Result {
	b.wg.Done()
	b.wg.Wait()
	return model.Result{URL: link, StatusCode: http.StatusOK}
}

// renderMarkdown builds a Markdown document whose bullet list holds links.
func renderMarkdown(title string, links map[string]string) string {
	items := make([]string, 0, len(links))
	for label, url := range links {
		items = append(items, markdown.Link(label, url))
	}
	slices.Sort(items)
	return markdown.NewMarkdown(io.Discard).H1(title).BulletList(items...).String()
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLinkBatch_Run(t *testing.T) {
	t.Parallel()

	t.Run("all links of a document are in flight together", func(t *testing.T) {
		t.Parallel()

		links := []string{"https://a.example", "https://b.example", "https://c.example", "https://a.example"}
		var buf bytes.Buffer
		batch := NewLinkBatch(newBarrierValidator(len(links)), report.NewConsole(&buf), nil, model.StatusTransportOnly, nil)

		done := make(chan []model.Result)
		go func() {
			done <- batch.Run(context.Background(), "doc.md", links)
		}()

		select {
		case results := <-done:
			if len(results) != len(links) {
				t.Fatalf("expected %d results, got %d", len(links), len(results))
			}
			for i, r := range results {
				if r.URL != links[i] || r.Source != "doc.md" {
					t.Errorf("result %d = %+v, want URL %s from doc.md", i, r, links[i])
				}
			}
		case <-time.After(5 * time.Second):
			t.Fatal("links were not validated concurrently")
		}
	})

	t.Run("prints dead links and records the summary", func(t *testing.T) {
		t.Parallel()

		v := &fakeValidator{results: map[string]model.Result{
			"https://dead.example":    {Err: context.DeadlineExceeded},
			"https://missing.example": {StatusCode: http.StatusNotFound},
		}}
		var buf bytes.Buffer
		summary := model.NewSummary()
		batch := NewLinkBatch(v, report.NewConsole(&buf), summary, model.StatusTransportOnly, nil)

		batch.Run(context.Background(), "doc.md", []string{"https://ok.example", "https://dead.example", "https://missing.example"})

		if buf.String() != "--- Dead link : https://dead.example\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
		dead := summary.DeadLinks()
		if len(dead) != 1 || dead[0].Source != "doc.md" {
			t.Errorf("unexpected dead links %+v", dead)
		}
	})

	t.Run("cancelled run does not report in-flight links", func(t *testing.T) {
		t.Parallel()

		arrived := make(chan struct{}, 2)
		release := make(chan struct{})
		r := chi.NewRouter()
		r.Get("/slow/{id}", func(w http.ResponseWriter, req *http.Request) {
			arrived <- struct{}{}
			select {
			case <-req.Context().Done():
			case <-release:
			}
			w.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(r)
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		client, err := validate.NewHTTPClient(validate.WithTimeout(30 * time.Second))
		if err != nil {
			t.Fatalf("NewHTTPClient() error = %v", err)
		}

		var buf bytes.Buffer
		summary := model.NewSummary()
		batch := NewLinkBatch(validate.NewChecker(client), report.NewConsole(&buf), summary, model.StatusDeadOnError, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-arrived
			<-arrived
			cancel()
		}()

		results := batch.Run(ctx, "doc.md", []string{srv.URL + "/slow/1", srv.URL + "/slow/2"})

		for _, res := range results {
			if res.Err == nil {
				t.Errorf("expected %s to be interrupted", res.URL)
			}
		}
		if buf.Len() != 0 {
			t.Errorf("expected no dead link lines, got %q", buf.String())
		}
		if summary.HasDeadLinks() {
			t.Errorf("interrupted links recorded as dead: %+v", summary.DeadLinks())
		}
	})

	t.Run("request timeout is still a dead link", func(t *testing.T) {
		t.Parallel()

		v := &fakeValidator{results: map[string]model.Result{
			"https://slow.example": {Err: context.DeadlineExceeded},
		}}
		var buf bytes.Buffer
		batch := NewLinkBatch(v, report.NewConsole(&buf), nil, model.StatusTransportOnly, nil)

		batch.Run(context.Background(), "doc.md", []string{"https://slow.example"})

		if buf.String() != "--- Dead link : https://slow.example\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("status policy reports error statuses", func(t *testing.T) {
		t.Parallel()

		v := &fakeValidator{results: map[string]model.Result{
			"https://missing.example": {StatusCode: http.StatusNotFound},
		}}
		var buf bytes.Buffer
		batch := NewLinkBatch(v, report.NewConsole(&buf), nil, model.StatusDeadOnError, nil)

		batch.Run(context.Background(), "doc.md", []string{"https://missing.example"})

		if buf.String() != "--- Dead link : https://missing.example\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("no links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		batch := NewLinkBatch(&fakeValidator{}, report.NewConsole(&buf), nil, model.StatusTransportOnly, nil)
		if got := batch.Run(context.Background(), "doc.md", nil); len(got) != 0 {
			t.Errorf("expected no results, got %v", got)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestPipeline_HandleDocument(t *testing.T) {
	t.Parallel()

	t.Run("checks every link including duplicates", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "README.md")
		writeDoc(t, path, "[a](https://a.example) [b](https://b.example)\n[a again](https://a.example)\n")

		v := &fakeValidator{}
		var buf bytes.Buffer
		summary := model.NewSummary()
		p := New(v, report.NewConsole(&buf), WithSummary(summary))

		err := p.HandleDocument(context.Background(), model.Document{Path: path, Format: model.FormatMarkdown})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		slices.Sort(v.calls)
		want := []string{"https://a.example", "https://a.example", "https://b.example"}
		if !slices.Equal(v.calls, want) {
			t.Errorf("validated %v, want %v", v.calls, want)
		}
		if buf.String() != "checking "+path+" ..\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
		if summary.LinkCount() != 3 || summary.DocumentCount() != 1 {
			t.Errorf("unexpected summary: %d links, %d documents", summary.LinkCount(), summary.DocumentCount())
		}
		if docs := summary.Documents(); docs[0].Digest == "" {
			t.Error("expected document digest to be recorded")
		}
	})

	t.Run("unreadable document is reported and skipped", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "gone.md")
		v := &fakeValidator{}
		var buf bytes.Buffer
		summary := model.NewSummary()
		p := New(v, report.NewConsole(&buf), WithSummary(summary))

		if err := p.HandleDocument(context.Background(), model.Document{Path: path}); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		output := buf.String()
		if !strings.HasPrefix(output, "Can't read file "+path+" (because ") ||
			!strings.HasSuffix(output, ")\nchecking "+path+" ..\n") {
			t.Errorf("unexpected output %q", output)
		}
		if len(v.calls) != 0 {
			t.Errorf("expected no validation, got %v", v.calls)
		}
		if summary.UnreadableCount() != 1 {
			t.Errorf("expected 1 unreadable, got %d", summary.UnreadableCount())
		}
	})

	t.Run("cancelled context is returned", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.md")
		writeDoc(t, path, "[a](https://a.example)")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := New(&fakeValidator{}, report.NewConsole(io.Discard))
		if err := p.HandleDocument(ctx, model.Document{Path: path, Format: model.FormatMarkdown}); err == nil {
			t.Error("expected context error")
		}
	})
}

// TestWalkWithPipeline runs the walker, extractor and validator together
// against a local HTTP server.
func TestWalkWithPipeline(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := validate.NewHTTPClient(validate.WithTimeout(5 * time.Second))
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	checker := validate.NewChecker(client)

	deadURL := "http://doclinks-test.invalid/page"

	t.Run("dead links are reported with the exact url", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeDoc(t, filepath.Join(root, "README.md"), renderMarkdown("Project", map[string]string{
			"home":   srv.URL + "/ok",
			"broken": deadURL,
		}))
		writeDoc(t, filepath.Join(root, "docs", "index.rst"), "See `the page <"+srv.URL+"/missing>`_.\n")

		var buf bytes.Buffer
		summary := model.NewSummary()
		p := New(checker, report.NewConsole(&buf), WithSummary(summary))

		if err := walker.Walk(context.Background(), root, p, walker.WithClassifier(extract.Classify)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "--- Dead link : "+deadURL+"\n") {
			t.Errorf("expected dead link line for %s, got %q", deadURL, output)
		}
		if strings.Count(output, "--- Dead link") != 1 {
			t.Errorf("expected exactly one dead link, got %q", output)
		}
		if summary.LinkCount() != 3 {
			t.Errorf("expected 3 links, got %d", summary.LinkCount())
		}
	})

	t.Run("unreadable file does not stop the walk", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}

		root := t.TempDir()
		locked := filepath.Join(root, "a_locked.md")
		writeDoc(t, locked, "[x]("+deadURL+")")
		if err := os.Chmod(locked, 0o000); err != nil {
			t.Fatalf("failed to chmod: %v", err)
		}
		writeDoc(t, filepath.Join(root, "b_sibling.md"), "[x]("+srv.URL+"/ok)")
		writeDoc(t, filepath.Join(root, "c", "README"), "[x]("+deadURL+")")

		var buf bytes.Buffer
		p := New(checker, report.NewConsole(&buf))
		if err := walker.Walk(context.Background(), root, p, walker.WithClassifier(extract.Classify)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "Can't read file " + locked + " (because open " + locked + ": permission denied)\n" +
			"checking " + locked + " ..\n" +
			"checking " + filepath.Join(root, "b_sibling.md") + " ..\n" +
			"checking " + filepath.Join(root, "c", "README") + " ..\n" +
			"--- Dead link : " + deadURL + "\n"
		if buf.String() != want {
			t.Errorf("got output\n%s\nwant\n%s", buf.String(), want)
		}
	})
}
