package workers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"hireassist/models"
	"hireassist/sources"
)

// SnippetStore is the slice of job storage the worker needs.
type SnippetStore interface {
	JobsMissingSnippet(ctx context.Context, limit int) ([]models.Job, error)
	UpdateJobSnippet(ctx context.Context, id uuid.UUID, snippet string) error
}

// EnrichmentWorker fills in missing snippets for active postings by fetching
// the job page and pulling the meta description.
type EnrichmentWorker struct {
	store      SnippetStore
	httpClient *http.Client
	triggerCh  chan struct{}
	logFunc    LogFunc
}

// NewEnrichmentWorker creates a new enrichment worker
func NewEnrichmentWorker(store SnippetStore, client *http.Client) *EnrichmentWorker {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &EnrichmentWorker{
		store:      store,
		httpClient: client,
		triggerCh:  make(chan struct{}, 1),
		logFunc:    NoOpLogger,
	}
}

func (w *EnrichmentWorker) SetLogger(fn LogFunc) {
	w.logFunc = fn
}

// Trigger causes the worker to run immediately
func (w *EnrichmentWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// Run processes batches on an interval until the context is cancelled
func (w *EnrichmentWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Enrichment worker stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx, batchSize)
		case <-w.triggerCh:
			log.Println("Enrichment worker triggered manually")
			w.processBatch(ctx, batchSize)
		}
	}
}

func (w *EnrichmentWorker) processBatch(ctx context.Context, batchSize int) {
	jobs, err := w.store.JobsMissingSnippet(ctx, batchSize)
	if err != nil {
		log.Printf("Enrichment: query error: %v", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	log.Printf("Enrichment: %d postings without a snippet", len(jobs))

	var enriched, failed int
	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}

		snippet, err := w.fetchSnippet(ctx, job.URL)
		if err != nil {
			failed++
			w.logFunc(models.LogLevelWarn, job.CompanyName, fmt.Sprintf("enrichment failed for %s: %v", job.URL, err))
			continue
		}
		if snippet == "" {
			failed++
			continue
		}

		if err := w.store.UpdateJobSnippet(ctx, job.ID, snippet); err != nil {
			log.Printf("Enrichment: update error for %s: %v", job.ID, err)
			continue
		}
		enriched++
		time.Sleep(500 * time.Millisecond)
	}

	log.Printf("Enrichment: done, %d enriched, %d without description", enriched, failed)
}

// fetchSnippet downloads the posting page and extracts a description snippet
func (w *EnrichmentWorker) fetchSnippet(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	return ExtractDescription(doc), nil
}

// ExtractDescription pulls the best available description from a job page:
// og:description first, then the plain meta description, then the first
// non-trivial paragraph.
func ExtractDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if s := strings.TrimSpace(content); s != "" {
			return sources.MakeSnippet(s)
		}
	}
	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if s := strings.TrimSpace(content); s != "" {
			return sources.MakeSnippet(s)
		}
	}

	var fallback string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) >= 80 {
			fallback = text
			return false
		}
		return true
	})
	if fallback != "" {
		return sources.MakeSnippet(fallback)
	}
	return ""
}
