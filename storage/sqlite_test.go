package storage

import (
	"path/filepath"
	"testing"
	"time"

	"hireassist/models"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCommandQueue(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.EnqueueCommand(models.CmdSyncCompany, &models.CommandParams{Company: "Adyen"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := store.EnqueueCommand(models.CmdSyncNow, nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	cmds, err := store.GetPendingCommands()
	if err != nil {
		t.Fatalf("get pending failed: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("expected 2 pending commands, got %d", len(cmds))
	}

	var syncCompany *models.Command
	for i := range cmds {
		if cmds[i].Command == models.CmdSyncCompany {
			syncCompany = &cmds[i]
		}
	}
	if syncCompany == nil {
		t.Fatal("sync_company command not found")
	}
	params, err := store.ParseCommandParams(syncCompany)
	if err != nil {
		t.Fatalf("parse params failed: %v", err)
	}
	if params.Company != "Adyen" {
		t.Fatalf("unexpected company %q", params.Company)
	}

	if err := store.MarkCommandProcessed(syncCompany.ID); err != nil {
		t.Fatalf("mark processed failed: %v", err)
	}
	cmds, err = store.GetPendingCommands()
	if err != nil {
		t.Fatalf("get pending failed: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 pending command after processing, got %d", len(cmds))
	}
}

func TestLatestScrapedBatch(t *testing.T) {
	store := newTestSQLite(t)

	old := time.Now().Add(-2 * time.Hour).UTC()
	for _, title := range []string{"Engineer", "Designer"} {
		err := store.InsertScrapedJob(&ScrapedJob{
			BatchID:     "batch-old",
			CompanyName: "bunq",
			Title:       title,
			ScrapedAt:   old,
		})
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	fresh := time.Now().UTC()
	err := store.InsertScrapedJob(&ScrapedJob{
		BatchID:     "batch-new",
		CompanyName: "bunq",
		Title:       "Engineer",
		URL:         "https://www.bunq.com/careers/engineer",
		ScrapedAt:   fresh,
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	jobs, scrapedAt, err := store.LatestScrapedBatch("bunq")
	if err != nil {
		t.Fatalf("latest batch failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected only the newest batch, got %d rows", len(jobs))
	}
	if jobs[0].BatchID != "batch-new" {
		t.Fatalf("unexpected batch %s", jobs[0].BatchID)
	}
	if scrapedAt.Unix() != fresh.Unix() {
		t.Fatalf("unexpected scraped_at %v", scrapedAt)
	}
}

func TestLatestScrapedBatch_Empty(t *testing.T) {
	store := newTestSQLite(t)

	jobs, scrapedAt, err := store.LatestScrapedBatch("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs != nil || !scrapedAt.IsZero() {
		t.Fatalf("expected empty result, got %d rows at %v", len(jobs), scrapedAt)
	}
}

func TestResetAllData(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.EnqueueCommand(models.CmdSyncNow, nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := store.InsertScrapedJob(&ScrapedJob{
		BatchID: "b1", CompanyName: "bunq", Title: "Engineer", ScrapedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := store.ResetAllData(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	cmds, err := store.GetPendingCommands()
	if err != nil {
		t.Fatalf("get pending failed: %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("commands should be cleared, got %d", len(cmds))
	}
	jobs, _, err := store.LatestScrapedBatch("bunq")
	if err != nil {
		t.Fatalf("latest batch failed: %v", err)
	}
	if jobs != nil {
		t.Fatalf("scraped jobs should be cleared, got %d", len(jobs))
	}
}

func TestPruneScrapedJobs(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.InsertScrapedJob(&ScrapedJob{
		BatchID: "b1", CompanyName: "bunq", Title: "Engineer",
		ScrapedAt: time.Now().Add(-72 * time.Hour).UTC(),
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := store.InsertScrapedJob(&ScrapedJob{
		BatchID: "b2", CompanyName: "bunq", Title: "Engineer",
		ScrapedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	pruned, err := store.PruneScrapedJobs(time.Now().Add(-24 * time.Hour).UTC())
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned row, got %d", pruned)
	}

	jobs, _, err := store.LatestScrapedBatch("bunq")
	if err != nil {
		t.Fatalf("latest batch failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].BatchID != "b2" {
		t.Fatalf("fresh batch should survive pruning, got %+v", jobs)
	}
}
