package journal_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ddpsdk/internal/journal"
	"ddpsdk/internal/logging"
	"ddpsdk/internal/services"
	"ddpsdk/internal/services/ddp"
	"ddpsdk/internal/testsupport"
)

func sampleRecord(id string, outcome services.Outcome) ddp.Record {
	return ddp.Record{
		ID:         id,
		Operation:  ddp.OperationProcess,
		Input:      "/discs/album",
		Output:     "/out/album",
		StartedAt:  time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		Duration:   1500 * time.Millisecond,
		ExitCode:   0,
		Outcome:    outcome,
		TrackCount: 12,
	}
}

func TestRecordAndGet(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t, testsupport.WithJournal()))
	ctx := context.Background()

	want := sampleRecord("op-1", services.OutcomeSucceeded)
	if err := store.Record(ctx, want); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	got, err := store.Get(ctx, "op-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Fatalf("started_at = %s, want %s", got.StartedAt, want.StartedAt)
	}
	got.StartedAt = want.StartedAt
	if *got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing id; got %v, %v", missing, err)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	if err := store.Record(context.Background(), ddp.Record{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := store.Record(ctx, sampleRecord(fmt.Sprintf("op-%d", i), services.OutcomeSucceeded)); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	recent, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	for i, id := range []string{"op-5", "op-4", "op-3"} {
		if recent[i].ID != id {
			t.Fatalf("record %d = %s, want %s", i, recent[i].ID, id)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 5 {
		t.Fatalf("expected default limit to return all 5, got %d (%v)", len(all), err)
	}
}

func TestCountByOutcome(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	outcomes := []services.Outcome{
		services.OutcomeSucceeded,
		services.OutcomeSucceeded,
		services.OutcomeEngineFailure,
	}
	for i, outcome := range outcomes {
		if err := store.Record(ctx, sampleRecord(fmt.Sprintf("op-%d", i), outcome)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	counts, err := store.CountByOutcome(ctx)
	if err != nil {
		t.Fatalf("CountByOutcome failed: %v", err)
	}
	if counts[services.OutcomeSucceeded] != 2 || counts[services.OutcomeEngineFailure] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Record(context.Background(), sampleRecord("persisted", services.OutcomeSucceeded)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	got, err := reopened.Get(context.Background(), "persisted")
	if err != nil || got == nil {
		t.Fatalf("expected persisted record, got %v, %v", got, err)
	}
	if reopened.Path() != cfg.Paths.JournalPath {
		t.Fatalf("Path() = %q, want %q", reopened.Path(), cfg.Paths.JournalPath)
	}
}

func TestOpenPathRequiresPath(t *testing.T) {
	if _, err := journal.OpenPath("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
	if _, err := journal.Open(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestConcurrentWriters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenJournal(t, cfg)
	second, err := journal.OpenPath(filepath.Clean(cfg.Paths.JournalPath))
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer second.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		store := first
		if i%2 == 1 {
			store = second
		}
		wg.Add(1)
		go func(i int, store *journal.Store) {
			defer wg.Done()
			errs <- store.Record(context.Background(), sampleRecord(fmt.Sprintf("c-%02d", i), services.OutcomeSucceeded))
		}(i, store)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Record failed: %v", err)
		}
	}
	all, err := first.List(context.Background(), 100)
	if err != nil || len(all) != 20 {
		t.Fatalf("expected 20 records, got %d (%v)", len(all), err)
	}
}

func TestStoreRecordsClientOperations(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFakeEngine(), testsupport.WithJournal())
	store := testsupport.MustOpenJournal(t, cfg)
	client := ddp.NewFromConfig(cfg, logging.NewNop(), ddp.WithRecorder(store))

	in := filepath.Join(testsupport.BaseDir(cfg), "input")
	testsupport.WriteDDPInput(t, in, "DISC-H")
	out := filepath.Join(testsupport.BaseDir(cfg), "out")
	if _, err := client.Process(context.Background(), in, out, testsupport.ValidKey); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	_, err := client.Process(context.Background(), in, out, testsupport.InvalidKey)
	var engineErr *ddp.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected engine error, got %v", err)
	}

	records, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 journal rows, got %d", len(records))
	}
	failed, ok := records[0], records[1]
	if ok.Outcome != services.OutcomeSucceeded || ok.TrackCount != 2 || ok.Input != in {
		t.Fatalf("unexpected success row %+v", ok)
	}
	if failed.Outcome != services.OutcomeEngineFailure || failed.ExitCode != testsupport.InvalidKeyExitCode {
		t.Fatalf("unexpected failure row %+v", failed)
	}
}
