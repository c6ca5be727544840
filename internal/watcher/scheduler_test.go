package watcher

import (
	"context"
	"testing"
	"time"

	"github.com/avolkoff/tgScout/internal/ledger"
)

func TestTickSkipsWhileBusy(t *testing.T) {
	account := &fakeAccount{snapshot: snapshotOf()}
	w := newTestWatcher(&memLedger{data: ledger.Ledger{1: "one"}}, account, &fakeBot{}, nil, "")
	s := NewScheduler(testLogger(), w, time.Hour)

	s.busy.Lock()
	s.tick(context.Background())
	if account.fullCalls+account.pageCalls != 0 {
		t.Fatalf("tick must be skipped while a cycle is in flight")
	}
	s.busy.Unlock()

	s.tick(context.Background())
	if account.fullCalls+account.pageCalls != 1 {
		t.Fatalf("tick must run once the slot is free")
	}
}

func TestRunExecutesImmediateCycleAndStopsOnCancel(t *testing.T) {
	account := &fakeAccount{snapshot: snapshotOf()}
	w := newTestWatcher(&memLedger{data: ledger.Ledger{1: "one"}}, account, &fakeBot{}, nil, "")
	s := NewScheduler(testLogger(), w, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop on cancel")
	}

	if account.fullCalls+account.pageCalls != 1 {
		t.Fatalf("expected exactly the immediate cycle, got %d", account.fullCalls+account.pageCalls)
	}
}

func TestTickLogsButSwallowsCycleErrors(t *testing.T) {
	account := &fakeAccount{snapshot: snapshotOf()}
	store := &memLedger{loadErr: context.DeadlineExceeded}
	w := newTestWatcher(store, account, &fakeBot{}, nil, "")
	s := NewScheduler(testLogger(), w, time.Hour)

	// must not panic or propagate; the next cycle is the retry
	s.tick(context.Background())
}
