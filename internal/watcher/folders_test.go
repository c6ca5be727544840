package watcher

import (
	"context"
	"testing"

	"github.com/avolkoff/tgScout/internal/ledger"
)

func folderTestWatcher(account *fakeAccount) *Watcher {
	return newTestWatcher(&memLedger{data: ledger.Ledger{}}, account, &fakeBot{}, nil, "Incoming")
}

func TestEnsureInFolderCreatesFolderWithNextID(t *testing.T) {
	account := &fakeAccount{folders: []Folder{
		{ID: 1, Title: "Work"},
		{ID: 3, Title: "Family"},
		{ID: 4, Title: "Mutelist"},
	}}
	w := folderTestWatcher(account)

	err := w.ensureInFolder(context.Background(), Chat{ID: 10, Title: "ten", Kind: KindGroup}, "Incoming")
	if err != nil {
		t.Fatalf("ensureInFolder: %v", err)
	}

	if len(account.upserts) != 2 {
		t.Fatalf("expected create then populate, got %d upserts", len(account.upserts))
	}
	created := account.upserts[0]
	if created.ID != 5 {
		t.Fatalf("new folder id = %d, want 5", created.ID)
	}
	if !created.Contacts || !created.NonContacts || !created.Groups || !created.Broadcasts || !created.Bots {
		t.Fatalf("new folder must enable all category flags: %+v", created)
	}
	if len(created.IncludePeers) != 0 || len(created.ExcludePeers) != 0 {
		t.Fatalf("new folder must start with empty peer lists")
	}
	populated := account.upserts[1]
	if populated.ID != 5 || len(populated.IncludePeers) != 1 {
		t.Fatalf("populate step mismatch: %+v", populated)
	}
}

func TestEnsureInFolderStartsAtOneWithoutFolders(t *testing.T) {
	account := &fakeAccount{}
	w := folderTestWatcher(account)

	err := w.ensureInFolder(context.Background(), Chat{ID: 10, Kind: KindGroup}, "Incoming")
	if err != nil {
		t.Fatalf("ensureInFolder: %v", err)
	}

	if account.upserts[0].ID != 1 {
		t.Fatalf("first folder id = %d, want 1", account.upserts[0].ID)
	}
}

func TestEnsureInFolderIsIdempotent(t *testing.T) {
	account := &fakeAccount{}
	w := folderTestWatcher(account)
	chat := Chat{ID: 10, Title: "ten", Kind: KindGroup}

	if err := w.ensureInFolder(context.Background(), chat, "Incoming"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	firstUpserts := len(account.upserts)

	if err := w.ensureInFolder(context.Background(), chat, "Incoming"); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if len(account.upserts) != firstUpserts {
		t.Fatalf("second call mutated the folder: %d -> %d upserts", firstUpserts, len(account.upserts))
	}
	folder := account.folders[0]
	if len(folder.IncludePeers) != 1 {
		t.Fatalf("expected exactly one membership entry, got %v", folder.IncludePeers)
	}
}

func TestEnsureInFolderMembershipIgnoresAccessHash(t *testing.T) {
	account := &fakeAccount{folders: []Folder{{
		ID:           2,
		Title:        "Incoming",
		IncludePeers: []Peer{{Kind: KindChannel, ChatID: 7, AccessHash: 111}},
	}}}
	w := folderTestWatcher(account)

	err := w.ensureInFolder(context.Background(), Chat{ID: 7, Kind: KindChannel, AccessHash: 222}, "Incoming")
	if err != nil {
		t.Fatalf("ensureInFolder: %v", err)
	}

	if len(account.upserts) != 0 {
		t.Fatalf("matching (kind, id) must be a no-op regardless of access hash")
	}
}

func TestEnsureInFolderChannelPeerCarriesAccessHash(t *testing.T) {
	account := &fakeAccount{folders: []Folder{{ID: 1, Title: "Incoming"}}}
	w := folderTestWatcher(account)

	err := w.ensureInFolder(context.Background(), Chat{ID: 7, Kind: KindChannel, AccessHash: 999}, "Incoming")
	if err != nil {
		t.Fatalf("ensureInFolder: %v", err)
	}

	if len(account.upserts) != 1 {
		t.Fatalf("expected one membership update, got %d", len(account.upserts))
	}
	peer := account.upserts[0].IncludePeers[0]
	if peer.Kind != KindChannel || peer.ChatID != 7 || peer.AccessHash != 999 {
		t.Fatalf("unexpected peer %+v", peer)
	}
}

func TestEnsureInFolderRejectsUnknownChatKind(t *testing.T) {
	account := &fakeAccount{folders: []Folder{{ID: 1, Title: "Incoming"}}}
	w := folderTestWatcher(account)

	err := w.ensureInFolder(context.Background(), Chat{ID: 9, Kind: ChatKind(42)}, "Incoming")
	if err == nil {
		t.Fatalf("expected error for unknown chat kind")
	}
	if len(account.upserts) != 0 {
		t.Fatalf("unknown kind must not mutate the folder")
	}
}

func TestChatPeerUserKindRejected(t *testing.T) {
	if _, err := (Chat{ID: 5, Kind: KindUser}).Peer(); err == nil {
		t.Fatalf("user chats have no folder peer constructor")
	}
}
