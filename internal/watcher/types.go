package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkoff/tgScout/internal/ledger"
)

// ChatKind is a closed set; building a peer for anything outside it is a hard
// error rather than a silent default.
type ChatKind int

const (
	KindGroup ChatKind = iota + 1
	KindChannel
	KindUser
)

func (k ChatKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindChannel:
		return "channel"
	case KindUser:
		return "user"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Chat is one conversation's metadata as fetched from the account. AccessHash
// is only meaningful for channels and supergroups.
type Chat struct {
	ID         int64
	Title      string
	Kind       ChatKind
	AccessHash int64
}

// Peer builds the folder membership reference for the chat. Only plain groups
// and channels can be filed into a folder.
func (c Chat) Peer() (Peer, error) {
	switch c.Kind {
	case KindGroup:
		return Peer{Kind: KindGroup, ChatID: c.ID}, nil
	case KindChannel:
		return Peer{Kind: KindChannel, ChatID: c.ID, AccessHash: c.AccessHash}, nil
	}
	return Peer{}, fmt.Errorf("cannot build peer for chat %d: unsupported chat kind %s", c.ID, c.Kind)
}

type Message struct {
	ID   int
	Date time.Time
}

// Dialog is one conversation summary entry: a chat reference, its top message
// and the unread counter. Order is as returned by the account.
type Dialog struct {
	ChatID      int64
	TopMessage  int
	UnreadCount int
}

// Snapshot is the result of one dialog-list fetch. It is built fresh every
// cycle and discarded after diffing.
type Snapshot struct {
	Chats    map[int64]Chat
	Messages []Message
	Dialogs  []Dialog
}

// Peer references a remote chat inside a folder. Equality for membership
// checks is (Kind, ChatID); the access hash is transport detail, not identity.
type Peer struct {
	Kind       ChatKind
	ChatID     int64
	AccessHash int64
}

func (p Peer) Same(other Peer) bool {
	return p.Kind == other.Kind && p.ChatID == other.ChatID
}

// Folder mirrors a remote dialog filter. It is remotely owned: read, mutated
// and written back within one assignment, never cached across cycles. The
// exclude and pinned lists are carried along so a membership update does not
// clobber them.
type Folder struct {
	ID           int
	Title        string
	Emoticon     string
	Contacts     bool
	NonContacts  bool
	Groups       bool
	Broadcasts   bool
	Bots         bool
	PinnedPeers  []Peer
	IncludePeers []Peer
	ExcludePeers []Peer
}

// Discovery describes one newly classified chat, for the optional archive.
type Discovery struct {
	ChatID      int64
	Title       string
	Unread      int
	MessageDate time.Time
}

// AccountClient is the remote account capability. full requests the complete
// dialog list; the regular variant fetches only the most recent page.
type AccountClient interface {
	ListDialogs(ctx context.Context, full bool) (*Snapshot, error)
	ListFolders(ctx context.Context) ([]Folder, error)
	UpsertFolder(ctx context.Context, folder Folder) error
}

// BotTransport delivers one notification message. No retry is performed here.
type BotTransport interface {
	Send(ctx context.Context, chatID int64, text string, html bool) error
}

// LedgerStore owns the durable set of already-seen chats.
type LedgerStore interface {
	Load() (ledger.Ledger, error)
	Save(known ledger.Ledger) error
}

// Archive optionally records discoveries for later inspection. A nil archive
// disables recording.
type Archive interface {
	RecordDiscovery(ctx context.Context, d Discovery) error
}
