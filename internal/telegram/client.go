package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	"github.com/avolkoff/tgScout/internal/config"
	"github.com/avolkoff/tgScout/internal/prompt"
	"github.com/avolkoff/tgScout/internal/watcher"
)

const dialogPageLimit = 100

// Client adapts the MTProto account client to the watcher's capability
// interface.
type Client struct {
	log      *slog.Logger
	creds    config.Credentials
	prompter prompt.Prompter
	tc       *telegram.Client
	api      *tg.Client
}

func NewClient(log *slog.Logger, creds config.Credentials, sessionPath string, prompter prompt.Prompter) *Client {
	tc := telegram.NewClient(creds.ApiId, creds.ApiHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: sessionPath},
	})

	return &Client{log: log, creds: creds, prompter: prompter, tc: tc, api: tc.API()}
}

// Run owns the connection lifecycle: connect, log in if needed, then hand
// control to f until it returns or ctx is cancelled.
func (c *Client) Run(ctx context.Context, f func(ctx context.Context) error) error {
	return c.tc.Run(ctx, func(ctx context.Context) error {
		if err := c.login(ctx); err != nil {
			return err
		}
		return f(ctx)
	})
}

func (c *Client) login(ctx context.Context) error {
	flow := auth.NewFlow(promptAuth{phone: c.creds.PhoneNumber, prompter: c.prompter}, auth.SendCodeOptions{})
	if err := c.tc.Auth().IfNecessary(ctx, flow); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	self, err := c.tc.Self(ctx)
	if err != nil {
		return fmt.Errorf("get self: %w", err)
	}
	name := self.Username
	if name == "" {
		name = self.FirstName
	}
	c.log.Info("logged in", "id", self.ID, "user", name)

	return nil
}

// ListDialogs fetches one page of recent dialogs, or pages through the whole
// list when full is set. The protocol has no single "all dialogs" call, so
// the full fetch loops on the message-date offset until exhaustion.
func (c *Client) ListDialogs(ctx context.Context, full bool) (*watcher.Snapshot, error) {
	snap := &watcher.Snapshot{Chats: make(map[int64]watcher.Chat)}

	offsetDate := 0
	for {
		res, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
			OffsetDate: offsetDate,
			OffsetPeer: &tg.InputPeerEmpty{},
			Limit:      dialogPageLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("get dialogs: %w", err)
		}

		var (
			dialogs  []tg.DialogClass
			messages []tg.MessageClass
			chats    []tg.ChatClass
			complete bool
		)
		switch d := res.(type) {
		case *tg.MessagesDialogs:
			dialogs, messages, chats = d.Dialogs, d.Messages, d.Chats
			complete = true
		case *tg.MessagesDialogsSlice:
			dialogs, messages, chats = d.Dialogs, d.Messages, d.Chats
		default:
			return nil, fmt.Errorf("unexpected dialogs answer %T", res)
		}

		appendSnapshot(snap, chats, messages, dialogs)

		if !full || complete || len(dialogs) < dialogPageLimit {
			return snap, nil
		}
		next := oldestMessageDate(messages)
		if next == 0 || next == offsetDate {
			return snap, nil
		}
		offsetDate = next
	}
}

// ListFolders returns the account's dialog filters. Non-filter entries (the
// default list, shared chat lists) are not usable folder targets and are
// dropped.
func (c *Client) ListFolders(ctx context.Context) ([]watcher.Folder, error) {
	res, err := c.api.MessagesGetDialogFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dialog filters: %w", err)
	}

	folders := make([]watcher.Folder, 0, len(res.Filters))
	for _, fc := range res.Filters {
		if folder, ok := folderFromFilter(fc); ok {
			folders = append(folders, folder)
		}
	}

	return folders, nil
}

func (c *Client) UpsertFolder(ctx context.Context, folder watcher.Folder) error {
	req := &tg.MessagesUpdateDialogFilterRequest{ID: folder.ID}
	req.SetFilter(filterFromFolder(folder))

	if _, err := c.api.MessagesUpdateDialogFilter(ctx, req); err != nil {
		return fmt.Errorf("update dialog filter %d: %w", folder.ID, err)
	}

	return nil
}
