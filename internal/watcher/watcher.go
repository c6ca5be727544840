package watcher

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/avolkoff/tgScout/internal/timefmt"
)

// Watcher runs the reconciliation: fetch the current dialog list, diff it
// against the ledger of known chats, notify about the new ones and persist
// the updated ledger.
//
// Side effects are at-most-once per cycle: a chat is marked known even when
// its notification or folder assignment fails, so a failed side effect is not
// retried. Only a failure to persist the ledger itself can lead to a repeat
// notification on the next run.
type Watcher struct {
	log        *slog.Logger
	ledger     LedgerStore
	account    AccountClient
	bot        BotTransport
	archive    Archive
	selfChatID int64
	folderName string
	now        func() time.Time
}

func New(log *slog.Logger, store LedgerStore, account AccountClient, bot BotTransport, archive Archive, selfChatID int64, folderName string) *Watcher {
	return &Watcher{
		log:        log,
		ledger:     store,
		account:    account,
		bot:        bot,
		archive:    archive,
		selfChatID: selfChatID,
		folderName: folderName,
		now:        time.Now,
	}
}

// CheckOnce performs one reconciliation cycle. Errors that cross the cycle
// boundary are returned for the scheduler to log; per-chat failures are
// contained here.
func (w *Watcher) CheckOnce(ctx context.Context) error {
	w.log.Info("checking for new chats")

	known, err := w.ledger.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	firstRun := len(known) == 0
	if firstRun {
		w.log.Info("first run, collecting all chats into the ledger")
	}

	snap, err := w.account.ListDialogs(ctx, firstRun)
	if err != nil {
		return fmt.Errorf("list dialogs: %w", err)
	}

	messages := messageIndex(snap.Messages)

	newCount := 0
	for _, dialog := range snap.Dialogs {
		chat, ok := snap.Chats[dialog.ChatID]
		if !ok {
			continue
		}
		msg, ok := messages[dialog.TopMessage]
		if !ok {
			continue
		}
		if _, seen := known[chat.ID]; seen {
			continue
		}

		w.log.Info("new chat", "chat", chat.ID, "title", chat.Title, "unread", dialog.UnreadCount, "last_message", msg.Date)

		if !firstRun {
			text := w.notificationText(chat, dialog, msg)
			if err := w.bot.Send(ctx, w.selfChatID, text, true); err != nil {
				w.log.Error("failed to send notification", "chat", chat.ID, "error", err)
			}
		}

		known[chat.ID] = chat.Title
		newCount++

		if w.archive != nil {
			d := Discovery{ChatID: chat.ID, Title: chat.Title, Unread: dialog.UnreadCount, MessageDate: msg.Date}
			if err := w.archive.RecordDiscovery(ctx, d); err != nil {
				w.log.Error("failed to record discovery", "chat", chat.ID, "error", err)
			}
		}

		if w.folderName != "" {
			if err := w.ensureInFolder(ctx, chat, w.folderName); err != nil {
				w.log.Error("failed to add chat to folder", "chat", chat.ID, "folder", w.folderName, "error", err)
			}
		}
	}

	if err := w.ledger.Save(known); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	w.log.Info("check finished", "checked", len(snap.Dialogs), "new", newCount)

	return nil
}

func (w *Watcher) notificationText(chat Chat, dialog Dialog, msg Message) string {
	return fmt.Sprintf(
		"🆕 New chat: <a href=\"https://t.me/c/%d\"><b>%s</b></a>\n"+
			"📬 Unread messages: %d\n"+
			"⌚ Last message: %s",
		chat.ID, html.EscapeString(chat.Title), dialog.UnreadCount, timefmt.Relative(w.now(), msg.Date))
}

// messageIndex keys messages by id; the first occurrence wins on duplicates.
func messageIndex(messages []Message) map[int]Message {
	index := make(map[int]Message, len(messages))
	for _, m := range messages {
		if _, ok := index[m.ID]; ok {
			continue
		}
		index[m.ID] = m
	}
	return index
}
