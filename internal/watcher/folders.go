package watcher

import (
	"context"
	"fmt"
)

// ensureInFolder makes sure the chat is included in the named folder,
// creating the folder first when it does not exist yet. The call is
// idempotent: a chat that is already a member causes no remote mutation.
func (w *Watcher) ensureInFolder(ctx context.Context, chat Chat, folderName string) error {
	w.log.Info("adding chat to folder", "chat", chat.ID, "title", chat.Title, "folder", folderName)

	folders, err := w.account.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	var target *Folder
	for i := range folders {
		if folders[i].Title == folderName {
			target = &folders[i]
			break
		}
	}

	if target == nil {
		created := Folder{
			ID:          nextFolderID(folders),
			Title:       folderName,
			Contacts:    true,
			NonContacts: true,
			Groups:      true,
			Broadcasts:  true,
			Bots:        true,
		}
		w.log.Info("creating folder", "folder", folderName, "id", created.ID)
		if err := w.account.UpsertFolder(ctx, created); err != nil {
			return fmt.Errorf("create folder %q: %w", folderName, err)
		}
		target = &created
	}

	peer, err := chat.Peer()
	if err != nil {
		return err
	}

	for _, p := range target.IncludePeers {
		if p.Same(peer) {
			w.log.Info("chat already in folder", "chat", chat.ID, "folder", folderName)
			return nil
		}
	}

	target.IncludePeers = append(target.IncludePeers, peer)
	if err := w.account.UpsertFolder(ctx, *target); err != nil {
		return fmt.Errorf("update folder %q: %w", folderName, err)
	}
	w.log.Info("chat added to folder", "chat", chat.ID, "folder", folderName)

	return nil
}

// Folder ids are account-assigned but chosen by the client: one past the
// highest existing id, or 1 when no folders exist.
func nextFolderID(folders []Folder) int {
	id := 1
	for _, f := range folders {
		if f.ID >= id {
			id = f.ID + 1
		}
	}
	return id
}
