package telegram

import (
	"time"

	"github.com/gotd/td/tg"

	"github.com/avolkoff/tgScout/internal/watcher"
)

// appendSnapshot folds one result page into the snapshot. Chats are keyed by
// id, so a chat repeated across pages is stored once.
func appendSnapshot(snap *watcher.Snapshot, chats []tg.ChatClass, messages []tg.MessageClass, dialogs []tg.DialogClass) {
	for _, cc := range chats {
		if chat, ok := chatFromClass(cc); ok {
			if _, seen := snap.Chats[chat.ID]; !seen {
				snap.Chats[chat.ID] = chat
			}
		}
	}
	for _, mc := range messages {
		if msg, ok := messageFromClass(mc); ok {
			snap.Messages = append(snap.Messages, msg)
		}
	}
	for _, dc := range dialogs {
		if dialog, ok := dialogFromClass(dc); ok {
			snap.Dialogs = append(snap.Dialogs, dialog)
		}
	}
}

// chatFromClass keeps plain groups and channels. Forbidden and empty chats
// carry no usable title and are dropped; the dialog referencing them then
// falls out as unresolvable.
func chatFromClass(cc tg.ChatClass) (watcher.Chat, bool) {
	switch c := cc.(type) {
	case *tg.Chat:
		return watcher.Chat{ID: c.ID, Title: c.Title, Kind: watcher.KindGroup}, true
	case *tg.Channel:
		return watcher.Chat{ID: c.ID, Title: c.Title, Kind: watcher.KindChannel, AccessHash: c.AccessHash}, true
	}
	return watcher.Chat{}, false
}

func messageFromClass(mc tg.MessageClass) (watcher.Message, bool) {
	switch m := mc.(type) {
	case *tg.Message:
		return watcher.Message{ID: m.ID, Date: time.Unix(int64(m.Date), 0)}, true
	case *tg.MessageService:
		return watcher.Message{ID: m.ID, Date: time.Unix(int64(m.Date), 0)}, true
	}
	return watcher.Message{}, false
}

// dialogFromClass translates every regular dialog, including ones pointing at
// users; those resolve to no chat in the snapshot and are skipped by the
// watcher, but they still count as examined.
func dialogFromClass(dc tg.DialogClass) (watcher.Dialog, bool) {
	d, ok := dc.(*tg.Dialog)
	if !ok {
		return watcher.Dialog{}, false
	}

	var chatID int64
	switch p := d.Peer.(type) {
	case *tg.PeerChat:
		chatID = p.ChatID
	case *tg.PeerChannel:
		chatID = p.ChannelID
	case *tg.PeerUser:
		chatID = p.UserID
	default:
		return watcher.Dialog{}, false
	}

	return watcher.Dialog{ChatID: chatID, TopMessage: d.TopMessage, UnreadCount: d.UnreadCount}, true
}

func folderFromFilter(fc tg.DialogFilterClass) (watcher.Folder, bool) {
	f, ok := fc.(*tg.DialogFilter)
	if !ok {
		return watcher.Folder{}, false
	}

	return watcher.Folder{
		ID:           f.ID,
		Title:        f.Title.Text,
		Emoticon:     f.Emoticon,
		Contacts:     f.Contacts,
		NonContacts:  f.NonContacts,
		Groups:       f.Groups,
		Broadcasts:   f.Broadcasts,
		Bots:         f.Bots,
		PinnedPeers:  peersFromInputs(f.PinnedPeers),
		IncludePeers: peersFromInputs(f.IncludePeers),
		ExcludePeers: peersFromInputs(f.ExcludePeers),
	}, true
}

func filterFromFolder(f watcher.Folder) *tg.DialogFilter {
	filter := &tg.DialogFilter{
		ID:           f.ID,
		Title:        tg.TextWithEntities{Text: f.Title},
		Contacts:     f.Contacts,
		NonContacts:  f.NonContacts,
		Groups:       f.Groups,
		Broadcasts:   f.Broadcasts,
		Bots:         f.Bots,
		PinnedPeers:  inputsFromPeers(f.PinnedPeers),
		IncludePeers: inputsFromPeers(f.IncludePeers),
		ExcludePeers: inputsFromPeers(f.ExcludePeers),
	}
	if f.Emoticon != "" {
		filter.SetEmoticon(f.Emoticon)
	}

	return filter
}

func peersFromInputs(inputs []tg.InputPeerClass) []watcher.Peer {
	peers := make([]watcher.Peer, 0, len(inputs))
	for _, ip := range inputs {
		if peer, ok := peerFromInput(ip); ok {
			peers = append(peers, peer)
		}
	}
	return peers
}

func peerFromInput(ip tg.InputPeerClass) (watcher.Peer, bool) {
	switch p := ip.(type) {
	case *tg.InputPeerChat:
		return watcher.Peer{Kind: watcher.KindGroup, ChatID: p.ChatID}, true
	case *tg.InputPeerChannel:
		return watcher.Peer{Kind: watcher.KindChannel, ChatID: p.ChannelID, AccessHash: p.AccessHash}, true
	case *tg.InputPeerUser:
		return watcher.Peer{Kind: watcher.KindUser, ChatID: p.UserID, AccessHash: p.AccessHash}, true
	}
	return watcher.Peer{}, false
}

func inputsFromPeers(peers []watcher.Peer) []tg.InputPeerClass {
	inputs := make([]tg.InputPeerClass, 0, len(peers))
	for _, peer := range peers {
		if input, ok := inputFromPeer(peer); ok {
			inputs = append(inputs, input)
		}
	}
	return inputs
}

func inputFromPeer(peer watcher.Peer) (tg.InputPeerClass, bool) {
	switch peer.Kind {
	case watcher.KindGroup:
		return &tg.InputPeerChat{ChatID: peer.ChatID}, true
	case watcher.KindChannel:
		return &tg.InputPeerChannel{ChannelID: peer.ChatID, AccessHash: peer.AccessHash}, true
	case watcher.KindUser:
		return &tg.InputPeerUser{UserID: peer.ChatID, AccessHash: peer.AccessHash}, true
	}
	return nil, false
}

func oldestMessageDate(messages []tg.MessageClass) int {
	oldest := 0
	for _, mc := range messages {
		msg, ok := messageFromClass(mc)
		if !ok {
			continue
		}
		date := int(msg.Date.Unix())
		if oldest == 0 || date < oldest {
			oldest = date
		}
	}
	return oldest
}
