package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avolkoff/tgScout/internal/watcher"
)

// Archive keeps a trail of discovered chats: one event document per
// discovery plus an upserted title per chat.
type Archive struct {
	events *mongo.Collection
	chats  *mongo.Collection
}

func NewArchive(dbClient *mongo.Client, dbName string) *Archive {
	database := dbClient.Database(dbName)

	return &Archive{
		events: database.Collection("discoveries"),
		chats:  database.Collection("chats"),
	}
}

func (a *Archive) RecordDiscovery(ctx context.Context, d watcher.Discovery) error {
	mctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	event := bson.M{
		"chat_id":      d.ChatID,
		"title":        d.Title,
		"unread":       d.Unread,
		"message_date": d.MessageDate,
		"found_at":     time.Now(),
	}
	if _, err := a.events.InsertOne(mctx, event); err != nil {
		return fmt.Errorf("insert discovery: %w", err)
	}

	crit := bson.D{{"_id", d.ChatID}}
	update := bson.D{{"$set", bson.D{{"title", d.Title}}}}
	t := true
	opts := &options.UpdateOptions{Upsert: &t}
	if _, err := a.chats.UpdateOne(mctx, crit, update, opts); err != nil {
		return fmt.Errorf("upsert chat: %w", err)
	}

	return nil
}
