// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mongostore implements store.Store on a MongoDB collection.
//
// Each poll is one document with embedded options, reaction counters and
// the identity tokens that voted. Every mutation is a single
// FindOneAndUpdate whose filter carries the preconditions, so a write
// either applies completely or not at all.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/danielhkuo/vanishvote/lifecycle"
	"github.com/danielhkuo/vanishvote/models"
	"github.com/danielhkuo/vanishvote/store"
)

const collectionName = "polls"

type pollDoc struct {
	ID          string       `bson:"_id"`
	Title       string       `bson:"title"`
	Options     []optionDoc  `bson:"options"`
	CreatedAt   time.Time    `bson:"createdAt"`
	ExpiresAt   time.Time    `bson:"expiresAt"`
	HideResults bool         `bson:"hideResults"`
	IsPrivate   bool         `bson:"isPrivate"`
	Reactions   reactionsDoc `bson:"reactions"`
	VoterTokens []string     `bson:"voterTokens,omitempty"`
}

type optionDoc struct {
	ID    string `bson:"id"`
	Text  string `bson:"text"`
	Votes int64  `bson:"votes"`
}

type reactionsDoc struct {
	Trending int64 `bson:"trending"`
	Likes    int64 `bson:"likes"`
}

// voterTokens is never read back
var publicProjection = bson.D{{Key: "voterTokens", Value: 0}}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri and returns a Store on database.polls with indexes in place
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{client: client, coll: client.Database(database).Collection(collectionName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the expiresAt index. Safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create expiresAt index: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, poll *models.Poll) error {
	doc := pollDoc{
		ID:          poll.ID,
		Title:       poll.Title,
		Options:     make([]optionDoc, len(poll.Options)),
		CreatedAt:   poll.CreatedAt,
		ExpiresAt:   poll.ExpiresAt,
		HideResults: poll.HideResults,
		IsPrivate:   poll.IsPrivate,
	}
	for i, opt := range poll.Options {
		doc.Options[i] = optionDoc{ID: opt.ID, Text: opt.Text}
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	var doc pollDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": pollID}, options.FindOne().SetProjection(publicProjection)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) RecordVote(ctx context.Context, v store.Vote) (*models.Poll, error) {
	filter, update := voteUpdate(v)
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var doc pollDoc
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.diagnose(ctx, v.PollID, v.OptionID, v.Now)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) AddReaction(ctx context.Context, pollID string, field store.ReactionField, now time.Time) (models.Reactions, error) {
	key := "reactions.trending"
	if field == store.Likes {
		key = "reactions.likes"
	}

	filter := bson.M{"_id": pollID, "expiresAt": bson.M{"$gte": now}}
	update := bson.M{"$inc": bson.M{key: 1}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "reactions", Value: 1}})

	var doc pollDoc
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Reactions{}, s.diagnose(ctx, pollID, "", now)
	}
	if err != nil {
		return models.Reactions{}, fmt.Errorf("failed to add reaction: %w", err)
	}
	return models.Reactions{Trending: doc.Reactions.Trending, Likes: doc.Reactions.Likes}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// diagnose explains why a conditional update matched nothing. It only
// reads, so a stale answer can misreport the reason but never mutate.
func (s *Store) diagnose(ctx context.Context, pollID, optionID string, now time.Time) error {
	poll, err := s.Get(ctx, pollID)
	if err != nil {
		return err
	}
	if lifecycle.Evaluate(now, poll.ExpiresAt) == lifecycle.Expired {
		return store.ErrExpired
	}
	if optionID == "" {
		return fmt.Errorf("reaction update on active poll %s matched nothing", pollID)
	}
	if _, ok := poll.Option(optionID); !ok {
		return store.ErrInvalidOption
	}
	return store.ErrDuplicate
}

// voteUpdate builds the conditional update for v. voterTokens stays a set
// under either policy; only Unique makes a known token block the update.
func voteUpdate(v store.Vote) (filter, update bson.M) {
	filter = bson.M{
		"_id":        v.PollID,
		"expiresAt":  bson.M{"$gte": v.Now},
		"options.id": v.OptionID,
	}
	if v.Unique {
		filter["voterTokens"] = bson.M{"$ne": v.IdentityToken}
	}
	update = bson.M{
		"$inc":      bson.M{"options.$.votes": 1},
		"$addToSet": bson.M{"voterTokens": v.IdentityToken},
	}
	return filter, update
}

func (d *pollDoc) toModel() *models.Poll {
	poll := &models.Poll{
		ID:          d.ID,
		Title:       d.Title,
		Options:     make([]models.Option, len(d.Options)),
		CreatedAt:   d.CreatedAt.UTC(),
		ExpiresAt:   d.ExpiresAt.UTC(),
		HideResults: d.HideResults,
		IsPrivate:   d.IsPrivate,
		Reactions:   models.Reactions{Trending: d.Reactions.Trending, Likes: d.Reactions.Likes},
	}
	for i, opt := range d.Options {
		poll.Options[i] = models.Option{ID: opt.ID, Text: opt.Text, Votes: opt.Votes}
	}
	return poll
}
