package cacheindex

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord keeps the document shape used by the first deployments of the
// service: {url, img, time} with time in Unix milliseconds.
type mongoRecord struct {
	URL  string `bson:"url"`
	Img  string `bson:"img"`
	Time int64  `bson:"time"`
}

// MongoIndex stores records as documents in a mongo collection.
type MongoIndex struct {
	coll *mongo.Collection
	now  NowFunc
}

// NewMongoIndex wraps the screenshot collection.
func NewMongoIndex(coll *mongo.Collection, opts ...Option) *MongoIndex {
	o := buildOptions(opts)
	return &MongoIndex{coll: coll, now: o.now}
}

func (m *MongoIndex) LookupFresh(ctx context.Context, url string, maxAge time.Duration) (*Record, error) {
	filter := bson.M{
		"url":  url,
		"time": bson.M{"$gt": cutoff(m.now(), maxAge)},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "time", Value: -1}})

	var doc mongoRecord
	err := m.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "lookup", Err: err}
	}

	return &Record{
		URL:         doc.URL,
		Fingerprint: doc.Img,
		CreatedAt:   time.UnixMilli(doc.Time),
	}, nil
}

func (m *MongoIndex) Insert(ctx context.Context, rec Record) error {
	_, err := m.coll.InsertOne(ctx, mongoRecord{
		URL:  rec.URL,
		Img:  rec.Fingerprint,
		Time: rec.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}
