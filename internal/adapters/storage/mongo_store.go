package storage

import (
	"context"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/platform/obs"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// mongoDocument is the stored shape of a package: the record itself plus its
// position in the collection. Mongo's own _id is never read back.
type mongoDocument struct {
	domain.Package `bson:",inline"`
	Pos            int `bson:"_pos"`
}

// MongoDB implementation of the PackageStore port.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore binds the store to db.collection. Reads and writes go to
// the primary with majority concern so a ReadAll issued after WriteAll
// observes it.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	opts := options.Collection().
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())

	return &MongoStore{coll: client.Database(database).Collection(collection, opts)}
}

// EnsureIndexes creates the unique index on id.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	})
	if err != nil {
		return eris.Wrap(err, "mongo store: create id index")
	}
	return nil
}

func (s *MongoStore) ReadAll(ctx context.Context) (_ []domain.Package, err error) {
	defer obs.Time(ctx, "mongo.readAll")(&err)

	findOpts := options.Find().
		SetSort(bson.D{{Key: "_pos", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cur, err := s.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, eris.Wrap(err, "mongo store: find packages")
	}

	var docs []mongoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, eris.Wrap(err, "mongo store: decode packages")
	}

	list := make([]domain.Package, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.Package)
	}
	return list, nil
}

// WriteAll upserts every record by id, then deletes the ones not in list.
func (s *MongoStore) WriteAll(ctx context.Context, list []domain.Package) (err error) {
	defer obs.Time(ctx, "mongo.writeAll")(&err)

	ids := make([]string, 0, len(list))
	models := make([]mongo.WriteModel, 0, len(list))
	for i, p := range list {
		ids = append(ids, p.ID)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "id", Value: p.ID}}).
			SetReplacement(mongoDocument{Package: p, Pos: i}).
			SetUpsert(true))
	}

	if len(models) > 0 {
		if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return eris.Wrapf(err, "mongo store: upsert %d packages", len(models))
		}
	}

	filter := bson.D{}
	if len(ids) > 0 {
		filter = bson.D{{Key: "id", Value: bson.D{{Key: "$nin", Value: ids}}}}
	}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return eris.Wrap(err, "mongo store: delete stale packages")
	}

	return nil
}
