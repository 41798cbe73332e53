package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
)

// ContentRepository stores one content collection. T must carry domain.Meta
// inline so that _id is the record id.
type ContentRepository[T any] struct {
	col         *mongo.Collection
	searchField string
	sort        bson.D
	// visible narrows public listings; nil means every record is public.
	visible func(now time.Time) bson.M
}

func NewEventRepository(db *mongo.Database) *ContentRepository[domain.Event] {
	return &ContentRepository[domain.Event]{
		col:         db.Collection(string(domain.ResourceEvents)),
		searchField: "title",
		sort:        bson.D{{Key: "starts_at", Value: 1}, {Key: "_id", Value: 1}},
	}
}

func NewBusinessRepository(db *mongo.Database) *ContentRepository[domain.Business] {
	return &ContentRepository[domain.Business]{
		col:         db.Collection(string(domain.ResourceBusinesses)),
		searchField: "name",
		sort:        bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
	}
}

func NewPhotoRepository(db *mongo.Database) *ContentRepository[domain.Photo] {
	return &ContentRepository[domain.Photo]{
		col:         db.Collection(string(domain.ResourceGallery)),
		searchField: "title",
		sort:        bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
	}
}

func NewAdRepository(db *mongo.Database) *ContentRepository[domain.Ad] {
	return &ContentRepository[domain.Ad]{
		col:         db.Collection(string(domain.ResourceAds)),
		searchField: "title",
		sort:        bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
		visible:     adVisibleAt,
	}
}

// adVisibleAt mirrors domain.Ad.VisibleAt as a query.
func adVisibleAt(now time.Time) bson.M {
	return bson.M{
		"active": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"starts_at": bson.M{"$exists": false}},
				bson.M{"starts_at": nil},
				bson.M{"starts_at": bson.M{"$lte": now}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"ends_at": bson.M{"$exists": false}},
				bson.M{"ends_at": nil},
				bson.M{"ends_at": bson.M{"$gte": now}},
			}},
		},
	}
}

func (r *ContentRepository[T]) filter(f ports.ListFilter) bson.M {
	filter := bson.M{}
	if f.PublicOnly && r.visible != nil {
		filter = r.visible(f.Now.UTC())
	}
	if f.Search != "" {
		filter[r.searchField] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

func (r *ContentRepository[T]) Insert(ctx context.Context, item *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert %s: %w", r.col.Name(), err)
	}
	return nil
}

func (r *ContentRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var item T
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.col.Name(), err)
	}
	return &item, nil
}

// List returns one page of records plus the total match count.
func (r *ContentRepository[T]) List(ctx context.Context, f ports.ListFilter) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := r.filter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.col.Name(), err)
	}

	opts := options.Find().
		SetSort(r.sort).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.col.Name(), err)
	}
	defer cur.Close(ctx)

	items := make([]T, 0, f.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", r.col.Name(), err)
	}
	return items, total, nil
}

func (r *ContentRepository[T]) Replace(ctx context.Context, item *T) error {
	id, err := recordID(item)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, item)
	if err != nil {
		return fmt.Errorf("replace %s: %w", r.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ContentRepository[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the sort and search indexes for the collection.
func (r *ContentRepository[T]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: r.sort},
		{Keys: bson.D{{Key: r.searchField, Value: 1}}},
	}
	if r.visible != nil {
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{{Key: "active", Value: 1}, {Key: "starts_at", Value: 1}, {Key: "ends_at", Value: 1}},
		})
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func recordID(item any) (string, error) {
	rec, ok := item.(domain.Record)
	if !ok {
		return "", fmt.Errorf("%T does not carry record metadata", item)
	}
	id := rec.Metadata().ID
	if id == "" {
		return "", domain.ErrNotFound
	}
	return id, nil
}
