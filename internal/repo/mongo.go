package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

const tasksCollection = "tasks"

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toModel() model.Task {
	return model.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      model.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// MongoRepo хранит задачи документами в коллекции tasks
type MongoRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// ConnectMongo открывает одно соединение на весь процесс
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storageErr("connect", err)
	}
	return client, nil
}

func NewMongoRepo(client *mongo.Client, database string) *MongoRepo {
	return &MongoRepo{
		client: client,
		coll:   client.Database(database).Collection(tasksCollection),
		now:    time.Now,
	}
}

// BSON хранит время с точностью до миллисекунд
func (r *MongoRepo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func (r *MongoRepo) Create(ctx context.Context, t model.NewTask) (model.Task, error) {
	now := r.timestamp()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return model.Task{}, storageErr("create", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepo) List(ctx context.Context) ([]model.Task, error) {
	// ObjectID монотонно растет, сортировка по _id дает порядок вставки
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageErr("list", err)
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("list", err)
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

func (r *MongoRepo) Update(ctx context.Context, id string, u model.TaskUpdate) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, ErrNotFound
	}

	set := bson.D{}
	if u.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *u.Title})
	}
	if u.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *u.Description})
	}
	if u.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*u.Status)})
	}

	// $max не дает updatedAt уйти назад при расхождении часов
	update := bson.D{{Key: "$max", Value: bson.D{{Key: "updatedAt", Value: r.timestamp()}}}}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}

	var doc taskDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, storageErr("update", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return storageErr("delete", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return storageErr("ping", r.client.Ping(ctx, readpref.Primary()))
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return storageErr("disconnect", r.client.Disconnect(ctx))
}
