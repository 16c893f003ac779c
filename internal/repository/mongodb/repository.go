package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

const (
	farmConfigCollection     = "farm_config"
	eggCollectionsCollection = "egg_collections"
	dailyReportsCollection   = "daily_reports"

	// farmConfigID keys the single configuration document.
	farmConfigID = "farm"
)

// Repository defines the farm's document storage.
type Repository interface {
	LoadFarmConfig(ctx context.Context) (models.FarmConfig, bool, error)
	CreateFarmConfig(ctx context.Context, cfg models.FarmConfig) (bool, error)
	SaveFarmConfig(ctx context.Context, cfg models.FarmConfig) error
	SaveEggCollection(ctx context.Context, collection models.EggCollection) error
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

type farmConfigDocument struct {
	ID                string `bson:"_id"`
	models.FarmConfig `bson:",inline"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// LoadFarmConfig returns the stored configuration. The boolean is false when
// setup has not completed.
func (r *MongoDBRepository) LoadFarmConfig(ctx context.Context) (models.FarmConfig, bool, error) {
	var doc farmConfigDocument
	err := r.collection(farmConfigCollection).FindOne(ctx, bson.M{"_id": farmConfigID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FarmConfig{}, false, nil
	}
	if err != nil {
		return models.FarmConfig{}, false, fmt.Errorf("failed to load farm config: %w", err)
	}
	return doc.FarmConfig, true, nil
}

// CreateFarmConfig inserts the configuration document under its fixed id. It
// returns false when the document already exists.
func (r *MongoDBRepository) CreateFarmConfig(ctx context.Context, cfg models.FarmConfig) (bool, error) {
	doc := farmConfigDocument{ID: farmConfigID, FarmConfig: cfg}
	_, err := r.collection(farmConfigCollection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create farm config: %w", err)
	}
	return true, nil
}

// SaveFarmConfig upserts the single configuration document.
func (r *MongoDBRepository) SaveFarmConfig(ctx context.Context, cfg models.FarmConfig) error {
	doc := farmConfigDocument{ID: farmConfigID, FarmConfig: cfg}
	_, err := r.collection(farmConfigCollection).ReplaceOne(ctx,
		bson.M{"_id": farmConfigID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save farm config: %w", err)
	}
	return nil
}

// SaveEggCollection archives a daily egg collection.
func (r *MongoDBRepository) SaveEggCollection(ctx context.Context, collection models.EggCollection) error {
	if _, err := r.collection(eggCollectionsCollection).InsertOne(ctx, collection); err != nil {
		return fmt.Errorf("failed to insert egg collection: %w", err)
	}
	return nil
}

// SaveDailyReport saves a daily report to the database.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if _, err := r.collection(dailyReportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
