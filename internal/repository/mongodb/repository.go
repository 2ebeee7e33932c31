package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// ErrNotFound is returned when an id matches no stored record.
var ErrNotFound = errors.New("record not found")

const (
	deliveriesCollection     = "deliveries"
	consumptionCollection    = "consumption_entries"
	trucksCollection         = "trucks"
	counterpartiesCollection = "counterparties"
	transactionsCollection   = "transactions"
	paymentsCollection       = "payments"
	reportsCollection        = "daily_reports"
)

// DeliveryRepository persists tank deliveries and withdrawals.
type DeliveryRepository interface {
	ListDeliveries(ctx context.Context, tankID string) ([]models.DeliveryRecord, error)
	CreateDelivery(ctx context.Context, record models.DeliveryRecord) (models.DeliveryRecord, error)
	UpdateDelivery(ctx context.Context, id string, patch models.DeliveryPatch) error
	DeleteDelivery(ctx context.Context, id string) error
}

// FleetRepository persists trucks and their consumption entries.
type FleetRepository interface {
	ListTrucks(ctx context.Context) ([]models.Truck, error)
	GetTruck(ctx context.Context, id string) (models.Truck, error)
	CreateTruck(ctx context.Context, truck models.Truck) (models.Truck, error)
	UpdateTruck(ctx context.Context, id string, patch models.TruckPatch) error
	DeleteTruck(ctx context.Context, id string) error

	ListConsumption(ctx context.Context, vehicleID string) ([]models.ConsumptionEntry, error)
	GetConsumption(ctx context.Context, id string) (models.ConsumptionEntry, error)
	CreateConsumption(ctx context.Context, entry models.ConsumptionEntry) (models.ConsumptionEntry, error)
	UpdateConsumption(ctx context.Context, id string, patch models.ConsumptionPatch) error
	DeleteConsumption(ctx context.Context, id string) error
}

// LedgerRepository persists counterparties and their account movements.
type LedgerRepository interface {
	ListCounterparties(ctx context.Context) ([]models.Counterparty, error)
	GetCounterparty(ctx context.Context, id string) (models.Counterparty, error)
	CreateCounterparty(ctx context.Context, cp models.Counterparty) (models.Counterparty, error)

	// An empty counterpartyID lists every record.
	ListTransactions(ctx context.Context, counterpartyID string) ([]models.LedgerTransaction, error)
	CreateTransaction(ctx context.Context, tx models.LedgerTransaction) (models.LedgerTransaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ListPayments(ctx context.Context, counterpartyID string) ([]models.LedgerPayment, error)
	CreatePayment(ctx context.Context, payment models.LedgerPayment) (models.LedgerPayment, error)
	DeletePayment(ctx context.Context, id string) error
}

// ReportRepository defines the interface for report storage.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

var (
	_ DeliveryRepository = (*MongoDBRepository)(nil)
	_ FleetRepository    = (*MongoDBRepository)(nil)
	_ LedgerRepository   = (*MongoDBRepository)(nil)
	_ ReportRepository   = (*MongoDBRepository)(nil)
)

// MongoDBRepository implements every repository interface on one database.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
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

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		now:    time.Now,
	}, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// SaveDailyReport saves a daily report to the database.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = r.now().UTC()
	}
	if _, err := r.db.Collection(reportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = r.now().UTC()
	}
}

// collection wraps the id-keyed CRUD calls shared by every entity.
type collection[T any] struct {
	coll *mongo.Collection
	name string
}

func newCollection[T any](db *mongo.Database, name string) collection[T] {
	return collection[T]{coll: db.Collection(name), name: name}
}

func (c collection[T]) find(ctx context.Context, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return out, nil
}

func (c collection[T]) get(ctx context.Context, id string) (T, error) {
	var doc T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}
	if err != nil {
		return doc, fmt.Errorf("get %s %s: %w", c.name, id, err)
	}
	return doc, nil
}

func (c collection[T]) insert(ctx context.Context, doc T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return nil
}

func (c collection[T]) update(ctx context.Context, id string, set bson.M) error {
	if len(set) == 0 {
		_, err := c.get(ctx, id)
		return err
	}

	res, err := c.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", c.name, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}
	return nil
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.name, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}
	return nil
}

func setIf[T any](set bson.M, key string, value *T) {
	if value != nil {
		set[key] = *value
	}
}

func byField(key, value string) bson.M {
	if value == "" {
		return bson.M{}
	}
	return bson.M{key: value}
}
