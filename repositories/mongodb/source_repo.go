package mongodb

import (
	// Go Internal Packages
	"context"
	goerrors "errors"
	"fmt"
	"time"

	// Local Packages
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SourceRepository reads the upstream business records and directory
// entities a disbursement batch is built from.
type SourceRepository struct {
	client   *mongo.Client
	database string
}

func NewSourceRepository(client *mongo.Client, database string) *SourceRepository {
	return &SourceRepository{client: client, database: database}
}

func (r *SourceRepository) db() *mongo.Database {
	return r.client.Database(r.database)
}

// ListByWindow fetches records of the given doctype created strictly after
// start and on or before end, in creation order. Date bounds are exclusive
// lower, inclusive upper throughout this repository. An empty result set is
// reported as a no-data condition, not swallowed.
func (r *SourceRepository) ListByWindow(ctx context.Context, doctype models.SourceDocType, start, end time.Time) ([]models.SourceRecord, error) {
	if !doctype.Valid() {
		return nil, errors.InvalidParamsErr(fmt.Errorf("unsupported source doctype %q", doctype))
	}

	filter := bson.M{"creation": bson.M{"$gt": start, "$lte": end}}
	opts := options.Find().SetSort(bson.D{{Key: "creation", Value: 1}})

	cursor, err := r.db().Collection(doctype.Collection()).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var records []models.SourceRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NoDataErr(string(doctype))
	}
	return records, nil
}

func (r *SourceRepository) GetEmployee(ctx context.Context, name string) (*models.Employee, error) {
	var e models.Employee
	err := r.db().Collection("employees").FindOne(ctx, bson.M{"_id": name}).Decode(&e)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.E(errors.NotFound, fmt.Sprintf("employee %s does not exist", name), nil)
		}
		return nil, err
	}
	return &e, nil
}

func (r *SourceRepository) GetSupplier(ctx context.Context, name string) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db().Collection("suppliers").FindOne(ctx, bson.M{"_id": name}).Decode(&s)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.E(errors.NotFound, fmt.Sprintf("supplier %s does not exist", name), nil)
		}
		return nil, err
	}
	return &s, nil
}

// FindContactByName fuzzy-matches a contact directory entry whose name
// contains the given name, case-insensitively.
func (r *SourceRepository) FindContactByName(ctx context.Context, name string) (*models.Contact, error) {
	filter := bson.M{"_id": primitive.Regex{Pattern: name, Options: "i"}}

	var c models.Contact
	err := r.db().Collection("contacts").FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.E(errors.NotFound, fmt.Sprintf("no contact matches %q", name), nil)
		}
		return nil, err
	}
	return &c, nil
}

// GetDefaultCompany returns the active organizational unit whose
// abbreviation qualifies ledger account names.
func (r *SourceRepository) GetDefaultCompany(ctx context.Context) (*models.Company, error) {
	var c models.Company
	err := r.db().Collection("companies").FindOne(ctx, bson.M{}).Decode(&c)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.E(errors.NotFound, "no company is configured", nil)
		}
		return nil, err
	}
	return &c, nil
}

// FindAccountByPattern matches a ledger account by name pattern,
// case-insensitively.
func (r *SourceRepository) FindAccountByPattern(ctx context.Context, pattern string) (*models.Account, error) {
	filter := bson.M{"_id": primitive.Regex{Pattern: pattern, Options: "i"}}

	var a models.Account
	err := r.db().Collection("accounts").FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.E(errors.NotFound, fmt.Sprintf("no account matches %q", pattern), nil)
		}
		return nil, err
	}
	return &a, nil
}
