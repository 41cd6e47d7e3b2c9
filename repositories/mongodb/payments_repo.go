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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewPaymentsRepository(client *mongo.Client, database string) *PaymentsRepository {
	return &PaymentsRepository{client: client, database: database, collection: "b2c_payments"}
}

func (r *PaymentsRepository) col() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Create inserts a new payment. Status defaults to Not Initiated and the
// commit state to Draft when not supplied.
func (r *PaymentsRepository) Create(ctx context.Context, p *models.B2CPayment) error {
	if err := prepareForInsert(p, time.Now().UTC()); err != nil {
		return err
	}

	_, err := r.col().InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", p.Name, err)
	}
	return nil
}

func prepareForInsert(p *models.B2CPayment, now time.Time) error {
	if p.Name == "" {
		return errors.EmptyParamErr("name")
	}
	if p.Status == "" {
		p.Status = models.StatusNotInitiated
	}
	if p.DocState == "" {
		p.DocState = models.DocDraft
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *PaymentsRepository) Get(ctx context.Context, name string) (*models.B2CPayment, error) {
	var p models.B2CPayment
	err := r.col().FindOne(ctx, bson.M{"_id": name}).Decode(&p)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.E(errors.NotFound, fmt.Sprintf("payment %s does not exist", name), nil)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentsRepository) GetByConversationID(ctx context.Context, conversationID string) (*models.B2CPayment, error) {
	var p models.B2CPayment
	err := r.col().FindOne(ctx, bson.M{"originator_conversation_id": conversationID}).Decode(&p)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.MissingPaymentErr(conversationID)
		}
		return nil, err
	}
	return &p, nil
}

// Update replaces the stored payment document in one write, keeping the
// batch items and header fields visible atomically.
func (r *PaymentsRepository) Update(ctx context.Context, p *models.B2CPayment) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": p.Name}, p)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", p.Name, err)
	}
	if res.MatchedCount == 0 {
		return errors.E(errors.NotFound, fmt.Sprintf("payment %s does not exist", p.Name), nil)
	}
	return nil
}

// Commit marks the payment as committed in the document store. Initiation is
// only permitted on committed payments.
func (r *PaymentsRepository) Commit(ctx context.Context, name string) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"doc_state": models.DocCommitted, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.E(errors.NotFound, fmt.Sprintf("payment %s does not exist", name), nil)
	}
	return nil
}

// SetConversationID assigns the originator conversation id if and only if
// the payment does not carry one yet, and returns the effective id either
// way. The field is written exactly once for the lifetime of a payment.
func (r *PaymentsRepository) SetConversationID(ctx context.Context, name, conversationID string) (string, error) {
	filter := bson.M{
		"_id": name,
		"$or": bson.A{
			bson.M{"originator_conversation_id": bson.M{"$exists": false}},
			bson.M{"originator_conversation_id": ""},
		},
	}
	update := bson.M{"$set": bson.M{
		"originator_conversation_id": conversationID,
		"updated_at":                 time.Now().UTC(),
	}}

	err := r.col().FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Err()
	if err == nil {
		return conversationID, nil
	}
	if !goerrors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	// Already populated (or missing); hand back what is stored.
	p, getErr := r.Get(ctx, name)
	if getErr != nil {
		return "", getErr
	}
	return p.OriginatorConversationID, nil
}

// UpdateStatus transitions the payment status only when the current status
// is one of from, in a single conditional write. Returns false when the
// guard did not match, which callers treat as a lost race or illegal
// transition rather than a storage failure.
func (r *PaymentsRepository) UpdateStatus(ctx context.Context, name string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error) {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": name, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetError records a gateway error description on the payment.
func (r *PaymentsRepository) SetError(ctx context.Context, name, description string) error {
	_, err := r.col().UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"error_description": description, "updated_at": time.Now().UTC()}})
	return err
}
