package schedulingRepo

import (
	"context"
	"fmt"
	"time"

	"turnero/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertWaitlistEntry persists a new waitlist entry. Inserting an entry
// whose id already exists is a no-op, making enqueue idempotent on id.
func (repo *MongoRepo) InsertWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	count, err := repo.waitlistColl.CountDocuments(ctx, bson.M{"id": entry.ID})
	if err != nil {
		return fmt.Errorf("error checking waitlist entry %s: %w", entry.ID, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := repo.waitlistColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error inserting waitlist entry: %w", err)
	}
	return nil
}

// GetWaitlistEntry retrieves a waitlist entry by ID.
func (repo *MongoRepo) GetWaitlistEntry(ctx context.Context, id string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	if err := repo.waitlistColl.FindOne(ctx, bson.M{"id": id}).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("waitlist entry %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching waitlist entry %s: %w", id, err)
	}
	return &entry, nil
}

// ActiveWaitlistEntries returns up to limit active entries for a provider,
// highest priority first, ties broken by arrival order.
func (repo *MongoRepo) ActiveWaitlistEntries(ctx context.Context, providerID string, limit int) ([]models.WaitlistEntry, error) {
	filter := bson.M{"provider_id": providerID, "status": models.WaitlistActive}
	opts := options.Find().
		SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := repo.waitlistColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching waitlist for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var entries []models.WaitlistEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding waitlist entries: %w", err)
	}
	return entries, nil
}

// ProvidersWithActiveWaitlist lists providers with at least one active entry.
func (repo *MongoRepo) ProvidersWithActiveWaitlist(ctx context.Context) ([]string, error) {
	raw, err := repo.waitlistColl.Distinct(ctx, "provider_id", bson.M{"status": models.WaitlistActive})
	if err != nil {
		return nil, fmt.Errorf("error listing providers with active waitlist: %w", err)
	}
	providers := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			providers = append(providers, id)
		}
	}
	return providers, nil
}

// MarkWaitlistNotified records when an entry was last offered a slot.
func (repo *MongoRepo) MarkWaitlistNotified(ctx context.Context, id string, at time.Time) error {
	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"last_notified_at": at}}
	res, err := repo.waitlistColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error marking waitlist entry %s notified: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("waitlist entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// CancelWaitlistEntry marks an entry as cancelled; it is never deleted so
// the audit trail survives.
func (repo *MongoRepo) CancelWaitlistEntry(ctx context.Context, id string) error {
	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"status": models.WaitlistCancelled}}
	res, err := repo.waitlistColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error cancelling waitlist entry %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("waitlist entry %s: %w", id, ErrNotFound)
	}
	return nil
}
