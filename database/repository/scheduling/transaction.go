package schedulingRepo

import (
	"context"
	"errors"
	"fmt"

	"turnero/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// InsertBookingSerialized inserts the given bookings inside one transaction,
// re-checking the interval for blocking overlaps first. The re-check and the
// insert are atomic with respect to other booking attempts for the same
// provider, closing the gap between the caller's conflict check and the
// insert. All bookings in a group share one interval, so one re-check per
// distinct (provider, interval) pair suffices.
func (repo *MongoRepo) InsertBookingSerialized(ctx context.Context, bookings ...*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		checked := map[string]bool{}
		for _, b := range bookings {
			if !b.Status.Blocking() {
				continue
			}
			key := b.ProviderID + "|" + b.Start.String() + "|" + b.End.String()
			if checked[key] {
				continue
			}
			checked[key] = true

			count, err := repo.bookingColl.CountDocuments(sc, overlapFilter(b.ProviderID, b.Interval(), ""))
			if err != nil {
				return fmt.Errorf("overlap re-check failed: %w", err)
			}
			if count > 0 {
				return ErrSlotTaken
			}
		}

		docs := make([]interface{}, len(bookings))
		for i, b := range bookings {
			docs[i] = b
		}
		if _, err := repo.bookingColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert bookings failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}
