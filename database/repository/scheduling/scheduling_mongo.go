package schedulingRepo

import (
	"context"
	"fmt"
	"time"

	"turnero/database"
	"turnero/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository using MongoDB.
type MongoRepo struct {
	calendarColl *mongo.Collection
	serviceColl  *mongo.Collection
	bookingColl  *mongo.Collection
	waitlistColl *mongo.Collection
}

// NewMongoRepo constructs a new instance of MongoRepo.
func NewMongoRepo() Repository {
	db := database.MongoClient.Database("turnero")
	return &MongoRepo{
		calendarColl: db.Collection("calendars"),
		serviceColl:  db.Collection("services"),
		bookingColl:  db.Collection("bookings"),
		waitlistColl: db.Collection("waitlist"),
	}
}

// GetCalendar retrieves a provider's calendar document.
func (repo *MongoRepo) GetCalendar(ctx context.Context, providerID string) (*models.ProviderCalendar, error) {
	var cal models.ProviderCalendar
	filter := bson.M{"provider_id": providerID}
	if err := repo.calendarColl.FindOne(ctx, filter).Decode(&cal); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("calendar for provider %s: %w", providerID, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching calendar for provider %s: %w", providerID, err)
	}
	return &cal, nil
}

// UpsertCalendar replaces the provider's calendar document.
func (repo *MongoRepo) UpsertCalendar(ctx context.Context, cal *models.ProviderCalendar) error {
	filter := bson.M{"provider_id": cal.ProviderID}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.calendarColl.ReplaceOne(ctx, filter, cal, opts); err != nil {
		return fmt.Errorf("error upserting calendar for provider %s: %w", cal.ProviderID, err)
	}
	return nil
}

// GetService retrieves a service document by ID.
func (repo *MongoRepo) GetService(ctx context.Context, serviceID string) (*models.Service, error) {
	var svc models.Service
	filter := bson.M{"id": serviceID}
	if err := repo.serviceColl.FindOne(ctx, filter).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching service %s: %w", serviceID, err)
	}
	return &svc, nil
}

// overlapFilter builds the half-open interval query: a stored booking
// [s, e) intersects [start, end) iff s < end AND e > start.
func overlapFilter(providerID string, interval models.TimeRange, excludeID string) bson.M {
	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": []models.BookingStatus{models.StatusConfirmed, models.StatusInProgress}},
		"start":       bson.M{"$lt": interval.End},
		"end":         bson.M{"$gt": interval.Start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// FindOverlappingBookings returns blocking bookings intersecting the interval.
func (repo *MongoRepo) FindOverlappingBookings(ctx context.Context, providerID string, interval models.TimeRange, excludeID string) ([]models.Booking, error) {
	cursor, err := repo.bookingColl.Find(ctx, overlapFilter(providerID, interval, excludeID))
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// FindBookingsBetween returns bookings starting inside [from, to) with the
// given statuses, ordered by start time.
func (repo *MongoRepo) FindBookingsBetween(ctx context.Context, providerID string, from, to time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id": providerID,
		"start":       bson.M{"$gte": from, "$lt": to},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings between %s and %s: %w", from, to, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// CountBookingsOnDay counts blocking bookings starting on the instant's
// calendar day. Used by the demand-based pricing rule.
func (repo *MongoRepo) CountBookingsOnDay(ctx context.Context, providerID string, day time.Time) (int, error) {
	dayStart := models.Midnight(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": []models.BookingStatus{models.StatusConfirmed, models.StatusInProgress}},
		"start":       bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	count, err := repo.bookingColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting bookings on %s: %w", dayStart.Format("2006-01-02"), err)
	}
	return int(count), nil
}

// GetBooking retrieves a booking by ID.
func (repo *MongoRepo) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &b, nil
}

// InsertBooking inserts a booking document without the serialized overlap
// re-check. Callers that confirm bookings must use InsertBookingSerialized.
func (repo *MongoRepo) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// UpdateBookingStatus sets the status of an existing booking.
func (repo *MongoRepo) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}
