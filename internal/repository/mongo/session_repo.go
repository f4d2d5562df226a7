package mongo

import (
	"context"
	"errors"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new WorkoutSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts the in-progress record of a run.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires userId")
	}
	if session.Status != domain.SessionInProgress {
		return primitive.NilObjectID, errors.New("only in-progress sessions can be created")
	}
	session.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByUserID retrieves a user's session history, most recent first.
func (r *mongoSessionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	sessions := []domain.WorkoutSession{}
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Finalize writes the terminal numbers of a run. The filter on the
// in-progress status makes a second finalization fail.
func (r *mongoSessionRepository) Finalize(ctx context.Context, session *domain.WorkoutSession) error {
	if !session.Status.IsFinal() {
		return errors.New("session status must be final")
	}

	filter := bson.M{"_id": session.ID, "status": domain.SessionInProgress}
	set := bson.M{
		"status":                  session.Status,
		"totalItems":              session.TotalItems,
		"completedItems":          session.CompletedItems,
		"actualDurationWorked":    session.ActualDurationWorked,
		"percentComplete":         session.PercentComplete,
		"estimatedCaloriesBurned": session.EstimatedCaloriesBurned,
	}
	if session.CompletedAt != nil {
		set["completedAt"] = session.CompletedAt
	}
	if session.StoppedAt != nil {
		set["stoppedAt"] = session.StoppedAt
	}
	if session.StoppedAtItem != nil {
		set["stoppedAtItem"] = session.StoppedAtItem
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, session.ID); err != nil {
			return err
		}
		return repository.ErrAlreadyFinalized
	}
	return nil
}

// UpdateFeedback attaches RPE and notes to a finalized session that has no
// feedback yet.
func (r *mongoSessionRepository) UpdateFeedback(ctx context.Context, id primitive.ObjectID, rpe *int, notes string) error {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": bson.A{domain.SessionCompleted, domain.SessionStoppedEarly}},
		"rpe":    bson.M{"$exists": false},
		"notes":  bson.M{"$exists": false},
	}
	set := bson.M{}
	if rpe != nil {
		set["rpe"] = *rpe
	}
	if notes != "" {
		set["notes"] = notes
	}
	if len(set) == 0 {
		return repository.ErrUpdateFailed
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
