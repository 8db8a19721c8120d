package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (treatment.Repository, error) {
	repo := &Repository{
		collection: db.Collection(treatment.CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type Repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "treatmentGroup", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("TreatmentGroup"),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, patientIds []string) ([]treatment.Assignment, error) {
	if len(patientIds) == 0 {
		return []treatment.Assignment{}, nil
	}
	return r.List(ctx, &treatment.Filter{PatientIds: patientIds})
}

func (r *Repository) List(ctx context.Context, filter *treatment.Filter) ([]treatment.Assignment, error) {
	selector := bson.M{}
	if filter != nil {
		if filter.PatientIds != nil {
			selector["_id"] = bson.M{"$in": filter.PatientIds}
		}
		if filter.Group != nil {
			selector["treatmentGroup"] = *filter.Group
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	assignments := make([]treatment.Assignment, 0)
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("error decoding assignments: %w", err)
	}

	return assignments, nil
}

// Upsert stores the treatment group of every assignment. The created time is only set on insert.
func (r *Repository) Upsert(ctx context.Context, assignments []treatment.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(assignments))
	for _, assignment := range assignments {
		update := bson.M{
			"$set": bson.M{
				"treatmentGroup": assignment.TreatmentGroup,
				"updatedTime":    now,
			},
			"$setOnInsert": bson.M{
				"createdTime": now,
			},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": assignment.PatientId}).
			SetUpdate(update).
			SetUpsert(true),
		)
	}

	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("error upserting assignments: %w", err)
	}

	r.logger.Infow("upserted treatment assignments",
		"matched", res.MatchedCount,
		"modified", res.ModifiedCount,
		"upserted", res.UpsertedCount,
	)
	return nil
}
