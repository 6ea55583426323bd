package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArminGh02/ventmap/pkg/ventmap"
)

var ErrNotFound = errors.New("solver not found")

// SolverDoc holds what the bot remembers about a user. Coverage tables are
// never stored, only the counts of the last run.
type SolverDoc struct {
	UserID       int64     `bson:"user_id"`
	Name         string    `bson:"name"`
	Runs         int       `bson:"runs"`
	LastStraight int       `bson:"last_straight"`
	LastAll      int       `bson:"last_all"`
	LastSegments int       `bson:"last_segments"`
	LastSolvedAt time.Time `bson:"last_solved_at,omitempty"`
	ShowsPreview bool      `bson:"shows_preview"`
}

func newSolverDoc(userID int64, name string) *SolverDoc {
	return &SolverDoc{
		UserID:       userID,
		Name:         name,
		ShowsPreview: true,
	}
}

func (s *SolverDoc) Score() int {
	return s.Runs
}

func (s *SolverDoc) String(rank int) string {
	return fmt.Sprintf("👤 %s\n"+
		"🏆 Rank: %d\n"+
		"🧮 Maps solved: %d\n"+
		"📏 Last run: %d segments\n"+
		"➖ Straight overlaps: %d\n"+
		"✖️ All overlaps: %d",
		s.Name, rank, s.Runs, s.LastSegments, s.LastStraight, s.LastAll)
}

type Handler struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func New(ctx context.Context, uri, database string) (*Handler, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	coll := client.Database(database).Collection("solvers")
	return newHandler(client, coll), nil
}

func newHandler(client *mongo.Client, coll *mongo.Collection) *Handler {
	return &Handler{
		client: client,
		coll:   coll,
	}
}

func (h *Handler) Disconnect(ctx context.Context) error {
	return h.client.Disconnect(ctx)
}

// AddSolver inserts the user unless already present and reports whether it
// was inserted.
func (h *Handler) AddSolver(ctx context.Context, userID int64, name string) (bool, error) {
	res, err := h.coll.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": newSolverDoc(userID, name)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (h *Handler) Find(ctx context.Context, userID int64) (*SolverDoc, error) {
	var doc SolverDoc
	err := h.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// RecordRun stores the counts of a finished run.
func (h *Handler) RecordRun(ctx context.Context, userID int64, reports []ventmap.Report, at time.Time) error {
	set := bson.M{"last_solved_at": at}
	for _, r := range reports {
		switch r.Variant {
		case ventmap.Straight:
			set["last_straight"] = r.DangerousPoints
		case ventmap.All:
			set["last_all"] = r.DangerousPoints
			set["last_segments"] = r.Segments + r.Skipped
		}
	}

	res, err := h.coll.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$inc": bson.M{"runs": 1}, "$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (h *Handler) TogglePreview(ctx context.Context, userID int64) (bool, error) {
	doc, err := h.Find(ctx, userID)
	if err != nil {
		return false, err
	}
	_, err = h.coll.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"shows_preview": !doc.ShowsPreview}},
	)
	if err != nil {
		return false, err
	}
	return !doc.ShowsPreview, nil
}

func (h *Handler) GetAllSolvers(ctx context.Context) ([]SolverDoc, error) {
	cursor, err := h.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var res []SolverDoc
	if err := cursor.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (h *Handler) UsersCount(ctx context.Context) (int64, error) {
	return h.coll.CountDocuments(ctx, bson.M{})
}
