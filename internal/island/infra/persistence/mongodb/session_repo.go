package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/infra/persistence/model"
)

const defaultCollectionName = "island_session"

const (
	OpLoad = "repo.session.mongodb.Load"
	OpSave = "repo.session.mongodb.Save"
)

type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	if db == nil {
		return &SessionRepository{}
	}
	return &SessionRepository{coll: db.Collection(defaultCollectionName)}
}

func (r *SessionRepository) Load(ctx context.Context, id domain.SessionID) (*domain.SessionSnapshot, error) {
	if r == nil || r.coll == nil {
		return nil, domain.ErrSystemUnavailable.WithData("op", OpLoad).WithCause(errors.New("mongodb session collection is nil"))
	}

	var doc model.SessionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	switch {
	case err == nil:
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrSessionNotFound.WithData("session_id", int64(id))
	default:
		return nil, domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpLoad, "session_id": int64(id)}).WithCause(err)
	}

	s, err := model.DocToSnapshot(doc)
	if err != nil {
		return nil, domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpLoad, "session_id": int64(id)}).WithCause(err)
	}
	return s, nil
}

// Save 以 _id upsert；库里版本更高时不覆盖。
func (r *SessionRepository) Save(ctx context.Context, s *domain.SessionSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return domain.ErrSystemUnavailable.WithData("op", OpSave).WithCause(errors.New("mongodb session collection is nil"))
	}

	doc := model.SnapshotToDoc(s, time.Now())
	filter := bson.M{
		"_id":     doc.ID,
		"version": bson.M{"$lte": doc.Version},
	}
	_, err := r.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	// 版本条件不满足时 upsert 会撞主键，说明库里已有更新的快照
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpSave, "session_id": doc.ID}).WithCause(err)
	}
	return nil
}
