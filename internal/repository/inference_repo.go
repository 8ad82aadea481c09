package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"xraychat/internal/model"
)

// InferenceRepo 推理审计记录仓库
type InferenceRepo struct {
	collection *mongo.Collection
}

// NewInferenceRepo 创建推理审计记录仓库
func NewInferenceRepo(db *mongo.Database) *InferenceRepo {
	return &InferenceRepo{
		collection: db.Collection((&model.InferenceRecord{}).Collection()),
	}
}

// Save 保存记录
func (r *InferenceRepo) Save(ctx context.Context, rec *model.InferenceRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return nil
}

// ListBySession 查询会话的推理记录，按时间倒序
func (r *InferenceRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int64) ([]*model.InferenceRecord, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []*model.InferenceRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}

	return recs, nil
}

// CountByState 统计 since 之后各终态的调用次数
func (r *InferenceRepo) CountByState(ctx context.Context, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$state", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		State string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}
