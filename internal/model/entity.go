package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InferenceRecord 一次推理调用的审计记录
type InferenceRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Language  Language           `bson:"language" json:"language"`
	Question  string             `bson:"question" json:"question"`
	ImageKey  string             `bson:"image_key" json:"image_key"`
	History   int                `bson:"history" json:"history"`
	Sampling  SamplingParameters `bson:"sampling" json:"sampling"`
	State     string             `bson:"state" json:"state"`
	ErrorKind string             `bson:"error_kind,omitempty" json:"error_kind,omitempty"`
	Error     string             `bson:"error,omitempty" json:"error,omitempty"`
	AnswerLen int                `bson:"answer_len" json:"answer_len"`
	Latency   time.Duration      `bson:"latency" json:"latency"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Collection 集合名称
func (r *InferenceRecord) Collection() string {
	return "inference_records"
}

// EnsureIndexes 创建索引
func (r *InferenceRecord) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(r.Collection()).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "session_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_session_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "state", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_state_created"),
		},
	})
	return err
}
