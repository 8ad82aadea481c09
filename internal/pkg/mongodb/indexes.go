package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"xraychat/internal/model"
)

// EnsureIndexes 创建所有模型的索引，应用启动时调用
func EnsureIndexes(db *mongo.Database) error {
	return EnsureAllIndexes(context.Background(), db,
		&model.InferenceRecord{},
	)
}
