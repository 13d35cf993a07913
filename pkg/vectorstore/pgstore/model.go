package pgstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentChunkModel is the persisted row behind a vector-store chunk. The
// JSONB metadata column keeps the open-ended key set queryable with
// containment operators.
type DocumentChunkModel struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimensionality
	Metadata  datatypes.JSON  `gorm:"type:jsonb"`
	Client    string          `gorm:"type:varchar(64);index"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

func (DocumentChunkModel) TableName() string {
	return "document_chunks"
}
