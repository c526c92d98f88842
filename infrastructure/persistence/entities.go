// Package persistence implements the domain store interfaces on GORM.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VideoEntity is the videos table row.
type VideoEntity struct {
	ID         string        `gorm:"column:id;primaryKey"`
	Title      string        `gorm:"column:title"`
	Uploader   string        `gorm:"column:uploader"`
	UploadDate string        `gorm:"column:upload_date"`
	Duration   time.Duration `gorm:"column:duration"`
	Language   string        `gorm:"column:language"`
	ChunkCount int           `gorm:"column:chunk_count"`
	IndexedAt  time.Time     `gorm:"column:indexed_at"`
}

// TableName implements the GORM table name convention.
func (VideoEntity) TableName() string { return "videos" }

// ChunkEntity is the chunks table row. The primary key is the chunk ID
// "{video_id}:{index}" so embeddings can reference chunks directly.
type ChunkEntity struct {
	ID        string        `gorm:"column:id;primaryKey"`
	VideoID   string        `gorm:"column:video_id;index"`
	ChunkIdx  int           `gorm:"column:chunk_idx"`
	Text      string        `gorm:"column:text"`
	StartTime time.Duration `gorm:"column:start_time"`
	EndTime   time.Duration `gorm:"column:end_time"`
}

// TableName implements the GORM table name convention.
func (ChunkEntity) TableName() string { return "chunks" }

// SegmentRecord is the JSON shape of a transcript segment.
type SegmentRecord struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// SegmentList stores transcript segments as a JSON column.
type SegmentList []SegmentRecord

// Scan implements sql.Scanner.
func (s *SegmentList) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SegmentList", value)
	}
	return json.Unmarshal(data, s)
}

// Value implements driver.Valuer.
func (s SegmentList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// TranscriptEntity is the cached transcripts table row.
type TranscriptEntity struct {
	VideoID   string      `gorm:"column:video_id;primaryKey"`
	Language  string      `gorm:"column:language"`
	Generated bool        `gorm:"column:generated"`
	Segments  SegmentList `gorm:"column:segments;type:json"`
	FetchedAt time.Time   `gorm:"column:fetched_at"`
}

// TableName implements the GORM table name convention.
func (TranscriptEntity) TableName() string { return "transcripts" }
