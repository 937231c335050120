package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TopicStatus is the self-reported mastery state of a single topic.
// Every status may transition to every other status; completed is not
// sticky and can be reverted.
type TopicStatus string

const (
	TopicStatusPending   TopicStatus = "pending"
	TopicStatusLearning  TopicStatus = "learning"
	TopicStatusOnHold    TopicStatus = "onhold"
	TopicStatusCompleted TopicStatus = "completed"
	TopicStatusIgnore    TopicStatus = "ignore"
)

// Valid reports whether the status is one of the known status values.
func (s TopicStatus) Valid() bool {
	switch s {
	case TopicStatusPending, TopicStatusLearning, TopicStatusOnHold,
		TopicStatusCompleted, TopicStatusIgnore:
		return true
	}
	return false
}

// ProgressSchemaVersion is the current schema version of ProgressDocument.
// Version 1 was the legacy single-curriculum shape written before
// multi-curriculum support; it carried no version tag at all.
const ProgressSchemaVersion = 2

// LegacyCurriculumSlug is the curriculum legacy records belong to. The
// application tracked exactly one curriculum before going multi-curriculum,
// so every version 1 record is Java progress.
const LegacyCurriculumSlug = "java"

// ProgressRecord tracks one account's progress through one curriculum.
// Topic ids absent from TopicStatuses are implicitly pending.
// CompletedTopics is derived from TopicStatuses and never set directly.
type ProgressRecord struct {
	TopicStatuses   map[int]TopicStatus `json:"topic_statuses"`
	CompletedTopics int                 `json:"completed_topics"`
	TotalTopics     int                 `json:"total_topics"`
	LastUpdated     time.Time           `json:"last_updated"`
}

// NewProgressRecord creates an empty record for a curriculum with the given
// topic count.
func NewProgressRecord(totalTopics int) *ProgressRecord {
	return &ProgressRecord{
		TopicStatuses: make(map[int]TopicStatus),
		TotalTopics:   totalTopics,
	}
}

// SeedPending marks every topic id from 1 through totalTopics as pending.
// Used when registration initializes the default curriculum's progress.
func (r *ProgressRecord) SeedPending() {
	if r.TopicStatuses == nil {
		r.TopicStatuses = make(map[int]TopicStatus)
	}
	for id := 1; id <= r.TotalTopics; id++ {
		r.TopicStatuses[id] = TopicStatusPending
	}
	r.CompletedTopics = 0
}

// SetTopicStatus inserts or overwrites the status of a single topic and
// recomputes the completed count by rescanning the whole map. The rescan is
// deliberate: incremental counting drifts when an entry is overwritten.
// Returns ErrInvalidTopicStatus or ErrTopicIDOutOfRange on bad input.
func (r *ProgressRecord) SetTopicStatus(topicID int, status TopicStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTopicStatus, status)
	}

	if topicID < 1 || topicID > r.TotalTopics {
		return fmt.Errorf("%w: %d not in 1..%d", ErrTopicIDOutOfRange, topicID, r.TotalTopics)
	}

	if r.TopicStatuses == nil {
		r.TopicStatuses = make(map[int]TopicStatus)
	}

	r.TopicStatuses[topicID] = status
	r.recomputeCompleted()
	r.LastUpdated = time.Now().UTC()
	return nil
}

// Reset sets every known topic id back to pending and the completed count
// to zero.
func (r *ProgressRecord) Reset() {
	if r.TopicStatuses == nil {
		r.TopicStatuses = make(map[int]TopicStatus)
	}
	// Stray ids left behind by curriculum edits are reset too, not dropped.
	for id := range r.TopicStatuses {
		r.TopicStatuses[id] = TopicStatusPending
	}
	for id := 1; id <= r.TotalTopics; id++ {
		r.TopicStatuses[id] = TopicStatusPending
	}
	r.CompletedTopics = 0
	r.LastUpdated = time.Now().UTC()
}

// CompletionPercent returns the completed fraction as a whole percentage.
func (r *ProgressRecord) CompletionPercent() int {
	if r.TotalTopics == 0 {
		return 0
	}
	return r.CompletedTopics * 100 / r.TotalTopics
}

func (r *ProgressRecord) recomputeCompleted() {
	count := 0
	for _, status := range r.TopicStatuses {
		if status == TopicStatusCompleted {
			count++
		}
	}
	r.CompletedTopics = count
}

// ProgressDocument is the versioned, per-account progress container mapping
// curriculum slugs to progress records.
type ProgressDocument struct {
	SchemaVersion int                        `json:"schema_version"`
	Curricula     map[string]*ProgressRecord `json:"curricula"`
}

// NewProgressDocument creates an empty document at the current schema version.
func NewProgressDocument() ProgressDocument {
	return ProgressDocument{
		SchemaVersion: ProgressSchemaVersion,
		Curricula:     make(map[string]*ProgressRecord),
	}
}

// legacyProgressRecord is the version 1 on-disk shape: one flat record,
// camelCase keys, no curriculum keying and no version tag.
type legacyProgressRecord struct {
	TopicStatuses   map[int]TopicStatus `json:"topicStatuses"`
	CompletedTopics int                 `json:"completedTopics"`
	TotalTopics     int                 `json:"totalTopics"`
	LastUpdated     time.Time           `json:"lastUpdated"`
}

// MigrateProgress decodes a stored progress payload at any schema version
// into the current multi-curriculum shape. Migration is keyed on the
// explicit schema_version tag: a missing tag marks a version 1 record,
// which is rehomed under the legacy curriculum slug. Applying the function
// to already-current data is a no-op, so the migration is idempotent.
func MigrateProgress(raw []byte) (ProgressDocument, error) {
	if len(raw) == 0 {
		return NewProgressDocument(), nil
	}

	var versionTag struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(raw, &versionTag); err != nil {
		return ProgressDocument{}, fmt.Errorf("failed to decode progress version tag: %w", err)
	}

	if versionTag.SchemaVersion >= ProgressSchemaVersion {
		var doc ProgressDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return ProgressDocument{}, fmt.Errorf("failed to decode progress document: %w", err)
		}
		if doc.Curricula == nil {
			doc.Curricula = make(map[string]*ProgressRecord)
		}
		return doc, nil
	}

	// Version 1: single flat record, always Java.
	var legacy legacyProgressRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return ProgressDocument{}, fmt.Errorf("failed to decode legacy progress record: %w", err)
	}

	record := &ProgressRecord{
		TopicStatuses:   legacy.TopicStatuses,
		CompletedTopics: legacy.CompletedTopics,
		TotalTopics:     legacy.TotalTopics,
		LastUpdated:     legacy.LastUpdated,
	}
	if record.TopicStatuses == nil {
		record.TopicStatuses = make(map[int]TopicStatus)
	}
	record.recomputeCompleted()

	doc := NewProgressDocument()
	doc.Curricula[LegacyCurriculumSlug] = record
	return doc, nil
}
