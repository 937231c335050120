package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Curriculum validation errors
var (
	ErrEmptyCurriculumID   = errors.New("curriculum ID cannot be empty")
	ErrEmptyCurriculumName = errors.New("curriculum name cannot be empty")
	ErrEmptySlug           = errors.New("curriculum slug cannot be empty")
	ErrNoPhases            = errors.New("curriculum must have at least one phase")
)

// Curriculum is a named learning path composed of ordered phases of topics.
// The slug is the globally unique external identifier; the UUID is the
// internal storage id and is never used for lookups by clients.
type Curriculum struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Phases      []Phase   `json:"phases"`
	TotalTopics int       `json:"total_topics"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Phase is an ordered group of topics inside a curriculum.
type Phase struct {
	Name   string  `json:"name"`
	Topics []Topic `json:"topics"`
}

// Topic is the smallest trackable unit of learning content. Its id is
// unique within the curriculum and assigned by AssignTopicIDs, never by
// the author.
type Topic struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCurriculum creates a new Curriculum from authored phases. It derives
// the slug from the name and assigns topic ids.
// Returns an error if validation fails.
func NewCurriculum(name, description string, phases []Phase, createdBy uuid.UUID) (*Curriculum, error) {
	now := time.Now().UTC()
	processed, total := AssignTopicIDs(phases)

	curriculum := &Curriculum{
		ID:          uuid.New(),
		Slug:        Slugify(name),
		Name:        name,
		Description: description,
		Phases:      processed,
		TotalTopics: total,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := curriculum.Validate(); err != nil {
		return nil, err
	}

	return curriculum, nil
}

// Validate checks if the Curriculum has valid data.
// Returns an error if any field fails validation.
func (c *Curriculum) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCurriculumID
	}

	if c.Name == "" {
		return ErrEmptyCurriculumName
	}

	if c.Slug == "" {
		return ErrEmptySlug
	}

	if len(c.Phases) == 0 {
		return ErrNoPhases
	}

	return nil
}

// AssignTopicIDs walks phases in order and topics in order within each
// phase, assigning ids as a strictly increasing sequence starting at 1,
// and returns the processed phases together with the total topic count.
//
// This runs on every create and every update, so ids are only stable
// across edits when phase and topic order is preserved exactly. Progress
// records keyed by old ids are silently invalidated by reordering edits;
// that behavior is inherited from the source system and covered by tests.
func AssignTopicIDs(phases []Phase) ([]Phase, int) {
	processed := make([]Phase, len(phases))
	nextID := 1

	for i, phase := range phases {
		topics := make([]Topic, len(phase.Topics))
		for j, topic := range phase.Topics {
			topic.ID = nextID
			nextID++
			topics[j] = topic
		}
		processed[i] = Phase{Name: phase.Name, Topics: topics}
	}

	return processed, nextID - 1
}

// Slugify derives the URL-safe identifier for a curriculum name: lowercase,
// every run of characters outside [a-z0-9] collapsed to a single hyphen,
// leading and trailing hyphens stripped. "C++ 20" becomes "c-20".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := false

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
