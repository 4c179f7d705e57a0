package domain

import "time"

// Path difficulty levels.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Step is a single unit of a learning path. Order drives display and
// traversal but is not required to be contiguous.
type Step struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Resources         []string `json:"resources,omitempty"`
	EstimatedDuration string   `json:"estimated_duration,omitempty"`
	Order             int      `json:"order"`
}

// Path is an authored sequence of learning steps. Step IDs are unique
// within a path; progress tracking never mutates the path itself.
type Path struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Steps       []Step    `json:"steps"`
	AuthorID    string    `json:"author_id"`
	IsPublic    bool      `json:"is_public"`
	CloneCount  int       `json:"clone_count"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryCount is a public-path category with how many paths it holds.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HasStep reports whether the path contains a step with the given ID.
func (p *Path) HasStep(stepID string) bool {
	if p == nil {
		return false
	}
	for _, step := range p.Steps {
		if step.ID == stepID {
			return true
		}
	}
	return false
}

// StepIDs returns the identifiers of every step in the path.
func (p *Path) StepIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		ids = append(ids, step.ID)
	}
	return ids
}
