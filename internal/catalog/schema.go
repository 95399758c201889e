package catalog

import (
	"fmt"
	"regexp"
)

const (
	BankKind               = "bank"
	SupportedSchemaVersion = 1
)

// Match modes understood by the grader.
const (
	MatchExact  = "exact"
	MatchFold   = "fold"
	MatchFuzzy  = "fuzzy"
	MatchChoice = "choice"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

// Bank is one YAML question bank. The engine never sees banks; it only
// receives the ordered question ID list a bank produces.
type Bank struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	BankID        string     `yaml:"bank_id"`
	Name          string     `yaml:"name"`
	Version       string     `yaml:"version"`
	DescriptionMD string     `yaml:"description_md"`
	Questions     []Question `yaml:"questions"`

	Path string `yaml:"-"`
}

type Question struct {
	QuestionID    string   `yaml:"question_id"`
	Prompt        string   `yaml:"prompt"`
	Answer        string   `yaml:"answer"`
	Choices       []string `yaml:"choices"`
	Match         string   `yaml:"match"`
	Category      string   `yaml:"category"`
	ExplanationMD string   `yaml:"explanation_md"`
}

// QuestionIDs returns the bank's candidate list in file order. This is
// the ordering the query layer preserves.
func (b Bank) QuestionIDs() []string {
	out := make([]string, 0, len(b.Questions))
	for _, q := range b.Questions {
		out = append(out, q.QuestionID)
	}
	return out
}

// Question returns the question with the given ID, if present.
func (b Bank) Question(questionID string) (Question, bool) {
	for _, q := range b.Questions {
		if q.QuestionID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

func (b Bank) Validate() error {
	if b.Kind != BankKind {
		return fmt.Errorf("kind must be %q", BankKind)
	}
	if b.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if b.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported bank schema_version %d (max supported %d)", b.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(b.BankID) {
		return fmt.Errorf("invalid bank_id %q", b.BankID)
	}
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	seen := map[string]struct{}{}
	for i, q := range b.Questions {
		if err := q.validate(); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
		if _, ok := seen[q.QuestionID]; ok {
			return fmt.Errorf("duplicate question_id %q", q.QuestionID)
		}
		seen[q.QuestionID] = struct{}{}
	}
	return nil
}

func (q Question) validate() error {
	if !idPattern.MatchString(q.QuestionID) {
		return fmt.Errorf("invalid question_id %q", q.QuestionID)
	}
	if q.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	if q.Answer == "" {
		return fmt.Errorf("answer is required")
	}
	switch q.Match {
	case "", MatchExact, MatchFold, MatchFuzzy:
	case MatchChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("match %q needs at least 2 choices", MatchChoice)
		}
	default:
		return fmt.Errorf("invalid match mode %q", q.Match)
	}
	return nil
}
