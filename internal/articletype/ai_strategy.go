package articletype

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/parsererror"
	"fjacquet/techpack-csv/internal/textutils"
)

// promptTextLimit caps the document excerpt sent to the model, in runes.
const promptTextLimit = 1500

// AIStrategy asks a generative model to pick one of the known article types.
type AIStrategy struct {
	client  AIClient
	types   []string
	timeout time.Duration
	logger  logging.Logger
}

// NewAIStrategy creates an AIStrategy restricted to types. A zero timeout
// leaves the caller's context deadline in charge.
func NewAIStrategy(client AIClient, types []string, timeout time.Duration, logger logging.Logger) *AIStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &AIStrategy{client: client, types: types, timeout: timeout, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Classify implements Strategy. Answers outside the known types are a no-match.
func (s *AIStrategy) Classify(ctx context.Context, in Input) (string, bool, error) {
	if s.client == nil {
		s.logger.WithField(logging.FieldStrategy, s.Name()).Debug("AI client not available, skipping AI classification")
		return "", false, nil
	}
	if in.IsEmpty() || len(s.types) == 0 {
		return "", false, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.client.Complete(ctx, s.prompt(in))
	if err != nil {
		return "", false, &parsererror.ClassificationError{Input: label(in), Strategy: s.Name(), Err: err}
	}

	name := parseAnswer(answer)
	for _, t := range s.types {
		if strings.EqualFold(t, name) {
			return t, true, nil
		}
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: "ai_answer", Value: name},
	).Debug("AI answer is not a known article type")
	return "", false, nil
}

func (s *AIStrategy) prompt(in Input) string {
	excerpt := in.Text
	if r := []rune(excerpt); len(r) > promptTextLimit {
		excerpt = string(r[:promptTextLimit])
	}
	return fmt.Sprintf(`Classify the garment described by this apparel tech pack.
Product name: %s
Description: %s
File name: %s
Document excerpt:
%s

Choose exactly one of the following article types:
%s

Respond in this format:
ArticleType: [Selected Article Type]`,
		in.ProductName, in.Description, in.Filename, excerpt, strings.Join(s.types, ", "))
}

// parseAnswer reads the "ArticleType:" line, or the first non-blank line.
func parseAnswer(answer string) string {
	lines := textutils.NonBlankLines(answer)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if idx := strings.Index(strings.ToLower(line), "articletype:"); idx >= 0 {
			return strings.Trim(strings.TrimSpace(line[idx+len("articletype:"):]), "[]*.\"'")
		}
	}
	if len(lines) > 0 {
		return strings.Trim(strings.TrimSpace(lines[0]), "[]*.\"'")
	}
	return ""
}

func label(in Input) string {
	if in.ProductName != "" {
		return in.ProductName
	}
	return in.Filename
}
