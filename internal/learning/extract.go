package learning

import (
	"fmt"
	"strings"
	"time"

	"github.com/recall-dev/recall/internal/failures"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/transcript"
)

// Extractor derives learning proposals from a summarized session using
// local heuristics. It replaces the old out-of-process extraction: the
// logic is equally trusted, so it runs in-process, but still under a
// time budget with panic containment; extraction must never take the
// indexing path down.
type Extractor struct {
	classifier *failures.Classifier
	timeout    time.Duration
}

// NewExtractor builds an extractor over the learning-category
// classifier with the given time budget.
func NewExtractor(classifier *failures.Classifier, timeout time.Duration) *Extractor {
	return &Extractor{classifier: classifier, timeout: timeout}
}

// Run extracts proposals from res under the time budget. A panic or a
// blown budget yields nil and the caller indexes without proposals.
func (e *Extractor) Run(res *transcript.Result) []index.Learning {
	ch := make(chan []index.Learning, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- nil
			}
		}()
		ch <- e.Extract(res)
	}()

	select {
	case proposals := <-ch:
		return proposals
	case <-time.After(e.timeout):
		return nil
	}
}

// Extract runs both heuristics directly.
func (e *Extractor) Extract(res *transcript.Result) []index.Learning {
	var out []index.Learning
	out = append(out, e.failureResolutions(res)...)
	out = append(out, e.repeatedPatterns(res)...)
	return out
}

// failureResolutions pairs each failure with a later command sharing
// the same first shell token that did not itself fail, and proposes
// the later command as the fix.
func (e *Extractor) failureResolutions(res *transcript.Result) []index.Learning {
	if len(res.Failures) == 0 || len(res.Commands) == 0 {
		return nil
	}

	failedPrefixes := map[string]bool{}
	for _, f := range res.Failures {
		failedPrefixes[head(f.Command, 50)] = true
	}

	var out []index.Learning
	for _, failure := range res.Failures {
		failedToken := firstToken(failure.Command)
		if failedToken == "" {
			continue
		}

		for _, cmd := range res.Commands {
			if firstToken(cmd.Command) != failedToken {
				continue
			}
			if cmd.Index <= failure.Index {
				continue
			}
			if failedPrefixes[head(cmd.Command, 50)] {
				continue
			}

			out = append(out, index.Learning{
				Category:       e.classifier.Classify(failure.Error),
				Title:          fmt.Sprintf("Fix for %s failure", failedToken),
				Description:    fmt.Sprintf("Command `%s` failed with: %s", head(failure.Command, 80), head(failure.Error, 100)),
				Solution:       fmt.Sprintf("Use instead: `%s`", head(cmd.Command, 100)),
				Source:         index.SourceFailureResolution,
				SessionID:      res.SessionID,
				SessionSummary: head(res.Summary, 80),
				SuggestedScope: "project",
			})
			break
		}
	}
	return out
}

// repeatedPatterns proposes a "recurring error" learning for any
// category hit three or more times within one session.
func (e *Extractor) repeatedPatterns(res *transcript.Result) []index.Learning {
	if len(res.Failures) < 2 {
		return nil
	}

	counts := map[string]int{}
	examples := map[string]index.Failure{}
	var order []string
	for _, f := range res.Failures {
		cat := e.classifier.Classify(f.Error)
		if counts[cat] == 0 {
			examples[cat] = f
			order = append(order, cat)
		}
		counts[cat]++
	}

	var out []index.Learning
	for _, cat := range order {
		n := counts[cat]
		if n < 3 {
			continue
		}
		ex := examples[cat]
		out = append(out, index.Learning{
			Category:       cat,
			Title:          fmt.Sprintf("Recurring %s errors (%dx in session)", cat, n),
			Description:    fmt.Sprintf("Hit %d %s errors. Example: `%s`", n, cat, head(ex.Command, 80)),
			Solution:       fmt.Sprintf("Error pattern: %s", head(ex.Error, 100)),
			Source:         index.SourceRepeatedPattern,
			SessionID:      res.SessionID,
			SessionSummary: head(res.Summary, 80),
			SuggestedScope: "project",
		})
	}
	return out
}

func firstToken(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
