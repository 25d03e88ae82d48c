package analysis

import (
	"os"

	"sigs.k8s.io/yaml"

	"github.com/reviewlens/reviewlens/internal/config"
)

// Each template receives {{.PR}}, {{.Reviewer}} and {{.Comments}}. All five
// ask for plain "- " bullets so the parser has a single grammar to target;
// the reviewer-response template additionally asks for a reply block.

const coreKnowledgeTemplate = `You are a senior engineering mentor extracting the expertise a code reviewer shared during review.

Pull request: {{.PR}}
Reviewer: {{.Reviewer}}

Reviewer comments (oldest first, with timestamps and file paths):
{{.Comments}}

Task: identify the core technical knowledge this reviewer demonstrated — principles, trade-offs, and hard-won experience behind their comments.

Rules:
- Output only a bullet list, one insight per line, each starting with "- ".
- State the underlying principle, not a paraphrase of the comment.
- At most 8 bullets, each under 30 words.
- No preamble, no closing remarks.`

const actionItemsTemplate = `You are a senior engineering mentor turning code review feedback into concrete follow-ups.

Pull request: {{.PR}}
Reviewer: {{.Reviewer}}

Reviewer comments (oldest first, with timestamps and file paths):
{{.Comments}}

Task: list the specific actions the PR author should take right now to address this reviewer's feedback.

Rules:
- Output only a bullet list, one action per line, each starting with "- ".
- Every action must be directly traceable to a comment above.
- Start each action with a verb. At most 8 bullets, each under 25 words.
- No preamble, no closing remarks.`

const mentoringTemplate = `You are a senior engineering mentor distilling mentoring-level guidance from a code review.

Pull request: {{.PR}}
Reviewer: {{.Reviewer}}

Reviewer comments (oldest first, with timestamps and file paths):
{{.Comments}}

Task: extract the deeper technical guidance a mentor would want the PR author to internalize — design thinking, failure modes the reviewer has clearly seen before, and the reasoning behind their recommendations.

Rules:
- Output only a bullet list, one piece of guidance per line, each starting with "- ".
- Explain the "why" the reviewer implied, not just the "what".
- At most 6 bullets, each under 35 words.
- No preamble, no closing remarks.`

const codeStyleTemplate = `You are a senior engineering mentor collecting code style principles worth adopting permanently.

Pull request: {{.PR}}
Reviewer: {{.Reviewer}}

Reviewer comments (oldest first, with timestamps and file paths):
{{.Comments}}

Task: extract the style conventions, naming philosophy, and structural habits this reviewer's comments promote — the ones worth folding into the author's personal style.

Rules:
- Output only a bullet list, one principle per line, each starting with "- ".
- Phrase each as a general rule, not a one-off fix.
- At most 6 bullets, each under 25 words.
- No preamble, no closing remarks.`

const reviewerResponseTemplate = `You are helping a PR author respond graciously and precisely to a code reviewer.

Pull request: {{.PR}}
Reviewer: {{.Reviewer}}

Reviewer comments (oldest first, with timestamps and file paths):
{{.Comments}}

Task:
1. List the points the author should acknowledge, one per line, each starting with "- ".
2. Then write a short reply (under 60 words) the author can post, introduced by a line that reads exactly "Suggested reply:".

Rules:
- Bullets first, then the "Suggested reply:" line, then the reply text.
- The reply must acknowledge the reviewer's strongest insight specifically.
- No other sections, no preamble.`

type templateSet struct {
	byKind map[SectionKind]string
}

func defaultTemplates() templateSet {
	return templateSet{byKind: map[SectionKind]string{
		SectionCoreKnowledge:    coreKnowledgeTemplate,
		SectionActionItems:      actionItemsTemplate,
		SectionMentoring:        mentoringTemplate,
		SectionCodeStyle:        codeStyleTemplate,
		SectionReviewerResponse: reviewerResponseTemplate,
	}}
}

func (t templateSet) lookup(kind SectionKind) (string, error) {
	tmpl, ok := t.byKind[kind]
	if !ok || tmpl == "" {
		return "", config.Errorf("no prompt template registered for section %q", kind)
	}
	return tmpl, nil
}

// LoadTemplateOverrides reads a YAML file mapping section kinds to
// replacement template text. Unknown section names are a configuration
// error so typos fail the run instead of silently keeping the default.
func LoadTemplateOverrides(path string) (map[SectionKind]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Errorf("read template overrides %s: %v", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, config.Errorf("parse template overrides %s: %v", path, err)
	}

	overrides := make(map[SectionKind]string, len(raw))
	for name, text := range raw {
		kind := SectionKind(name)
		if !kind.Valid() {
			return nil, config.Errorf("template overrides %s: unknown section %q", path, name)
		}
		overrides[kind] = text
	}
	return overrides, nil
}

func (t templateSet) withOverrides(overrides map[SectionKind]string) templateSet {
	if len(overrides) == 0 {
		return t
	}
	merged := make(map[SectionKind]string, len(t.byKind))
	for kind, tmpl := range t.byKind {
		merged[kind] = tmpl
	}
	for kind, tmpl := range overrides {
		merged[kind] = tmpl
	}
	return templateSet{byKind: merged}
}
