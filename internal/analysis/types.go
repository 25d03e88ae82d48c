package analysis

import "time"

// SectionKind identifies one of the five fixed report sections.
type SectionKind string

const (
	SectionCoreKnowledge    SectionKind = "core_knowledge"
	SectionActionItems      SectionKind = "action_items"
	SectionMentoring        SectionKind = "mentoring"
	SectionCodeStyle        SectionKind = "code_style"
	SectionReviewerResponse SectionKind = "reviewer_response"
)

// SectionOrder is the canonical rendering order. Every profile carries
// exactly these sections, in this order.
var SectionOrder = [...]SectionKind{
	SectionCoreKnowledge,
	SectionActionItems,
	SectionMentoring,
	SectionCodeStyle,
	SectionReviewerResponse,
}

const NumSections = len(SectionOrder)

var sectionTitles = map[SectionKind]string{
	SectionCoreKnowledge:    "Core Knowledge Insights",
	SectionActionItems:      "Immediate Action Items",
	SectionMentoring:        "Mentoring-level Technical Guidance",
	SectionCodeStyle:        "Valuable Code Style Insights",
	SectionReviewerResponse: "Reviewer Response Suggestions",
}

func (k SectionKind) Title() string { return sectionTitles[k] }

func (k SectionKind) Valid() bool {
	_, ok := sectionTitles[k]
	return ok
}

// Prompt is a rendered prompt for one (reviewer, section) pair. Discarded
// after the call it produces.
type Prompt struct {
	Reviewer  string
	Kind      SectionKind
	Text      string
	Truncated bool
}

// RawResponse is the unparsed LLM output for one (reviewer, section) pair.
type RawResponse struct {
	Reviewer string
	Kind     SectionKind
	Text     string
	Attempts int
}

// SectionInsight is the parsed result for one section of one reviewer.
type SectionInsight struct {
	Kind    SectionKind
	Bullets []string
	// Response holds the free-text reply block, only populated for
	// SectionReviewerResponse.
	Response string
	// LowConfidence marks fallback parsing of unstructured output.
	LowConfidence bool
	// Failed marks a placeholder produced after the call for this pair
	// was exhausted or rejected.
	Failed        bool
	FailureReason string
}

func placeholderInsight(kind SectionKind, reason string) SectionInsight {
	return SectionInsight{Kind: kind, Failed: true, FailureReason: reason}
}

// ReviewerProfile holds the five sections for one reviewer in canonical
// order. Built once, immutable afterwards.
type ReviewerProfile struct {
	Reviewer string
	Sections [NumSections]SectionInsight
}

// FailedSections counts placeholder sections in the profile.
func (p ReviewerProfile) FailedSections() int {
	n := 0
	for _, s := range p.Sections {
		if s.Failed {
			n++
		}
	}
	return n
}

// Report is the terminal artifact handed to the output formatter. Profiles
// appear in the order reviewers were first seen in the input comments.
type Report struct {
	PR          string
	GeneratedAt time.Time
	Profiles    []ReviewerProfile
	FailedPairs int
}
