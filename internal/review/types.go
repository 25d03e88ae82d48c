package review

// Comment is a single pull-request review comment as handed over by the
// fetch layer. Immutable once fetched.
type Comment struct {
	Author    string
	Content   string
	Timestamp string // ISO-8601
	FilePath  string // empty for PR-level comments
}

// Group holds one reviewer's comments in their original relative order.
type Group struct {
	Reviewer string
	Comments []Comment
}

// Prepared is the output of Prepare: reviewer groups plus the order in
// which each reviewer was first seen in the input sequence.
type Prepared struct {
	Groups  map[string]Group
	Order   []string
	Dropped int
}

// GroupsInOrder returns the reviewer groups in first-seen order.
func (p Prepared) GroupsInOrder() []Group {
	groups := make([]Group, 0, len(p.Order))
	for _, reviewer := range p.Order {
		groups = append(groups, p.Groups[reviewer])
	}
	return groups
}
