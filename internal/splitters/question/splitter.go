// Package question extracts question records from cleaned survey XML,
// decomposing composite (matrix/grid) questions into one record per
// sub-item based on the identifier naming convention.
package question

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

// questionTags are the survey element names treated as question nodes.
var questionTags = map[string]bool{
	"radio":    true,
	"checkbox": true,
	"select":   true,
	"number":   true,
	"float":    true,
	"text":     true,
	"textarea": true,
}

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// Splitter extracts Question records from cleaned survey documents.
type Splitter struct{}

// New creates a Splitter.
func New() *Splitter {
	return &Splitter{}
}

// xmlNode is a generic view of a survey XML element.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Inner    string     `xml:",innerxml"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) child(tag string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == tag {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *xmlNode) childrenOf(tag string) []xmlNode {
	var out []xmlNode
	for _, c := range n.Children {
		if c.XMLName.Local == tag {
			out = append(out, c)
		}
	}
	return out
}

// section renders the node back to markup for use as the model-output
// side of a training pair.
func (n *xmlNode) section() string {
	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(n.XMLName.Local)
	for _, a := range n.Attrs {
		b.WriteString(" " + a.Name.Local + `="` + a.Value + `"`)
	}
	b.WriteByte('>')
	b.WriteString(n.Inner)
	b.WriteString("</" + n.XMLName.Local + ">")
	return b.String()
}

func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func texts(nodes []xmlNode) []string {
	var out []string
	for _, n := range nodes {
		if t := collapseText(n.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Split walks the document tree in source order and emits one Question
// per standalone question node and one per sub-item of each composite
// node. Composite nodes whose children only partially follow the naming
// convention are skipped and recorded, never partially split.
func (s *Splitter) Split(_ context.Context, doc *domain.SurveyDocument) (*driven.SplitResult, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	var root xmlNode
	if err := xml.Unmarshal(doc.Raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	res := &driven.SplitResult{}
	s.walk(&root, doc.SurveyID, res)

	logger.Debug("split document %s: %d question(s), %d mismatch(es)",
		doc.SurveyID, len(res.Questions), len(res.Mismatches))

	return res, nil
}

func (s *Splitter) walk(n *xmlNode, surveyID string, res *driven.SplitResult) {
	for i := range n.Children {
		c := &n.Children[i]
		if questionTags[c.XMLName.Local] {
			s.emit(c, surveyID, res)
			continue
		}
		s.walk(c, surveyID, res)
	}
}

// emit applies the split decision procedure to one question node.
func (s *Splitter) emit(n *xmlNode, surveyID string, res *driven.SplitResult) {
	label := n.attr("label")
	title := ""
	if t := n.child("title"); t != nil {
		title = collapseText(t.Text)
	}

	rows := n.childrenOf("row")
	cols := n.childrenOf("col")
	choices := n.childrenOf("choice")

	if len(rows) == 0 {
		res.Questions = append(res.Questions, domain.Question{
			ID:       label,
			SurveyID: surveyID,
			Label:    title,
			Options:  firstNonEmpty(texts(choices), texts(cols)),
			Section:  n.section(),
		})
		return
	}

	matched := 0
	idents := make([]Ident, len(rows))
	for i, row := range rows {
		id := ParseIdent(row.attr("label"))
		if id.Matched && id.Parent == label {
			idents[i] = id
			matched++
		}
	}

	switch matched {
	case len(rows):
		// Composite question: one record per sub-item, source order.
		section := n.section()
		for i, row := range rows {
			res.Questions = append(res.Questions, domain.Question{
				ID:       row.attr("label"),
				SurveyID: surveyID,
				Parent:   label,
				Index:    idents[i].Index,
				Label:    joinPrompt(title, collapseText(row.Text)),
				Options:  firstNonEmpty(texts(cols), texts(choices)),
				Section:  section,
			})
		}

	case 0:
		// Rows are plain response options, not sub-items.
		res.Questions = append(res.Questions, domain.Question{
			ID:       label,
			SurveyID: surveyID,
			Label:    title,
			Options:  texts(rows),
			Section:  n.section(),
		})

	default:
		// Inconsistent convention: do not guess a split.
		logger.Warn("question %s: %d of %d rows follow the sub-item convention, skipping",
			label, matched, len(rows))
		res.Mismatches = append(res.Mismatches, domain.Skip{
			Item:   label,
			Reason: domain.SkipConvention,
			Detail: fmt.Sprintf("%v: %d of %d rows matched",
				domain.ErrConventionMismatch, matched, len(rows)),
		})
	}
}

func joinPrompt(title, row string) string {
	switch {
	case title == "":
		return row
	case row == "":
		return title
	default:
		return title + " - " + row
	}
}

func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}
