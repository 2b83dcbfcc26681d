// Package namespace normalises XML namespace usage in survey exports.
//
// Exported survey XML routinely declares the same namespace URI under
// several prefixes (ns0:, ns1:, ...) and re-declares namespaces on inner
// elements. The cleaner rewrites a document so every referenced URI has
// exactly one canonical prefix, declared once on the root element, and
// drops declarations nothing references. Cleaning is idempotent.
package namespace

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

// DefaultStripURI is the namespace URI prefix removed from survey
// exports by default: the platform's builder/ss/html namespaces carry
// no information the training data needs.
const DefaultStripURI = "http://decipherinc.com/"

// Ensure Cleaner implements the interface.
var _ driven.Cleaner = (*Cleaner)(nil)

// Cleaner rewrites survey documents with canonical namespace prefixes.
type Cleaner struct {
	stripPrefixes []string
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithStripURIs sets URI prefixes whose namespaces are removed entirely:
// their declarations are dropped and their names emitted unqualified.
func WithStripURIs(prefixes ...string) Option {
	return func(c *Cleaner) { c.stripPrefixes = prefixes }
}

// New creates a Cleaner. Without options no namespace is stripped.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean produces a new document with one canonical prefix per referenced
// namespace URI. The canonical prefix for a URI is the prefix of its
// first declaration in document order; conflicting re-declarations at
// inner scopes resolve innermost-scope-wins, matching XML scoping.
// Malformed XML returns an error wrapping domain.ErrParse.
func (c *Cleaner) Clean(_ context.Context, doc *domain.SurveyDocument) (*domain.SurveyDocument, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	scan, err := scanDocument(doc.Raw)
	if err != nil {
		return nil, err
	}

	canon := c.assignPrefixes(scan)

	out, err := c.serialize(scan, canon)
	if err != nil {
		return nil, err
	}

	namespaces := make(map[string]string, len(canon))
	for uri, prefix := range canon {
		if c.stripped(uri) {
			continue
		}
		namespaces[prefix] = uri
	}

	logger.Debug("cleaned document %s: %d namespace(s) canonicalised", doc.SurveyID, len(namespaces))

	return &domain.SurveyDocument{
		SurveyID:   doc.SurveyID,
		Raw:        out,
		Namespaces: namespaces,
	}, nil
}

func (c *Cleaner) stripped(uri string) bool {
	for _, p := range c.stripPrefixes {
		if strings.HasPrefix(uri, p) {
			return true
		}
	}
	return false
}

// declaration is one xmlns declaration in document order.
type declaration struct {
	prefix string // "" for a default xmlns declaration
	uri    string
}

// scanResult holds everything pass one learns about a document.
type scanResult struct {
	tokens    []xml.Token
	decls     []declaration
	usedURIs  []string // first-use order
	bareElems bool     // an element with no namespace exists
}

// scanDocument tokenises the document, recording namespace declarations
// in document order and the set of URIs actually referenced by element
// or attribute names.
func scanDocument(raw []byte) (*scanResult, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	res := &scanResult{}
	seen := make(map[string]bool)
	rootSeen := false

	markUsed := func(uri string) {
		if uri == "" || uri == "xmlns" || seen[uri] {
			return
		}
		seen[uri] = true
		res.usedURIs = append(res.usedURIs, uri)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}

		if start, ok := tok.(xml.StartElement); ok {
			rootSeen = true
			if start.Name.Space == "" {
				res.bareElems = true
			}
			markUsed(start.Name.Space)
			for _, attr := range start.Attr {
				switch {
				case attr.Name.Space == "xmlns":
					res.decls = append(res.decls, declaration{prefix: attr.Name.Local, uri: attr.Value})
				case attr.Name.Space == "" && attr.Name.Local == "xmlns":
					res.decls = append(res.decls, declaration{prefix: "", uri: attr.Value})
				default:
					markUsed(attr.Name.Space)
				}
			}
		}

		res.tokens = append(res.tokens, xml.CopyToken(tok))
	}

	if !rootSeen {
		return nil, fmt.Errorf("%w: no root element", domain.ErrParse)
	}

	return res, nil
}

// assignPrefixes picks the canonical prefix per used URI: the prefix of
// the URI's first declaration wins; when two URIs claim the same prefix
// the first-seen URI keeps it and later ones get a generated prefix.
// A default declaration is only kept when no element in the document is
// namespace-free: all declarations move to the root, so a root default
// would capture every unprefixed name.
func (c *Cleaner) assignPrefixes(scan *scanResult) map[string]string {
	firstDecl := make(map[string]string, len(scan.decls))
	for _, d := range scan.decls {
		if _, ok := firstDecl[d.uri]; !ok {
			firstDecl[d.uri] = d.prefix
		}
	}

	// Names in stripped namespaces are emitted unqualified, so they
	// count as namespace-free too.
	bare := scan.bareElems
	if !bare {
		for _, uri := range scan.usedURIs {
			if c.stripped(uri) {
				bare = true
				break
			}
		}
	}

	canon := make(map[string]string, len(scan.usedURIs))
	taken := make(map[string]bool)
	defaultTaken := false
	gen := 0

	nextGenerated := func() string {
		for {
			gen++
			p := fmt.Sprintf("ns%d", gen)
			if !taken[p] {
				return p
			}
		}
	}

	for _, uri := range scan.usedURIs {
		if c.stripped(uri) {
			canon[uri] = ""
			continue
		}

		prefix, declared := firstDecl[uri]
		switch {
		case !declared:
			prefix = nextGenerated()
		case prefix == "" && (bare || defaultTaken):
			prefix = nextGenerated()
		case prefix != "" && taken[prefix]:
			prefix = nextGenerated()
		}
		canon[uri] = prefix
		if prefix == "" {
			defaultTaken = true
		} else {
			taken[prefix] = true
		}
	}

	return canon
}

// serialize re-emits the token stream with canonical prefixes. All
// declarations for used, non-stripped URIs go on the root element;
// everything else is preserved in input order.
func (c *Cleaner) serialize(scan *scanResult, canon map[string]string) ([]byte, error) {
	var b bytes.Buffer
	wroteRoot := false

	for _, tok := range scan.tokens {
		switch t := tok.(type) {
		case xml.StartElement:
			b.WriteByte('<')
			b.WriteString(c.qname(t.Name, canon))
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
					continue
				}
				b.WriteByte(' ')
				b.WriteString(c.qname(attr.Name, canon))
				b.WriteString(`="`)
				b.WriteString(escapeAttr(attr.Value))
				b.WriteByte('"')
			}
			if !wroteRoot {
				wroteRoot = true
				for _, uri := range scan.usedURIs {
					if c.stripped(uri) {
						continue
					}
					prefix := canon[uri]
					if prefix == "" {
						b.WriteString(` xmlns="`)
					} else {
						b.WriteString(` xmlns:` + prefix + `="`)
					}
					b.WriteString(escapeAttr(uri))
					b.WriteByte('"')
				}
			}
			b.WriteByte('>')

		case xml.EndElement:
			b.WriteString("</")
			b.WriteString(c.qname(t.Name, canon))
			b.WriteByte('>')

		case xml.CharData:
			b.WriteString(escapeText(string(t)))

		case xml.Comment:
			b.WriteString("<!--")
			b.Write(t)
			b.WriteString("-->")

		case xml.ProcInst:
			b.WriteString("<?")
			b.WriteString(t.Target)
			b.WriteByte(' ')
			b.Write(t.Inst)
			b.WriteString("?>")

		case xml.Directive:
			b.WriteString("<!")
			b.Write(t)
			b.WriteByte('>')

		default:
			return nil, fmt.Errorf("%w: unexpected token %T", domain.ErrParse, tok)
		}
	}

	return b.Bytes(), nil
}

// qname renders a name with its canonical prefix. Names without a
// namespace, and names in stripped namespaces, are emitted unqualified.
func (c *Cleaner) qname(n xml.Name, canon map[string]string) string {
	if n.Space == "" {
		return n.Local
	}
	prefix, ok := canon[n.Space]
	if !ok || prefix == "" {
		return n.Local
	}
	return prefix + ":" + n.Local
}

// Attribute values additionally escape whitespace control characters as
// character references so attribute-value normalization in downstream
// parsers cannot turn them into spaces.
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\t", "&#x9;", "\r", "&#xD;")
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// HasDeclarationFor reports whether the raw markup still declares a
// namespace under the given URI prefix. Used by verification.
func HasDeclarationFor(raw []byte, uriPrefix string) bool {
	scan, err := scanDocument(raw)
	if err != nil {
		return false
	}
	for _, d := range scan.decls {
		if strings.HasPrefix(d.uri, uriPrefix) {
			return true
		}
	}
	return false
}

// IsParseError reports whether the error came from malformed XML.
func IsParseError(err error) bool {
	return errors.Is(err, domain.ErrParse)
}
