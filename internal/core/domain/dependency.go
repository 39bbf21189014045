package domain

import (
	"io"
	"strings"
)

// CompileDependency is the parsed form of a compiler-emitted dependency listing.
type CompileDependency struct {
	ObjectFile string
	SourceFile string
	Headers    []string
}

// Valid reports whether both the object and the source entry are present.
func (d CompileDependency) Valid() bool {
	return d.ObjectFile != "" && d.SourceFile != ""
}

// ParseCompileDependency reads Make rule text and classifies every path by extension.
// Object and source are single valued, the last match wins. Headers keep their first
// occurrence order and are deduplicated. Paths matching no known extension are ignored.
func ParseCompileDependency(content, objectExt string, kinds SourceKinds) CompileDependency {
	var dep CompileDependency
	seen := make(map[string]struct{})

	for _, token := range tokenizeMakeRule(content) {
		switch {
		case objectExt != "" && strings.EqualFold(extOf(token), objectExt):
			dep.ObjectFile = token
		case kinds.IsSource(token):
			dep.SourceFile = token
		case kinds.IsHeader(token):
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			dep.Headers = append(dep.Headers, token)
		}
	}
	return dep
}

// WriteTo authors a dependency listing in the layout compilers emit:
//
//	obj: \
//	src \
//	header1 \
//	header2
//
// The last line carries no continuation and the text has no trailing newline.
func (d CompileDependency) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d CompileDependency) String() string {
	var b strings.Builder
	b.WriteString(escapeMakePath(d.ObjectFile))
	b.WriteString(": \\\n")
	b.WriteString(escapeMakePath(d.SourceFile))
	b.WriteString(" \\")
	for i, h := range d.Headers {
		b.WriteString("\n")
		b.WriteString(escapeMakePath(h))
		if i < len(d.Headers)-1 {
			b.WriteString(" \\")
		}
	}
	return b.String()
}

// tokenizeMakeRule splits Make rule text into paths, honouring line continuations,
// escaped spaces and the target separator.
func tokenizeMakeRule(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		tok := cur.String()
		cur.Reset()
		tok = strings.TrimSuffix(tok, ":")
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\\' && i+1 < len(content):
			next := content[i+1]
			switch next {
			case '\n':
				i++
				flush()
			case ' ', '#', '\t':
				cur.WriteByte(next)
				i++
			default:
				cur.WriteByte(c)
			}
		case c == '$' && i+1 < len(content) && content[i+1] == '$':
			cur.WriteByte('$')
			i++
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return tokens
}

var makePathEscaper = strings.NewReplacer(" ", `\ `, "\t", "\\\t", "#", `\#`, "$", "$$")

// escapeMakePath is the inverse of the escapes tokenizeMakeRule understands.
func escapeMakePath(p string) string {
	return makePathEscaper.Replace(p)
}

func extOf(path string) string {
	i := strings.LastIndexAny(path, `./\`)
	if i < 0 || path[i] != '.' {
		return ""
	}
	return path[i:]
}
