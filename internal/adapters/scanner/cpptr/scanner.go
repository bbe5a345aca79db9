package cpptr

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

var (
	// Definitions start in column 0: "void MainWindow::setupUi()" or "MainWindow::MainWindow(QWidget *p)".
	methodRE = regexp.MustCompile(`^(?:[\w:<>,*&]+\s+[*&]*)*([A-Za-z_]\w*)::~?[A-Za-z_]\w*\s*\(`)
	classRE  = regexp.MustCompile(`^class\s+(?:\w+_EXPORT\s+)?([A-Za-z_]\w*)\b[^;]*$`)
	// callRE finds the head of a translation call up to its opening parenthesis.
	callRE = regexp.MustCompile(`\b(?:(?:QCoreApplication|QApplication|qApp)\s*(?:::|->)\s*(translate)|(?:([A-Za-z_]\w*)::)?(tr|QT_TR_NOOP|QT_TR_NOOP_UTF8|QT_TRANSLATE_NOOP|QT_TRANSLATE_NOOP_UTF8|QT_TRANSLATE_NOOP3))\s*\(`)
)

// Scanner finds tr(), translate() and QT_*_NOOP calls in C++ sources. It is
// a heuristic in the spirit of lupdate: calls may span lines and adjacent
// literals are concatenated, but arguments other than string literals are
// not evaluated.
type Scanner struct{}

func New() *Scanner { return &Scanner{} }

func (s *Scanner) Format() string { return "cpp" }

func (s *Scanner) Extensions() []string {
	return []string{".c", ".cc", ".cpp", ".cxx", ".c++", ".h", ".hh", ".hpp", ".hxx"}
}

func (s *Scanner) Scan(filename string, data []byte) ([]ports.ScannedString, error) {
	text, lineStarts, err := clean(data)
	if err != nil {
		return nil, err
	}
	contexts := lineContexts(text, lineStarts)

	var out []ports.ScannedString
	for _, m := range callRE.FindAllStringSubmatchIndex(text, -1) {
		args, ok := literalArgs(text, m[1])
		if !ok {
			continue
		}
		line := lineOf(lineStarts, m[0])
		hit := ports.ScannedString{Location: domain.Location{Filename: filename, Line: strconv.Itoa(line + 1)}}
		switch {
		case m[2] >= 0, strings.HasPrefix(text[m[6]:m[7]], "QT_TRANSLATE_NOOP"):
			// ("context", "source"[, "comment"])
			if len(args) < 2 || !args[0].ok || !args[1].ok {
				continue
			}
			hit.Context, hit.Source = args[0].text, args[1].text
			if len(args) > 2 && args[2].ok {
				hit.Comment = args[2].text
			}
		default:
			// ("source"[, "comment"]), the context comes from the qualifier or the enclosing class
			if len(args) < 1 || !args[0].ok {
				continue
			}
			hit.Context = contexts[line]
			if m[4] >= 0 {
				hit.Context = text[m[4]:m[5]]
			}
			hit.Source = args[0].text
			if len(args) > 1 && args[1].ok {
				hit.Comment = args[1].text
			}
		}
		if hit.Context == "" || hit.Source == "" {
			continue
		}
		out = append(out, hit)
	}
	return out, nil
}

// clean blanks out comments, keeping string literals and line breaks intact,
// and returns the byte offset at which each line starts.
func clean(data []byte) (string, []int, error) {
	var b strings.Builder
	b.Grow(len(data))
	starts := []int{0}
	inBlock := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var line string
		line, inBlock = stripComments(sc.Text(), inBlock)
		b.WriteString(line)
		b.WriteByte('\n')
		starts = append(starts, b.Len())
	}
	return b.String(), starts, sc.Err()
}

// stripComments replaces // and /* */ comments outside string literals with
// spaces. inBlock reports a block comment left open by a previous line.
func stripComments(line string, inBlock bool) (string, bool) {
	b := []byte(line)
	inStr := byte(0)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case inBlock:
			if c == '*' && i+1 < len(b) && b[i+1] == '/' {
				b[i], b[i+1] = ' ', ' '
				i++
				inBlock = false
			} else {
				b[i] = ' '
			}
		case inStr != 0:
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
		case c == '"' || c == '\'':
			inStr = c
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			return string(b[:i]), false
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			b[i], b[i+1] = ' ', ' '
			i++
			inBlock = true
		}
	}
	return string(b), inBlock
}

// lineContexts tracks the class a line belongs to, from class headers and
// out-of-line member definitions.
func lineContexts(text string, starts []int) []string {
	out := make([]string, len(starts))
	current := ""
	for i := 0; i+1 < len(starts); i++ {
		line := text[starts[i] : starts[i+1]-1]
		if m := classRE.FindStringSubmatch(line); m != nil {
			current = m[1]
		} else if m := methodRE.FindStringSubmatch(line); m != nil && !strings.HasSuffix(strings.TrimSpace(line), ";") {
			current = m[1]
		}
		out[i] = current
	}
	return out
}

func lineOf(starts []int, off int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

type arg struct {
	text string
	ok   bool // the argument is made only of string literals
}

// literalArgs reads call arguments starting just after the opening
// parenthesis, up to the closing one. It fails when the call never closes.
func literalArgs(text string, i int) ([]arg, bool) {
	var args []arg
	for {
		i = skipSpace(text, i)
		if i >= len(text) {
			return nil, false
		}
		if text[i] == ')' && len(args) == 0 {
			return nil, true
		}
		var a arg
		var sb strings.Builder
		for i < len(text) && text[i] == '"' {
			lit, next, ok := readLiteral(text, i)
			if !ok {
				return nil, false
			}
			sb.WriteString(unescape(lit))
			a.ok = true
			i = skipSpace(text, next)
		}
		if i >= len(text) {
			return nil, false
		}
		if text[i] != ',' && text[i] != ')' {
			a.ok = false
			var ok bool
			if i, ok = skipExpr(text, i); !ok {
				return nil, false
			}
		}
		a.text = sb.String()
		args = append(args, a)
		if text[i] == ')' {
			return args, true
		}
		i++ // ','
	}
}

func skipSpace(text string, i int) int {
	for i < len(text) && strings.IndexByte(" \t\r\n\f\v", text[i]) >= 0 {
		i++
	}
	return i
}

// readLiteral returns the raw body of the literal opening at text[i].
func readLiteral(text string, i int) (string, int, bool) {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '\n':
			return "", 0, false
		case '"':
			return text[i+1 : j], j + 1, true
		}
	}
	return "", 0, false
}

// skipExpr advances to the ',' or ')' that ends the current argument.
func skipExpr(text string, i int) (int, bool) {
	depth := 0
	for ; i < len(text); i++ {
		switch c := text[i]; c {
		case '(', '[', '{':
			depth++
		case ']', '}':
			depth--
		case ')':
			if depth == 0 {
				return i, true
			}
			depth--
		case ',':
			if depth == 0 {
				return i, true
			}
		case '"', '\'':
			for i++; i < len(text) && text[i] != c; i++ {
				if text[i] == '\\' {
					i++
				}
			}
		}
	}
	return 0, false
}

// unescape decodes C escape sequences. Octal and hex escapes yield raw bytes,
// so UTF-8 spelled out byte by byte comes back whole.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		if s[0] != '\\' || len(s) == 1 {
			out = append(out, s[0])
			s = s[1:]
			continue
		}
		switch s[1] {
		case '\'', '"', '?', '\\':
			out = append(out, s[1])
			s = s[2:]
			continue
		}
		v, multibyte, tail, err := strconv.UnquoteChar(s, '"')
		switch {
		case err != nil:
			// unknown escape: the compiler keeps the character
			out = append(out, s[1])
			s = s[2:]
			continue
		case multibyte:
			out = utf8.AppendRune(out, v)
		default:
			out = append(out, byte(v))
		}
		s = tail
	}
	return string(out)
}
