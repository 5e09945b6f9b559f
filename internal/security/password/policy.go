package password

import (
	"bufio"
	_ "embed"
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const (
	MinLen = 8
	// attributes at least this similar to the password reject it
	maxSimilarity = 0.7
)

var (
	ErrTooShort    = errors.New("This password is too short. It must contain at least 8 characters.")
	ErrAllNumeric  = errors.New("This password is entirely numeric.")
	ErrTooCommon   = errors.New("This password is too common.")
	errTooSimilar  = "The password is too similar to the "
	wordSplitRe    = regexp.MustCompile(`\W+`)
	commonPassword = loadCommon()
)

//go:embed common.txt
var commonList string

func loadCommon() map[string]struct{} {
	set := map[string]struct{}{}
	sc := bufio.NewScanner(strings.NewReader(commonList))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" && !strings.HasPrefix(w, "#") {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}

// Attribute is a piece of user data the password must not resemble.
type Attribute struct {
	Name  string // e.g. "email address"
	Value string
}

// Validate blocks weak passwords. Every rule is checked; failures are joined.
func Validate(pwd string, attrs ...Attribute) error {
	var errs []error
	if len([]rune(pwd)) < MinLen {
		errs = append(errs, ErrTooShort)
	}
	if pwd != "" && strings.IndexFunc(pwd, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		errs = append(errs, ErrAllNumeric)
	}
	if _, ok := commonPassword[strings.ToLower(strings.TrimSpace(pwd))]; ok {
		errs = append(errs, ErrTooCommon)
	}
	if name, ok := tooSimilar(pwd, attrs); ok {
		errs = append(errs, errors.New(errTooSimilar+name+"."))
	}
	return errors.Join(errs...)
}

func tooSimilar(pwd string, attrs []Attribute) (string, bool) {
	lp := strings.ToLower(pwd)
	for _, a := range attrs {
		v := strings.ToLower(strings.TrimSpace(a.Value))
		if v == "" {
			continue
		}
		parts := append(wordSplitRe.Split(v, -1), v)
		for _, part := range parts {
			if part != "" && ratio(lp, part) >= maxSimilarity {
				return a.Name, true
			}
		}
	}
	return "", false
}

// ratio is 2*M/T where M counts characters in matching blocks found by repeatedly
// taking the longest common substring.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}
	return 2 * float64(matching(ra, rb)) / float64(len(ra)+len(rb))
}

func matching(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	i, j, n := longestCommon(a, b)
	if n == 0 {
		return 0
	}
	return n + matching(a[:i], b[:j]) + matching(a[i+n:], b[j+n:])
}

func longestCommon(a, b []rune) (int, int, int) {
	bi, bj, best := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best, bi, bj = cur[j], i-cur[j], j-cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return bi, bj, best
}
