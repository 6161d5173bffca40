package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrCSS is returned for a stylesheet that cannot be parsed.
var ErrCSS = errors.New("ui: invalid css")

// ParseCSS parses a small CSS subset: selectors .class, #id or a node type, optionally grouped
// with commas, each followed by a block of "key: value;" declarations. Combinators and
// pseudo-classes are skipped, as is everything inside @-rules. Later rules override earlier.
// An unterminated block is an error.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)

	var (
		selectors []string
		props     map[string]string
		inRule    bool
		atDepth   int
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%w: %v", ErrCSS, err)
			}
			if inRule || atDepth > 0 {
				return nil, fmt.Errorf("%w: unterminated block after %q", ErrCSS, strings.Join(selectors, ", "))
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			atDepth--
		case css.QualifiedRuleGrammar:
			selectors = append(selectors, selector(p.Values()))
		case css.BeginRulesetGrammar:
			selectors = append(selectors, selector(p.Values()))
			props = make(map[string]string)
			inRule = true
		case css.DeclarationGrammar:
			if inRule {
				props[strings.ToLower(string(data))] = joinTokens(p.Values())
			}
		case css.EndRulesetGrammar:
			if atDepth == 0 {
				for _, sel := range selectors {
					if validSelector(sel) {
						sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
					}
				}
			}
			selectors, props, inRule = nil, nil, false
		}
	}
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// selector joins the tokens of one selector in a comma group.
func selector(tokens []css.Token) string {
	return strings.TrimSpace(strings.Trim(joinTokens(tokens), ","))
}

func validSelector(sel string) bool {
	if sel == "" || strings.ContainsAny(sel, " \t\n>+~:[") {
		return false
	}
	if sel[0] == '.' || sel[0] == '#' {
		return len(sel) > 1
	}
	return true
}
