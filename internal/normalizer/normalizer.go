package normalizer

import (
	"regexp"
	"strings"
)

// placeholderPhrases are "no information" markers that appear verbatim in
// source datasets. They carry no lexical signal and would otherwise skew
// rarity statistics, so they are stripped before anything else.
var placeholderPhrases = []string{
	"no board service info",
	"no employment information provided",
	"no info available",
	"no employment/military info in database",
	"retired",
	"(retired)",
	"no employment info",
	"no board service information provided",
	"no known board roles",
	"no publicly known board positions",
	"no board affiliations found.",
	"no board service identified",
	"no formal board service identified",
	"no professional information",
	"no board roles identified",
	"no explicit board memberships found",
	"no information found",
	"no information found - refers to facilities not a person",
	"nonprofit: none",
}

// orgSuffixWords are corporate/legal-form words removed as whole words.
var orgSuffixWords = []string{
	"inc", "corp", "corporation", "ltd", "llc", "co", "company",
	"foundation", "institute", "university", "college", "academy",
	"association", "group", "holdings",
}

// roleWords are generic titles and board roles removed as whole words.
var roleWords = []string{
	"ceo", "cfo", "coo", "president", "chair", "director", "member",
	"trustee", "secretary", "treasurer", "advisor", "officer",
	"researcher", "managing director",
}

var stopwords = []string{
	"the", "of", "and", "a", "an", "for", "in", "on", "at", "by", "with",
}

var (
	placeholderReplacer = newRemovalReplacer(placeholderPhrases)

	lineBreakPattern = regexp.MustCompile(`<br\s*/?>`)
	orgSuffixPattern = wholeWordPattern(orgSuffixWords)
	rolePattern      = wholeWordPattern(roleWords)
	stopwordPattern  = wholeWordPattern(stopwords)
	yearRangePattern = regexp.MustCompile(`\d{4}\s*-\s*(\d{4}|present)`)
	punctPattern     = regexp.MustCompile(`[^\w\s]`)
)

// newRemovalReplacer builds a single-pass replacer that deletes every phrase.
func newRemovalReplacer(phrases []string) *strings.Replacer {
	pairs := make([]string, 0, len(phrases)*2)
	for _, p := range phrases {
		pairs = append(pairs, p, "")
	}
	return strings.NewReplacer(pairs...)
}

// wholeWordPattern compiles a word list into one alternation matched only
// at word boundaries, so "co" never matches inside "cosmetics".
func wholeWordPattern(words []string) *regexp.Regexp {
	return regexp.MustCompile(`\b(` + strings.Join(words, "|") + `)\b`)
}

// Normalize converts raw field or query text into its canonical comparable
// form. The steps run in a fixed order: placeholder and year stripping must
// see the text before punctuation is removed, or they would only ever match
// fragments. The operation is pure and total; empty input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	// Placeholder removal loops to a fixpoint: deleting one occurrence can
	// splice the surrounding text into a fresh match.
	for {
		replaced := placeholderReplacer.Replace(text)
		if replaced == text {
			break
		}
		text = replaced
	}

	text = lineBreakPattern.ReplaceAllString(text, " ")
	text = orgSuffixPattern.ReplaceAllString(text, " ")
	text = rolePattern.ReplaceAllString(text, " ")
	text = stopwordPattern.ReplaceAllString(text, " ")
	text = yearRangePattern.ReplaceAllString(text, " ")
	text = punctPattern.ReplaceAllString(text, " ")

	return strings.Join(strings.Fields(text), " ")
}
