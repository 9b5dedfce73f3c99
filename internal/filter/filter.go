package filter

import (
	"math"
	"strconv"
	"strings"

	"w3batch/internal/domain/entity"
)

// Wildcard matches any chain or token in a rule pattern.
const Wildcard = "*"

// ValueKind selects which record field a threshold compares against.
type ValueKind int

const (
	// KindAmount compares the token amount.
	KindAmount ValueKind = iota
	// KindUSD compares the USD value. Records without a USD value never
	// match a usd-kind rule.
	KindUSD
)

// Rule is the parsed form of one filter string, e.g. "bsc:cake >= 100" or
// "*:* > $0.5". Patterns are case-folded at parse time and match exactly or
// via the wildcard; no substring or regex matching. A rule with no comparator
// matches on presence alone. Rules are immutable once parsed.
type Rule struct {
	Raw          string
	ChainPattern string
	TokenPattern string
	Operator     string
	Threshold    float64
	Kind         ValueKind
}

var comparators = map[string]struct{}{
	">":  {},
	">=": {},
	"<":  {},
	"<=": {},
	"==": {},
}

// Parse parses a single rule string. The grammar is
// chain ":" token [ comparator [ "$" ] number ]. Any malformed input is a
// FilterSyntaxError; parsing happens at configuration-validation time so a
// bad rule aborts the run before any wallet is scheduled.
func Parse(raw string) (Rule, error) {
	chainPart, rest, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "missing ':' between chain and token"}
	}

	chain := strings.ToLower(strings.TrimSpace(chainPart))
	if chain == "" {
		return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "empty chain pattern"}
	}
	if strings.ContainsAny(chain, "<>= ") {
		return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "malformed chain pattern " + strconv.Quote(chain)}
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "empty token pattern"}
	}
	// "eth:eth>5" would otherwise parse as a presence rule for the token
	// "eth>5", which can never match a record.
	if strings.ContainsAny(fields[0], "<>=") {
		return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "missing spaces around comparator in " + strconv.Quote(fields[0])}
	}

	rule := Rule{
		Raw:          raw,
		ChainPattern: chain,
		TokenPattern: strings.ToLower(fields[0]),
		Kind:         KindAmount,
	}

	switch len(fields) {
	case 1:
		return rule, nil
	case 3:
		op := fields[1]
		if _, ok := comparators[op]; !ok {
			return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "unknown comparator " + strconv.Quote(op)}
		}
		num := fields[2]
		if strings.HasPrefix(num, "$") {
			rule.Kind = KindUSD
			num = num[1:]
		}
		threshold, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "malformed threshold " + strconv.Quote(fields[2])}
		}
		rule.Operator = op
		rule.Threshold = threshold
		return rule, nil
	default:
		return Rule{}, &entity.FilterSyntaxError{Rule: raw, Reason: "want 'chain:token' or 'chain:token <op> <value>'"}
	}
}

// ParseAll parses a rule set in order, failing on the first bad rule.
func ParseAll(raws []string) ([]Rule, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	rules := make([]Rule, 0, len(raws))
	for _, raw := range raws {
		rule, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Matches reports whether a single rule admits the record.
func Matches(rule Rule, rec entity.BalanceRecord) bool {
	if rule.ChainPattern != Wildcard && rule.ChainPattern != strings.ToLower(rec.Chain) {
		return false
	}
	if rule.TokenPattern != Wildcard && rule.TokenPattern != strings.ToLower(rec.Token) {
		return false
	}
	if rule.Operator == "" {
		return true
	}

	value := rec.Amount
	if rule.Kind == KindUSD {
		if rec.UsdValue == nil {
			// No price information: exclusion, not zero.
			return false
		}
		value = *rec.UsdValue
	}
	return compare(value, rule.Operator, rule.Threshold)
}

// Evaluate applies the OR combination across rules. An empty rule set admits
// everything.
func Evaluate(rules []Rule, rec entity.BalanceRecord) bool {
	if len(rules) == 0 {
		return true
	}
	for _, rule := range rules {
		if Matches(rule, rec) {
			return true
		}
	}
	return false
}

func compare(value float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return value > threshold
	case ">=":
		return value >= threshold
	case "<":
		return value < threshold
	case "<=":
		return value <= threshold
	case "==":
		return value == threshold
	default:
		return false
	}
}
