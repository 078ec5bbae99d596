package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultQuoteAsset is appended when the user names a bare base asset.
	DefaultQuoteAsset = "USDT"
	// DefaultLeverageCap matches the exchange-wide maximum.
	DefaultLeverageCap = 125
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Parser turns raw command text into a TradeIntent. It is a pure
// string-to-result function: no network, no registry lookups, and the same
// input always yields the same intent or the same errors.
type Parser struct {
	quoteAsset  string
	leverageCap int
}

// NewParser creates a parser. Zero values fall back to DefaultQuoteAsset
// and DefaultLeverageCap.
func NewParser(quoteAsset string, leverageCap int) *Parser {
	if quoteAsset == "" {
		quoteAsset = DefaultQuoteAsset
	}
	if leverageCap <= 0 {
		leverageCap = DefaultLeverageCap
	}
	return &Parser{
		quoteAsset:  strings.ToUpper(quoteAsset),
		leverageCap: leverageCap,
	}
}

// Parse parses one command line. On failure the returned ParseError lists
// every problem found plus grammar suggestions; the intent is nil.
func (p *Parser) Parse(text string) (*TradeIntent, *ParseError) {
	perr := &ParseError{}
	tokens := strings.Fields(strings.TrimSpace(text))
	if len(tokens) == 0 {
		perr.add("empty command")
		perr.suggest(usageHint)
		return nil, perr
	}

	side, ok := parseAction(tokens[0])
	if !ok {
		perr.add(fmt.Sprintf("unknown action %q, want buy or sell", tokens[0]))
		perr.suggest(usageHint)
	}

	intent := &TradeIntent{
		Side:      side,
		OrderType: OrderTypeMarket,
	}
	var haveSize, haveLeverage bool

	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		lower := strings.ToLower(tok)

		switch {
		case lower == "reduce" || lower == "reduceonly" || lower == "reduce-only":
			intent.ReduceOnly = true

		case lower == "limit":
			if i+1 >= len(tokens) {
				perr.add("limit requires a price, e.g. limit 42000.5")
				continue
			}
			i++
			p.setLimitPrice(intent, tokens[i], perr)

		case strings.HasPrefix(tok, "@"):
			p.setLimitPrice(intent, tok[1:], perr)

		case isLeverageToken(lower):
			lev, err := parseLeverage(lower)
			if err != nil {
				perr.add(err.Error())
				continue
			}
			if haveLeverage {
				perr.add(fmt.Sprintf("leverage given twice (%q)", tok))
				continue
			}
			if lev < 1 || lev > p.leverageCap {
				perr.add(fmt.Sprintf("leverage %d is outside [1, %d]", lev, p.leverageCap))
				continue
			}
			intent.Leverage = lev
			haveLeverage = true

		case strings.HasPrefix(lower, "sl"):
			if pct, ok := parsePercentModifier(lower, "sl"); ok {
				if !pct.IsPositive() {
					perr.add(fmt.Sprintf("stop loss %s%% must be positive", pct.String()))
					continue
				}
				intent.StopLossPercent = pct
				continue
			}
			p.classifyRemainder(intent, tok, &haveSize, perr)

		case strings.HasPrefix(lower, "tp"):
			if pct, ok := parsePercentModifier(lower, "tp"); ok {
				if !pct.IsPositive() {
					perr.add(fmt.Sprintf("take profit %s%% must be positive", pct.String()))
					continue
				}
				intent.TakeProfitPercent = pct
				continue
			}
			p.classifyRemainder(intent, tok, &haveSize, perr)

		default:
			p.classifyRemainder(intent, tok, &haveSize, perr)
		}
	}

	p.finish(intent, haveSize, perr)
	if perr.HasErrors() {
		return nil, perr
	}
	return intent, nil
}

// ParseCallback parses the structured payload assembled from inline-button
// presses. The pieces go through the same grammar as typed text so both
// entry paths produce identical intents.
func (p *Parser) ParseCallback(action, symbol, size string) (*TradeIntent, *ParseError) {
	return p.Parse(fmt.Sprintf("%s %s %s", action, symbol, size))
}

// classifyRemainder handles tokens that are either a size or a symbol.
func (p *Parser) classifyRemainder(intent *TradeIntent, tok string, haveSize *bool, perr *ParseError) {
	if spec, ok := parseSize(tok); ok {
		if *haveSize {
			perr.add(fmt.Sprintf("size given twice (%q)", tok))
			return
		}
		if !spec.Value.IsPositive() {
			perr.add(fmt.Sprintf("size %s must be positive", spec.Value.String()))
			return
		}
		if spec.Unit == SizeUnitPercent && spec.Value.GreaterThan(decimal.NewFromInt(100)) {
			perr.add(fmt.Sprintf("cannot size %s%% of balance", spec.Value.String()))
			return
		}
		intent.Size = spec
		*haveSize = true
		return
	}

	upper := strings.ToUpper(tok)
	if symbolPattern.MatchString(upper) {
		if intent.Symbol != "" {
			perr.add(fmt.Sprintf("conflicting symbol tokens %q and %q", intent.Symbol, upper))
			return
		}
		intent.Symbol = p.resolveSymbol(upper)
		return
	}

	perr.add(fmt.Sprintf("unrecognized token %q", tok))
	perr.suggest(usageHint)
}

// finish checks required fields and cross-modifier conflicts.
func (p *Parser) finish(intent *TradeIntent, haveSize bool, perr *ParseError) {
	if intent.Symbol == "" {
		perr.add("missing symbol")
		perr.suggest(usageHint)
	}
	if !haveSize {
		perr.add("missing size")
		perr.suggest(usageHint)
	}
	if intent.ReduceOnly && intent.Size.Unit == SizeUnitPercent {
		perr.add("percentage-of-balance sizing cannot be combined with reduce")
	}
}

func (p *Parser) setLimitPrice(intent *TradeIntent, raw string, perr *ParseError) {
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		perr.add(fmt.Sprintf("bad limit price %q", raw))
		return
	}
	if intent.OrderType == OrderTypeLimit {
		perr.add(fmt.Sprintf("limit price given twice (%q)", raw))
		return
	}
	intent.OrderType = OrderTypeLimit
	intent.LimitPrice = price
}

// resolveSymbol appends the configured quote asset unless the token already
// names a full pair.
func (p *Parser) resolveSymbol(upper string) string {
	if strings.HasSuffix(upper, p.quoteAsset) && len(upper) > len(p.quoteAsset) {
		return upper
	}
	return upper + p.quoteAsset
}

// parseAction recognizes the leading action word, with or without a slash
// command prefix. long/short are aliases used by the futures crowd.
func parseAction(tok string) (Side, bool) {
	word := strings.ToLower(strings.TrimPrefix(tok, "/"))
	// Telegram appends the bot name to slash commands in group chats.
	if at := strings.IndexByte(word, '@'); at > 0 {
		word = word[:at]
	}
	switch word {
	case "buy", "long":
		return SideBuy, true
	case "sell", "short":
		return SideSell, true
	}
	return "", false
}

// isLeverageToken matches x10 and 10x forms.
func isLeverageToken(lower string) bool {
	if len(lower) < 2 {
		return false
	}
	if strings.HasPrefix(lower, "x") {
		return isDigits(lower[1:])
	}
	if strings.HasSuffix(lower, "x") {
		return isDigits(lower[:len(lower)-1])
	}
	return false
}

func parseLeverage(lower string) (int, error) {
	digits := strings.Trim(lower, "x")
	lev, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("bad leverage %q", lower)
	}
	return lev, nil
}

// parsePercentModifier parses sl1% / tp3.5% style tokens. The trailing
// percent sign is optional.
func parsePercentModifier(lower, prefix string) (decimal.Decimal, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(lower, prefix), "%")
	if body == "" {
		return decimal.Zero, false
	}
	pct, err := decimal.NewFromString(body)
	if err != nil {
		return decimal.Zero, false
	}
	return pct, true
}

// parseSize parses a size token: bare decimal (base units), u/usdt suffix
// (quote units), or % suffix (share of balance).
func parseSize(tok string) (SizeSpec, bool) {
	lower := strings.ToLower(tok)
	unit := SizeUnitBase
	body := lower

	switch {
	case strings.HasSuffix(lower, "usdt"):
		unit = SizeUnitQuote
		body = strings.TrimSuffix(lower, "usdt")
	case strings.HasSuffix(lower, "u"):
		unit = SizeUnitQuote
		body = strings.TrimSuffix(lower, "u")
	case strings.HasSuffix(lower, "%"):
		unit = SizeUnitPercent
		body = strings.TrimSuffix(lower, "%")
	}

	if body == "" || !isNumeric(body) {
		return SizeSpec{}, false
	}
	v, err := decimal.NewFromString(body)
	if err != nil {
		return SizeSpec{}, false
	}
	return SizeSpec{Unit: unit, Value: v}, true
}

// isNumeric reports whether s is a plain decimal number. It rejects the
// exponent and sign forms decimal.NewFromString would accept, so tokens
// like "1e9" or "+5" fail parsing instead of slipping through as sizes.
func isNumeric(s string) bool {
	dots := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return s != "" && s != "."
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
