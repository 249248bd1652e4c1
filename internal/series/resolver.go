package series

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/SaieshPriolkar/coinvision/internal/models"
)

var (
	ErrInvalidToken     = errors.New("invalid token format, expected CUR-amount (e.g. INR-200)")
	ErrNotFound         = errors.New("currency pair not found")
	ErrInsufficientData = errors.New("not enough historical data")
)

var tokenRegexp = regexp.MustCompile(`^([A-Z]{3})-(\d+(?:\.\d+)?)$`)

// Match is a resolved currency token: the catalog series to read, the
// parsed amount, and whether the token's base currency is the series'
// source side (which decides division vs multiplication downstream).
type Match struct {
	Descriptor models.SeriesDescriptor `json:"descriptor"`
	Base       string                  `json:"base"`
	Amount     float64                 `json:"amount"`
	Forward    bool                    `json:"forward"`
}

// Resolve maps a free-text token like "INR-200" to a series in the given
// market group. Labels are searched in declaration order: first a series
// mentioning both the base and compare currencies, then any series
// mentioning the base alone. The fallback can pick a series unrelated to
// the compare currency; that mirrors the dashboard's best-effort behavior
// and is pinned by tests.
func Resolve(token, compare string, group *models.MarketGroup) (*Match, error) {
	m := tokenRegexp.FindStringSubmatch(token)
	if m == nil {
		return nil, ErrInvalidToken
	}
	base := m[1]
	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if group == nil {
		return nil, ErrNotFound
	}

	var found *models.SeriesDescriptor
	for i := range group.Series {
		s := &group.Series[i]
		if strings.Contains(s.Label, base) && strings.Contains(s.Label, compare) {
			found = s
			break
		}
	}
	if found == nil {
		for i := range group.Series {
			if strings.Contains(group.Series[i].Label, base) {
				found = &group.Series[i]
				break
			}
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}

	return &Match{
		Descriptor: *found,
		Base:       base,
		Amount:     amount,
		Forward:    forwardMatch(found, base, compare),
	}, nil
}

// forwardMatch reports whether base is the series' source currency.
// Descriptors with structured Base/Quote fields answer directly; for
// legacy descriptors the "X to Y" label phrasing is parsed instead.
func forwardMatch(d *models.SeriesDescriptor, base, compare string) bool {
	if d.Base != "" {
		return d.Base == base
	}
	if from, to, ok := strings.Cut(d.Label, " to "); ok {
		return strings.Contains(from, base) && strings.Contains(to, compare)
	}
	return false
}
