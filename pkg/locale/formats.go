// Package locale provides the locale-aware formatting service templates use
// for numbers, currencies, dates and message formats. A Service is bound to
// one language tag and is created per render, so it needs no locking.
package locale

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultTag is used when no locale is configured.
const DefaultTag = "en-US"

// DefaultTimeZone is used for epoch timestamps when no zone is configured.
const DefaultTimeZone = "America/New_York"

// ErrUnknownCurrency is returned for codes that are not ISO 4217.
var ErrUnknownCurrency = errors.New("locale: unknown currency")

// Formats is the formatting surface exposed to plugins.
type Formats interface {
	Tag() string
	Decimal(v float64) string
	Percent(v float64) string
	Currency(amount float64, code string) (string, error)
	DateTime(t time.Time, style string) string
	Location() *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithTimeZone sets the zone used to interpret epoch timestamps.
func WithTimeZone(zone string) Option {
	return func(s *Service) {
		if loc, err := time.LoadLocation(strings.TrimSpace(zone)); err == nil {
			s.location = loc
		}
	}
}

// Service implements Formats using golang.org/x/text.
type Service struct {
	tag      language.Tag
	printer  *message.Printer
	location *time.Location
}

var _ Formats = (*Service)(nil)

// New builds a Service for the given BCP 47 tag.
func New(tag string, opts ...Option) (*Service, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		trimmed = DefaultTag
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("locale: parse tag %q: %w", trimmed, err)
	}

	svc := &Service{
		tag:     parsed,
		printer: message.NewPrinter(parsed),
	}
	WithTimeZone(DefaultTimeZone)(svc)
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.location == nil {
		svc.location = time.UTC
	}
	return svc, nil
}

// MustNew panics when the tag cannot be parsed.
func MustNew(tag string, opts ...Option) *Service {
	svc, err := New(tag, opts...)
	if err != nil {
		panic(err)
	}
	return svc
}

func (s *Service) Tag() string { return s.tag.String() }

func (s *Service) Location() *time.Location { return s.location }

// Decimal formats v with locale grouping and decimal separators.
func (s *Service) Decimal(v float64) string {
	return s.printer.Sprintf("%v", number.Decimal(v))
}

// Percent formats a ratio (0.25) as a percentage.
func (s *Service) Percent(v float64) string {
	return s.printer.Sprintf("%v", number.Percent(v))
}

// Currency formats amount in the ISO 4217 currency code.
func (s *Service) Currency(amount float64, code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return s.printer.Sprintf("%v", currency.Symbol(unit.Amount(amount))), nil
}

var dateLayouts = map[string]string{
	"short":  "1/2/06, 3:04 PM",
	"medium": "Jan 2, 2006, 3:04:05 PM",
	"long":   "January 2, 2006 at 3:04:05 PM MST",
	"full":   "Monday, January 2, 2006 at 3:04:05 PM MST",
	"date":   "January 2, 2006",
	"time":   "3:04 PM",
}

// DateTime formats t in the service's zone. Unknown styles fall back to
// medium; an explicit Go layout may be passed with a "layout:" prefix.
func (s *Service) DateTime(t time.Time, style string) string {
	t = t.In(s.location)
	style = strings.TrimSpace(style)
	if layout, ok := strings.CutPrefix(style, "layout:"); ok {
		return t.Format(layout)
	}
	layout, ok := dateLayouts[strings.ToLower(style)]
	if !ok {
		layout = dateLayouts["medium"]
	}
	return t.Format(layout)
}
