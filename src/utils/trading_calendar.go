package utils

import (
	"strings"
	"sync"
	"time"

	"github.com/scmhub/calendar"

	"macro-observer/src/logger"
)

// defaultMIC is used for symbols without an exchange suffix.
const defaultMIC = "xnys"

// Yahoo symbol suffix to ISO 10383 MIC
var suffixMIC = []struct {
	suffix string
	mic    string
}{
	{".L", "xlon"}, {".PA", "xpar"}, {".DE", "xfra"}, {".AS", "xams"},
	{".BR", "xbru"}, {".MI", "xmil"}, {".MC", "xmad"}, {".ST", "xsto"},
	{".CO", "xcse"}, {".HE", "xhel"}, {".VI", "xwbo"}, {".SW", "xswx"},
	{".TO", "xtse"}, {".V", "xtsx"}, {".T", "xtks"}, {".HK", "xhkg"},
	{".AX", "xasx"}, {".KS", "xkrx"}, {".TW", "xtai"}, {".SS", "xshg"},
	{".SZ", "xshe"},
}

// TradingCalendar answers open/closed questions for one exchange.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

var (
	calendarsMu sync.Mutex
	calendars   = map[string]*TradingCalendar{}
	calLog      = logger.NewLogger(nil, "TradingCalendar")
)

// -----------------------------------------------------------------------------

// ExchangeMIC maps a Yahoo symbol to the MIC of its listing exchange.
func ExchangeMIC(symbol string) string {
	upper := strings.ToUpper(symbol)
	for _, m := range suffixMIC {
		if strings.HasSuffix(upper, m.suffix) {
			return m.mic
		}
	}
	return defaultMIC
}

// -----------------------------------------------------------------------------

// GetCalendar returns the (cached) calendar of the symbol's exchange.
func GetCalendar(symbol string) *TradingCalendar {
	mic := ExchangeMIC(symbol)

	calendarsMu.Lock()
	defer calendarsMu.Unlock()
	if tc, ok := calendars[mic]; ok {
		return tc
	}

	tc := loadCalendar(mic)
	calendars[mic] = tc
	return tc
}

func loadCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar(defaultMIC)
	}

	if cal == nil {
		calLog.Warning("Failed to load calendar for MIC '%s' and fallback '%s'. Using Mon-Fri 09:30-16:00 New York.", mic, defaultMIC)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		hour, minute := t.Hour(), t.Minute()
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}

	return tc.Calendar.IsOpen(t)
}
