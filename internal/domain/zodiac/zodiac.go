// Package zodiac maps calendar days to one of the twelve sun signs.
package zodiac

import "time"

// Sign is a zodiac sign name.
type Sign string

// Sun signs in calendar order starting at the year wrap.
const (
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"

	// Unknown is returned for out-of-range month/day input.
	Unknown Sign = "Unknown"
)

type monthDay struct {
	month time.Month
	day   int
}

func (md monthDay) before(o monthDay) bool {
	if md.month != o.month {
		return md.month < o.month
	}
	return md.day < o.day
}

type span struct {
	sign       Sign
	start, end monthDay
}

// spans lists inclusive date ranges. Capricorn wraps the year end.
var spans = []span{
	{Capricorn, monthDay{time.December, 22}, monthDay{time.January, 19}},
	{Aquarius, monthDay{time.January, 20}, monthDay{time.February, 18}},
	{Pisces, monthDay{time.February, 19}, monthDay{time.March, 20}},
	{Aries, monthDay{time.March, 21}, monthDay{time.April, 19}},
	{Taurus, monthDay{time.April, 20}, monthDay{time.May, 20}},
	{Gemini, monthDay{time.May, 21}, monthDay{time.June, 20}},
	{Cancer, monthDay{time.June, 21}, monthDay{time.July, 22}},
	{Leo, monthDay{time.July, 23}, monthDay{time.August, 22}},
	{Virgo, monthDay{time.August, 23}, monthDay{time.September, 22}},
	{Libra, monthDay{time.September, 23}, monthDay{time.October, 22}},
	{Scorpio, monthDay{time.October, 23}, monthDay{time.November, 21}},
	{Sagittarius, monthDay{time.November, 22}, monthDay{time.December, 21}},
}

// daysIn is the maximum day number per month (leap years allowed).
var daysIn = [...]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Infer returns the sign for a month/day pair, or Unknown for impossible dates.
func Infer(month time.Month, day int) Sign {
	if month < time.January || month > time.December || day < 1 || day > daysIn[month] {
		return Unknown
	}
	md := monthDay{month, day}
	for _, s := range spans {
		if s.contains(md) {
			return s.sign
		}
	}
	return Unknown
}

// FromTime returns the sign for the calendar day of t in its own location.
func FromTime(t time.Time) Sign {
	return Infer(t.Month(), t.Day())
}

// All returns the twelve signs in calendar order starting with Capricorn.
func All() []Sign {
	out := make([]Sign, len(spans))
	for i, s := range spans {
		out[i] = s.sign
	}
	return out
}

func (s span) contains(md monthDay) bool {
	if !s.end.before(s.start) {
		return !md.before(s.start) && !s.end.before(md)
	}
	return !md.before(s.start) || !s.end.before(md)
}
