package respond

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/validation"
)

// Date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}

	d.Time = t

	return nil
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// UUIDParam parses a chi path parameter.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, validation.New(name, "must be a valid id")
	}

	return id, nil
}

// Query reads optional, typed query parameters and collects every problem
// into one validation error.
type Query struct {
	r    *http.Request
	errs validation.Error
}

func NewQuery(r *http.Request) *Query {
	return &Query{r: r}
}

func (q *Query) String(name string) *string {
	v := strings.TrimSpace(q.r.URL.Query().Get(name))
	if v == "" {
		return nil
	}

	return &v
}

func (q *Query) Date(name string) *time.Time {
	v := q.String(name)
	if v == nil {
		return nil
	}

	t, err := ParseDate(*v)
	if err != nil {
		q.errs.Add(name, "must be a date (YYYY-MM-DD or RFC 3339)")
		return nil
	}

	return &t
}

func (q *Query) UUID(name string) *uuid.UUID {
	v := q.String(name)
	if v == nil {
		return nil
	}

	id, err := uuid.Parse(*v)
	if err != nil {
		q.errs.Add(name, "must be a valid id")
		return nil
	}

	return &id
}

func (q *Query) Err() error {
	return q.errs.Err()
}

func (q *Query) Int(name string) *int {
	v := q.String(name)
	if v == nil {
		return nil
	}

	n, err := strconv.Atoi(*v)
	if err != nil {
		q.errs.Add(name, "must be a whole number")
		return nil
	}

	return &n
}

// DateEnd is Date for upper bounds: a plain date covers the whole day.
func (q *Query) DateEnd(name string) *time.Time {
	v := q.String(name)
	if v == nil {
		return nil
	}

	if t, err := time.Parse(time.DateOnly, *v); err == nil {
		return new(EndOfDay(t))
	}

	return q.Date(name)
}

// EndOfDay is the last instant Postgres can store on t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Microsecond)
}
