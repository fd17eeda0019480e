package dto

import (
	"bytes"
	"fmt"
	"time"
)

// Date fecha que acepta "2006-01-02" o RFC3339 en JSON y se serializa como "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// DateFromTime nil si t es nil.
func DateFromTime(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}

// Ptr puntero a la fecha; nil si d es nil o está vacía.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("fecha inválida %q", s)
	}
	d.Time = t.UTC()
	return nil
}
