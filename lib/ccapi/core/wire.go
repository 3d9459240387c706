package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ccapi/lib/timezone"
)

var null = []byte("null")

// unquote returns the contents of a JSON string or the literal text of any
// other JSON value, null is returned as "".
func unquote(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		return strings.TrimSpace(s), err
	}
	return string(data), nil
}

var dotnetDateRegex = regexp.MustCompile(`^/Date\((-?\d+)([+-]\d{4})?\)/$`)

// Date is a .NET JSON date, "/Date(1496918496099)/" or
// "/Date(1496918496099+0100)/". The milliseconds are always since the unix
// epoch in UTC, the offset only says which zone the server rendered it in.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	groups := dotnetDateRegex.FindStringSubmatch(s)
	if groups == nil {
		return fmt.Errorf("invalid .NET date '%s'", s)
	}
	ms, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return err
	}
	d.Time = time.UnixMilli(ms).In(timezone.Location)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return null, nil
	}
	return json.Marshal(fmt.Sprintf("/Date(%d)/", d.UnixMilli()))
}

// Bool accepts true/false, "True"/"False", "1"/"0" and 1/0.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		*b = true
	case "false", "0", "no", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean '%s'", s)
	}
	return nil
}

// Float is a number that may arrive as a string, an empty string is 0.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "£")
	if s == "" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number '%s'", s)
	}
	*f = Float(value)
	return nil
}

// Int is an integer that may arrive as a string, an empty string is 0.
type Int int

func (i *Int) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	if s == "" {
		*i = 0
		return nil
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer '%s'", s)
	}
	*i = Int(value)
	return nil
}

const RecordSeparator = "^^"

// SplitRecord splits a "^^" delimited reply into its fields, there is always
// at least one field.
func SplitRecord(s string) []string {
	fields := strings.Split(strings.TrimSpace(s), RecordSeparator)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func JoinRecord(fields ...string) string {
	return strings.Join(fields, RecordSeparator)
}

func JoinIDs(ids []int) string {
	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = strconv.Itoa(id)
	}
	return JoinRecord(fields...)
}

// ParseDisplayDate parses the "dd/mm/yyyy hh:mm" dates shown in the back
// office, the time of day is optional.
func ParseDisplayDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation("02/01/2006 15:04", s, timezone.Location)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("02/01/2006", s, timezone.Location)
}
