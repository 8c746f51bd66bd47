package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Count is an aggregate counter as sent by the API. Some backends send
// counts as numeric strings ("3"); null and "" decode to zero.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch r.Type {
	case gjson.Null:
		*c = 0
	case gjson.Number:
		*c = Count(r.Int())
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			*c = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("count %q: %w", r.Str, err)
		}
		*c = Count(n)
	default:
		return fmt.Errorf("count: unexpected %s", r.Type)
	}
	return nil
}
