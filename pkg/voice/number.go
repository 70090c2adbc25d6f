package voice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Number is an integer field that game data authors as either a JSON number
// or a numeric string. Null and "" decode to zero.
type Number int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("voice: number %q: %w", s, err)
		}
		*n = Number(v)
		return nil
	}
	var v json.Number
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	i, err := v.Int64()
	if err != nil {
		// Text map hashes above MaxInt64 are authored as unsigned values.
		u, uerr := strconv.ParseUint(v.String(), 10, 64)
		if uerr != nil {
			return fmt.Errorf("voice: number %s: %w", v, err)
		}
		i = int64(u)
	}
	*n = Number(i)
	return nil
}

// String returns the decimal form of n.
func (n Number) String() string {
	return strconv.FormatInt(int64(n), 10)
}
