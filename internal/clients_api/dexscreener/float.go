package dexscreener

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float decodes a JSON number, a numeric string or null. DexScreener sends prices as
// strings and volumes as numbers, and omits either for thin pairs. Anything that does
// not parse, including NaN and infinities, becomes 0 instead of failing the whole payload.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			*f = 0
			return nil
		}
	}

	*f = Float(parseFinite(raw))
	return nil
}

func parseFinite(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
