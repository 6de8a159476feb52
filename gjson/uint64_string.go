package gjson

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Uint64String round-trips u64 amounts as decimal strings so that
// JavaScript consumers never hit the 2^53 precision cliff.
type Uint64String uint64

func (u Uint64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

func (u *Uint64String) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		// Accept bare numbers for hand-written payloads.
		var n uint64
		if err := json.Unmarshal(buf, &n); err != nil {
			return errors.WithStack(err)
		}
		*u = Uint64String(n)
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return errors.WithStack(err)
	}
	*u = Uint64String(n)
	return nil
}
