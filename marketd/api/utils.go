package api

import (
	"net/url"
	"strconv"

	"github.com/seradyn/gavel/gjson"
)

func GetIntFromQuery(query url.Values, key string, initial int) int {
	valStr := query.Get(key)
	if valStr == "" {
		return initial
	}
	valI, err := strconv.Atoi(valStr)
	if err != nil {
		return initial
	}
	return valI
}

func gjsonU64(v uint64) gjson.Uint64String {
	return gjson.Uint64String(v)
}
