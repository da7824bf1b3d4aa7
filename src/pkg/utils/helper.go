package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func ConvertString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case error:
		return val.Error()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

func ConvertInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, _ := strconv.Atoi(val)
		return n
	default:
		return 0
	}
}

// Round2 rounds a money amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseDecimal parses user-entered numbers, tolerating a comma as the
// decimal separator.
func ParseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}
