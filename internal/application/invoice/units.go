package invoice

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ParseUnits 将十进制金额转换为整数最小单位（与 viem parseUnits 一致），
// 小数位超过 decimals 时报错而不是截断
func ParseUnits(amount float64, decimals int) (*big.Int, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("amount must be a finite number")
	}
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must not be negative")
	}
	return parseDecimalString(strconv.FormatFloat(amount, 'f', -1, 64), decimals)
}

func parseDecimalString(s string, decimals int) (*big.Int, error) {
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))

	units, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %s", s)
	}
	return units, nil
}
