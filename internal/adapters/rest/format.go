package rest

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vndPrinter = message.NewPrinter(language.Vietnamese)

// 2^63: дальше преобразование в int64 переполняется
const maxExactCost = 1 << 63

// FormatVND группирует разряды числовой цены по-вьетнамски ("3.500.000.000").
// Нечисловые значения ("Thỏa thuận") и числа вне диапазона int64 возвращаются как есть.
func FormatVND(cost string) string {
	cost = strings.TrimSpace(cost)
	value, err := strconv.ParseFloat(cost, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= maxExactCost {
		return cost
	}
	if value == math.Trunc(value) {
		return vndPrinter.Sprintf("%d", int64(value))
	}
	return vndPrinter.Sprintf("%.2f", value)
}

// withUnit добавляет единицу измерения к непустому значению
func withUnit(value, unit string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value + " " + unit
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func detailURL(id string) string {
	return "/detailproduct?nhadat=true&id=" + url.QueryEscape(id)
}

func previewURL(id string) string {
	return "/preview/" + url.PathEscape(id)
}

func listingURL(page int) string {
	return "/listings?page=" + strconv.Itoa(page)
}

// refreshSeconds округляет оставшееся время вверх до целых секунд, минимум 1
func refreshSeconds(ms int64) int {
	seconds := int((ms + 999) / 1000)
	if seconds < 1 {
		return 1
	}
	return seconds
}
