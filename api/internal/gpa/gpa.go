// Package gpa computes the coefficient-weighted semester average.
package gpa

import (
	"math"
	"strconv"
	"strings"

	"moyenne-bot/api/internal/catalog"
)

const (
	MinGrade = 0
	MaxGrade = 20
	// PassMark is the average from which a result is shown as passing.
	PassMark = 10
)

// Average returns sum(grade*coeff)/sum(coeff) over graded subjects only.
// It is 0 when nothing is graded.
func Average(subjects []catalog.Subject) float64 {
	return Summarize(subjects).Average
}

type Summary struct {
	Average     float64 `json:"average"`
	Graded      int     `json:"graded"`
	Total       int     `json:"total"`
	Coefficient float64 `json:"coefficient"` // sum of coefficients of graded subjects
}

func Summarize(subjects []catalog.Subject) Summary {
	var score, coeff float64
	graded := 0
	for _, s := range subjects {
		if s.Grade == nil || math.IsNaN(*s.Grade) {
			continue
		}
		score += *s.Grade * s.Coefficient
		coeff += s.Coefficient
		graded++
	}
	sum := Summary{Graded: graded, Total: len(subjects), Coefficient: coeff}
	if coeff != 0 {
		sum.Average = score / coeff
	}
	return sum
}

func ClampGrade(g float64) float64 {
	return math.Min(math.Max(g, MinGrade), MaxGrade)
}

// ParseNumber reads a user-typed number. Decimal commas and Arabic-Indic
// digits are accepted.
func ParseNumber(raw string) (float64, bool) {
	s := normalizeDigits(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseGrade returns nil for non-numeric input (the grade is cleared),
// otherwise the value clamped to [0,20].
func ParseGrade(raw string) *float64 {
	v, ok := ParseNumber(raw)
	if !ok {
		return nil
	}
	g := ClampGrade(v)
	return &g
}

// ParseCoefficient accepts only positive numbers.
func ParseCoefficient(raw string) (float64, bool) {
	v, ok := ParseNumber(raw)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// ParseTarget reads the goal average; missing, invalid or zero means 10.
func ParseTarget(raw string) float64 {
	v, ok := ParseNumber(raw)
	if !ok || v == 0 {
		return PassMark
	}
	return v
}

// Format renders an average with two decimals.
func Format(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 2, 64)
}

// FormatGrade renders a grade without trailing zeros ("14.5", "12").
func FormatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}

func Passing(avg float64) bool { return avg >= PassMark }

func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩': // Arabic-Indic
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹': // Extended Arabic-Indic
			return '0' + (r - '۰')
		case r == '٫': // Arabic decimal separator
			return '.'
		}
		return r
	}, s)
}
