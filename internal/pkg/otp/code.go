package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// CodeGenerator produces the numeric codes sent to users.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCode draws codes uniformly from [min, max] using crypto/rand.
type RandomCode struct {
	min   int64
	span  *big.Int
	width int
}

// NewRandomCode returns a generator for the inclusive range [min, max].
// Codes are zero padded to the width of max.
func NewRandomCode(min, max int64) *RandomCode {
	if max < min {
		min, max = max, min
	}

	return &RandomCode{
		min:   min,
		span:  big.NewInt(max - min + 1),
		width: len(strconv.FormatInt(max, 10)),
	}
}

func (g *RandomCode) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, g.span)
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", g.width, g.min+n.Int64()), nil
}

// StaticCode always returns the same code. It is meant for local development and tests.
type StaticCode string

func (c StaticCode) Generate() (string, error) { return string(c), nil }
