// Package otp генерирует одноразовые шестизначные коды подтверждения.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Generate возвращает равномерно распределённый шестизначный код
// в диапазоне 100000–999999 включительно.
func Generate() (string, error) {
	const op = "otp.Generate"
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
