package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP menghasilkan OTP 6 digit
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand hampir tidak pernah gagal; fallback nilai statis agar tidak panic
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
