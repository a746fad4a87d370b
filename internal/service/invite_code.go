package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	InviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateInviteCode возвращает случайный код из [A-Z0-9] длиной InviteCodeLength
func GenerateInviteCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(inviteCodeAlphabet)))

	var sb strings.Builder
	sb.Grow(InviteCodeLength)
	for i := 0; i < InviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		sb.WriteByte(inviteCodeAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// NormalizeInviteCode приводит код к виду, в котором он хранится
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
