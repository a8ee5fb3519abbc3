// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"strings"
)

// BoundaryLength is the length of a generated Msg boundary
const BoundaryLength = 32

// Range of characters for the secure string generation
const cr = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// Bitmask sizes for the string generators (based on 62 chars total)
const (
	letterIdxBits = 7                    // 7 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// randomBoundary returns a new alphanumeric Msg boundary of BoundaryLength characters.
//
// The boundary only needs to avoid collisions with the message content, it is not a secret. If
// the crypto/rand reader fails, it falls back to math/rand.
func randomBoundary() string {
	boundary, err := randomStringSecure(BoundaryLength)
	if err != nil {
		return randomString(BoundaryLength)
	}
	return boundary
}

// randomStringSecure returns a random, string of length characters. This method uses the
// crypto/random package and therfore is cryptographically secure
func randomStringSecure(length int) (string, error) {
	randString := strings.Builder{}
	randString.Grow(length)
	charRangeLength := len(cr)

	randPool := make([]byte, 8)
	_, err := io.ReadFull(rand.Reader, randPool)
	if err != nil {
		return randString.String(), err
	}
	for idx, char, rest := length-1, binary.BigEndian.Uint64(randPool), letterIdxMax; idx >= 0; {
		if rest == 0 {
			_, err = io.ReadFull(rand.Reader, randPool)
			if err != nil {
				return randString.String(), err
			}
			char, rest = binary.BigEndian.Uint64(randPool), letterIdxMax
		}
		if i := int(char & letterIdxMask); i < charRangeLength {
			randString.WriteByte(cr[i])
			idx--
		}
		char >>= letterIdxBits
		rest--
	}

	return randString.String(), nil
}

// randomString returns a random string of length characters based on math/rand.
func randomString(length int) string {
	randString := strings.Builder{}
	randString.Grow(length)
	for i := 0; i < length; i++ {
		randString.WriteByte(cr[randNum(len(cr))])
	}
	return randString.String()
}

// randNum returns a random number with a maximum value of maxval.
//
// If maxval is less than or equal to 0, it returns 0.
func randNum(maxval int) int {
	if maxval <= 0 {
		return 0
	}
	return mrand.IntN(maxval)
}
