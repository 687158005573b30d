package tool

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	referenceAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceSuffixLength = 8
)

var referenceSeq atomic.Uint64

// NewExternalReference returns a correlation key of the form
// PREFIX-<unix millis>-<sequence base36>-<random suffix>.
// The sequence keeps references from one process distinct; the random suffix
// keeps them distinct across processes.
func NewExternalReference(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 40)
	b.WriteString(strings.ToUpper(prefix))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	b.WriteByte('-')
	b.WriteString(strings.ToUpper(strconv.FormatUint(referenceSeq.Add(1), 36)))
	b.WriteByte('-')
	b.WriteString(randomSuffix(referenceSuffixLength))
	return b.String()
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms; fall back to the clock
			idx = big.NewInt(time.Now().UnixNano() % int64(len(referenceAlphabet)))
		}
		out[i] = referenceAlphabet[idx.Int64()]
	}
	return string(out)
}
