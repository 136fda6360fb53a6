package bank

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"
)

//go:embed seed.json
var seedJSON []byte

var (
	seedOnce sync.Once
	seedBank *Bank
)

// Default returns the bank compiled into the binary. It panics if the
// embedded document is invalid, which is a build defect.
func Default() *Bank {
	seedOnce.Do(func() {
		b, err := Load(bytes.NewReader(seedJSON))
		if err != nil {
			panic(fmt.Sprintf("bank: embedded seed is invalid: %v", err))
		}
		seedBank = b
	})
	return seedBank
}
