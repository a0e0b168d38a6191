package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenLedgerConcurrentAdds(t *testing.T) {
	ledger := NewTokenLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Add(10, 3)
		}()
	}
	wg.Wait()

	in, out, calls := ledger.Totals()
	assert.Equal(t, 500, in)
	assert.Equal(t, 150, out)
	assert.Equal(t, 50, calls)
}

func TestTokenLedgerReset(t *testing.T) {
	ledger := NewTokenLedger()
	ledger.Add(100, 40)
	ledger.Reset()

	in, out, calls := ledger.Totals()
	assert.Zero(t, in)
	assert.Zero(t, out)
	assert.Zero(t, calls)
}
