package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"medroute/pkg/utils"
)

// PaymentGateway charges the caller and returns a transaction ID. The real
// processor integration sits behind this seam; the mock stands in for it.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, method string) (string, error)
}

// mockPaymentGateway approves a configurable fraction of charges. COD is
// always approved since nothing is charged up front.
type mockPaymentGateway struct {
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockPaymentGateway(successRate float64) PaymentGateway {
	return &mockPaymentGateway{
		successRate: successRate,
		rng:         rand.New(rand.NewSource(rand.Int63())),
	}
}

func (g *mockPaymentGateway) Charge(ctx context.Context, amount float64, method string) (string, error) {
	if method != "cod" {
		g.mu.Lock()
		roll := g.rng.Float64()
		g.mu.Unlock()

		if roll >= g.successRate {
			return "", fmt.Errorf("payment failed, please try again")
		}
	}

	return utils.GenerateTransactionID(), nil
}
