package payment

import (
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/arpitmofficial/fest-management-system/config"
)

// Gateway creates payment orders for paid registrations. When no keys
// are configured the gateway is disabled and orders are skipped; the
// organizer then approves payments collected out of band.
type Gateway struct {
	client  *razorpay.Client
	enabled bool
}

func NewGateway(cfg *config.Config) *Gateway {
	if cfg.RazorpayKey == "" || cfg.RazorpaySecret == "" {
		return &Gateway{}
	}
	return &Gateway{
		client:  razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret),
		enabled: true,
	}
}

func (g *Gateway) Enabled() bool { return g.enabled }

// CreateOrder opens a Razorpay order for the given amount in rupees and
// returns the order id.
func (g *Gateway) CreateOrder(amount float64, receipt string, notes map[string]interface{}) (string, error) {
	if !g.enabled {
		return "", errors.New("payment gateway not configured")
	}

	data := map[string]interface{}{
		"amount":          int(amount * 100), // paise
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", errors.New("unable to extract order_id from Razorpay response")
	}
	return orderID, nil
}
