package xrpl

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// one XRP is one million drops; amounts on the wire are integer drop strings
var dropsPerXRP = decimal.New(1, 6)

// DropsToXRP converts an integer drop string to a decimal XRP amount.
func DropsToXRP(drops string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid drops amount %q: %w", drops, err)
	}
	return d.Div(dropsPerXRP), nil
}

// XRPToDrops converts a decimal XRP amount to an integer drop string.
// Amounts with sub-drop precision are rejected rather than rounded.
func XRPToDrops(xrp decimal.Decimal) (string, error) {
	d := xrp.Mul(dropsPerXRP)
	if !d.IsInteger() {
		return "", fmt.Errorf("amount %s has sub-drop precision", xrp)
	}
	return d.String(), nil
}

// BrokerFee returns the marketplace fee portion of an amount in drops for the
// given broker, zero when no broker is attached. The fee only affects what is
// displayed to the user, never what is signed.
func BrokerFee(amountDrops string, broker *Broker) (decimal.Decimal, error) {
	if broker == nil || broker.FeePercent == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(amountDrops)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountDrops, err)
	}
	percent, err := decimal.NewFromString(broker.FeePercent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid broker fee percent %q: %w", broker.FeePercent, err)
	}

	return amount.Mul(percent).Div(decimal.New(100, 0)).RoundDown(0), nil
}
