package scanner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/indexing/watchlist"
	"github.com/vietddude/addrwatch/internal/infra/chain/evm"
)

// Classify builds the alert for a transaction that matched a watched address.
// Transfers at or above threshold are WHALE (high); everything else keeps its
// direction (medium). The message always follows the direction.
func Classify(tx *domain.Transaction, dir watchlist.Direction, threshold decimal.Decimal, now time.Time) domain.Alert {
	value, err := evm.ParseNative(tx.Value)
	if err != nil {
		value = decimal.Zero
	}

	alert := domain.Alert{
		ID:          tx.Hash,
		ValueNative: evm.FormatNative(tx.Value),
		From:        tx.From,
		To:          tx.To,
		Timestamp:   now,
		TxHash:      tx.Hash,
		BlockNumber: tx.BlockNumber,
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	if dir == watchlist.Outgoing {
		alert.Kind = domain.AlertKindOutgoing
		alert.Message = "Sent funds to " + evm.ShortenAddress(tx.To)
	} else {
		alert.Kind = domain.AlertKindIncoming
		alert.Message = "Received funds from " + evm.ShortenAddress(tx.From)
	}
	alert.Severity = domain.SeverityMedium

	if value.GreaterThanOrEqual(threshold) {
		alert.Kind = domain.AlertKindWhale
		alert.Severity = domain.SeverityHigh
	}
	return alert
}
