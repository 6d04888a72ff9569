package analytics

// Reconcile merges canonical orders with a live broker snapshot keyed by
// broker order id. The lookup may be empty (broker unreachable); in that
// case every order falls back to its ledger-derived state and PnL. Output
// preserves input cardinality and order.
//
// Precedence per order:
//   - state: broker status when a match reports one, else ledger state
//   - PnL: broker fill ((fill − entry) × filledQty) when both a fill price
//     and an entry price exist, else the ledger realized profit, else
//     (current − entry) × qty with missing numerics treated as zero
func Reconcile(orders []CanonicalOrder, live map[string]BrokerOrder) []ReconciledOrder {
	if len(orders) == 0 {
		return nil
	}
	out := make([]ReconciledOrder, 0, len(orders))
	for _, ord := range orders {
		rec := ReconciledOrder{Order: ord, State: ord.State}

		broker, matched := BrokerOrder{}, false
		if ord.BrokerOrderID != "" {
			broker, matched = live[ord.BrokerOrderID]
		}

		if matched && broker.Status != "" {
			rec.State = broker.Status
		}

		switch {
		case matched && broker.FilledAvgPrice != nil && ord.EntryPrice != nil:
			rec.PnL = broker.FilledAvgPrice.Sub(*ord.EntryPrice).Mul(broker.FilledQty)
		case ord.RealizedProfit != nil:
			rec.PnL = *ord.RealizedProfit
		default:
			rec.PnL = value(ord.CurrentPrice).Sub(value(ord.EntryPrice)).Mul(value(ord.Quantity))
		}

		rec.Bucket = ClassifyState(rec.State)
		out = append(out, rec)
	}
	return out
}
