package payment

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FlowHistoryDay is one row of the payment flow aggregation: per-day counts
// and sums of obligations due and settled, with running balances.
type FlowHistoryDay struct {
	Date            time.Time
	ToPayCount      int
	ToPay           decimal.Decimal
	PaidCount       int
	Paid            decimal.Decimal
	ToReceiveCount  int
	ToReceive       decimal.Decimal
	ReceivedCount   int
	Received        decimal.Decimal
	PreviousBalance decimal.Decimal
	BalanceExpected decimal.Decimal
	BalanceReal     decimal.Decimal
	Divergent       []*Payment
}

// ComputeFlowHistory aggregates payments into per-day rows over [start, end].
// The date domain is the union of due dates and paid dates across all
// payments not in preview or cancelled. The real balance is accumulated
// from the beginning of time so the first emitted row carries the correct
// previous balance; only rows within the range are returned.
func ComputeFlowHistory(payments []*Payment, start, end time.Time, includeDivergent bool) []FlowHistoryDay {
	active := make([]*Payment, 0, len(payments))
	for _, p := range payments {
		if p.Status == StatusPreview || p.Status == StatusCancelled {
			continue
		}
		active = append(active, p)
	}

	daySet := make(map[time.Time]struct{})
	for _, p := range active {
		daySet[truncateToDay(p.DueDate)] = struct{}{}
		if p.PaidDate != nil {
			daySet[truncateToDay(*p.PaidDate)] = struct{}{}
		}
	}
	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	rows := make([]FlowHistoryDay, 0)
	balanceReal := decimal.Zero
	for _, d := range days {
		if d.After(endDay) {
			break
		}
		row := FlowHistoryDay{Date: d, PreviousBalance: balanceReal}
		for _, p := range active {
			due := truncateToDay(p.DueDate).Equal(d)
			settled := p.PaidDate != nil && truncateToDay(*p.PaidDate).Equal(d)

			switch p.Direction {
			case DirectionOut:
				if due {
					row.ToPayCount++
					row.ToPay = row.ToPay.Add(p.Value)
				}
				if settled && p.PaidValue != nil {
					row.PaidCount++
					row.Paid = row.Paid.Add(*p.PaidValue)
				}
			case DirectionIn:
				if due {
					row.ToReceiveCount++
					row.ToReceive = row.ToReceive.Add(p.Value)
				}
				if settled && p.PaidValue != nil {
					row.ReceivedCount++
					row.Received = row.Received.Add(*p.PaidValue)
				}
			}

			if includeDivergent && p.IsDivergentOn(d) {
				row.Divergent = append(row.Divergent, p)
			}
		}

		row.BalanceExpected = balanceReal.Add(row.ToReceive).Sub(row.ToPay)
		balanceReal = balanceReal.Add(row.Received).Sub(row.Paid)
		row.BalanceReal = balanceReal

		if !d.Before(startDay) {
			rows = append(rows, row)
		}
	}
	return rows
}
