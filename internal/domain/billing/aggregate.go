package billing

import (
	"github.com/shopspring/decimal"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
)

// Overrides are the per-document flags a caller may set on top of the owner
// configuration.
type Overrides struct {
	// ApplySurcharge forces the surcharge on or off for this document
	ApplySurcharge *bool

	// ApplyStamp forces the stamp duty on or off for this document
	ApplyStamp *bool

	// SurchargeRate overrides the configured rate in document scope
	SurchargeRate *decimal.Decimal

	// StampAmount overrides the configured flat stamp amount
	StampAmount *types.MinorUnits
}

// VATBucket accumulates base and amount for one distinct VAT rate.
type VATBucket struct {
	Rate   decimal.Decimal  `json:"ratePercent"`
	Base   types.MinorUnits `json:"baseCents"`
	Amount types.MinorUnits `json:"amountCents"`
}

// DocumentTotals is the aggregation result persisted with the document.
//
// Invariant: TotalGross = SubtotalNet - GlobalDiscountApplied +
// SurchargeAmount + TotalVAT + StampAmount, and the tax summary amounts sum
// to SurchargeAmount + TotalVAT + StampAmount exactly.
type DocumentTotals struct {
	SubtotalNet           types.MinorUnits `json:"subtotalNetCents"`
	TotalDiscount         types.MinorUnits `json:"totalDiscountCents"`
	GlobalDiscountApplied types.MinorUnits `json:"globalDiscountAppliedCents"`
	SurchargeAmount       types.MinorUnits `json:"surchargeAmountCents"`
	TotalVAT              types.MinorUnits `json:"totalVatCents"`
	StampAmount           types.MinorUnits `json:"stampAmountCents"`
	TotalGross            types.MinorUnits `json:"totalGrossCents"`

	// Lines carries the post-allocation per-line figures, consistent with
	// the document totals.
	Lines []LineResult `json:"lines"`

	VATBuckets []VATBucket       `json:"vatBuckets"`
	TaxSummary []TaxSummaryEntry `json:"taxSummary"`
}

// AggregateDocument folds line results into document totals.
//
// Deterministic and reproducible: identical inputs always produce identical
// totals, and every rounding remainder is absorbed at allocation time.
func AggregateDocument(lines []LineResult, globalDiscount Discount, cfg TaxConfiguration, ov Overrides) (DocumentTotals, error) {
	if err := cfg.Validate(); err != nil {
		return DocumentTotals{}, err
	}
	if err := globalDiscount.validate(); err != nil {
		return DocumentTotals{}, err
	}

	totals := DocumentTotals{
		Lines:      make([]LineResult, len(lines)),
		VATBuckets: []VATBucket{},
		TaxSummary: []TaxSummaryEntry{},
	}
	copy(totals.Lines, lines)

	if len(lines) == 0 {
		return totals, nil
	}

	var subtotal, lineDiscounts types.MinorUnits
	for _, line := range totals.Lines {
		subtotal += line.NetAmount
		lineDiscounts += line.DiscountAmount
	}
	totals.SubtotalNet = subtotal

	// Global discount. A zero subtotal applies no discount: nothing to
	// distribute, and the allocation would divide by zero.
	var applied types.MinorUnits
	if subtotal > 0 {
		applied = globalDiscount.resolve(subtotal, cfg.DocumentRounding)
	}
	totals.GlobalDiscountApplied = applied
	totals.TotalDiscount = lineDiscounts + applied

	nets := make([]types.MinorUnits, len(totals.Lines))
	for i, line := range totals.Lines {
		nets[i] = line.NetAmount
	}

	netAfter := make([]types.MinorUnits, len(totals.Lines))
	shares := Allocate(applied, nets, cfg.DocumentRounding)
	for i := range totals.Lines {
		totals.Lines[i].GlobalDiscountShare = shares[i]
		netAfter[i] = nets[i] - shares[i]
		totals.Lines[i].NetAmount = netAfter[i]
	}

	surchargeTotal, surchargeBase, surchargeRate := resolveSurcharge(totals.Lines, netAfter, cfg, ov)
	totals.SurchargeAmount = surchargeTotal

	// VAT bucketing, insertion-ordered by first appearance of each rate.
	bucketIdx := make(map[string]int)
	for i := range totals.Lines {
		line := &totals.Lines[i]

		vatBase := netAfter[i]
		if cfg.SurchargeOrder == OrderBeforeTVA {
			vatBase += line.SurchargeAmount
		}
		vat := cfg.LineRounding.Percent(vatBase, line.VATRate)

		line.VATAmount = vat
		line.GrossAmount = netAfter[i] + line.SurchargeAmount + vat
		totals.TotalVAT += vat

		key := line.VATRate.String()
		idx, ok := bucketIdx[key]
		if !ok {
			idx = len(totals.VATBuckets)
			bucketIdx[key] = idx
			totals.VATBuckets = append(totals.VATBuckets, VATBucket{Rate: line.VATRate})
		}
		totals.VATBuckets[idx].Base += vatBase
		totals.VATBuckets[idx].Amount += vat
	}

	// Stamp duty: a flat document-level amount, never per line and never
	// proportional to anything.
	stampApply := cfg.StampAutoApply
	if ov.ApplyStamp != nil {
		stampApply = *ov.ApplyStamp
	}
	if cfg.StampEnabled && stampApply {
		totals.StampAmount = cfg.StampAmount
		if ov.StampAmount != nil {
			totals.StampAmount = *ov.StampAmount
		}
	}

	var netAfterSum types.MinorUnits
	for _, n := range netAfter {
		netAfterSum += n
	}
	totals.TotalGross = netAfterSum + totals.SurchargeAmount + totals.TotalVAT + totals.StampAmount

	totals.TaxSummary = buildSummary(totals, surchargeBase, surchargeRate, cfg)
	return totals, nil
}

// resolveSurcharge applies the configured surcharge mode over the
// post-discount nets, mutating the per-line surcharge fields so that line
// gross figures stay consistent with the document total.
func resolveSurcharge(lines []LineResult, netAfter []types.MinorUnits, cfg TaxConfiguration, ov Overrides) (total, base types.MinorUnits, rate *decimal.Decimal) {
	enabled := cfg.SurchargeEnabled
	if ov.ApplySurcharge != nil {
		enabled = *ov.ApplySurcharge
	}

	if !enabled {
		for i := range lines {
			lines[i].SurchargeAmount = 0
			lines[i].SurchargeRate = nil
		}
		return 0, 0, nil
	}

	switch cfg.SurchargeScope {
	case SurchargeScopeDocument:
		docRate := cfg.SurchargeRate
		if ov.SurchargeRate != nil {
			docRate = *ov.SurchargeRate
		}

		var netSum types.MinorUnits
		for _, n := range netAfter {
			netSum += n
		}
		total = cfg.DocumentRounding.Percent(netSum, docRate)

		shares := Allocate(total, netAfter, cfg.DocumentRounding)
		for i := range lines {
			lines[i].SurchargeAmount = shares[i]
			// The rate belongs to the document, not the line.
			lines[i].SurchargeRate = nil
		}
		return total, netSum, &docRate

	default: // SurchargeScopeLine
		for i := range lines {
			lineRate := cfg.SurchargeRate
			if lines[i].SurchargeRate != nil {
				lineRate = *lines[i].SurchargeRate
			}

			if lineRate.IsZero() {
				lines[i].SurchargeAmount = 0
				lines[i].SurchargeRate = nil
				continue
			}

			amount := cfg.LineRounding.Percent(netAfter[i], lineRate)
			r := lineRate
			lines[i].SurchargeAmount = amount
			lines[i].SurchargeRate = &r
			total += amount
			base += netAfter[i]
		}
		return total, base, &cfg.SurchargeRate
	}
}

// buildSummary assembles the ordered tax summary: one surcharge entry when a
// surcharge was charged, one entry per VAT bucket, one stamp entry when stamp
// duty applies, re-sorted by the configured kind order.
func buildSummary(totals DocumentTotals, surchargeBase types.MinorUnits, surchargeRate *decimal.Decimal, cfg TaxConfiguration) []TaxSummaryEntry {
	entries := make([]TaxSummaryEntry, 0, len(totals.VATBuckets)+2)

	if totals.SurchargeAmount > 0 {
		entries = append(entries, surchargeEntry(surchargeRate, surchargeBase, totals.SurchargeAmount))
	}

	buckets := make([]VATBucket, len(totals.VATBuckets))
	copy(buckets, totals.VATBuckets)
	for i := 1; i < len(buckets); i++ {
		for j := i; j > 0 && buckets[j].Rate.Cmp(buckets[j-1].Rate) < 0; j-- {
			buckets[j], buckets[j-1] = buckets[j-1], buckets[j]
		}
	}
	for _, b := range buckets {
		entries = append(entries, vatEntry(b.Rate, b.Base, b.Amount))
	}

	if totals.StampAmount > 0 {
		entries = append(entries, stampEntry(totals.StampAmount))
	}

	sortSummary(entries, cfg)
	return entries
}
