// Package lending holds the portal's pure LAMF computations: loan estimates
// (EMI), loan-to-value recalculation and risk classification, repayment
// component sums, dashboard ratios and INR display formatting.
//
// Money is computed with shopspring/decimal; JSON-facing entities in the
// domain package stay float64 and are converted at the boundary.
package lending
