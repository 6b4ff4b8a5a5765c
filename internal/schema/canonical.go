// =============================================================================
// Financial Mapper - Canonical Vocabulary
// =============================================================================
//
// The canonical vocabulary is the closed set of standardized statement line
// items that every raw label is mapped onto. It is fixed at compile time and
// never mutated at runtime. The synonym dictionary is a separate, mutable
// layer that points into this set.
//
// CUSTOMIZATION:
//   Adding a field means adding it to canonicalFields below. Downstream ratio
//   consumers key on the exact display string, so renames are breaking.
//
// =============================================================================

package schema

import "strings"

// CanonicalField is one standardized financial-statement line item.
type CanonicalField string

// String returns the display name of the field.
func (f CanonicalField) String() string { return string(f) }

const (
	CurrentAssets          CanonicalField = "Current Assets"
	CurrentLiabilities     CanonicalField = "Current Liabilities"
	LongTermBorrowings     CanonicalField = "Long-term Borrowings"
	ShortTermBorrowings    CanonicalField = "Short-term Borrowings"
	LongTermProvisions     CanonicalField = "Long-term Provisions"
	ShortTermProvisions    CanonicalField = "Short-term Provisions"
	ShareCapital           CanonicalField = "Share Capital"
	ReservesAndSurplus     CanonicalField = "Reserves & Surplus"
	GrossProfit            CanonicalField = "Gross Profit"
	IndirectExpenses       CanonicalField = "Indirect Expenses"
	CashSales              CanonicalField = "Cash Sales"
	CreditSales            CanonicalField = "Credit Sales"
	OtherOperatingIncome   CanonicalField = "Other Operating Income"
	OperatingExpenses      CanonicalField = "Operating Expenses"
	CashAccruals           CanonicalField = "Cash Accruals"
	LoanInstallment        CanonicalField = "Loan Installment"
	Interest               CanonicalField = "Interest"
	OpeningInventory       CanonicalField = "Opening Inventory"
	ClosingInventory       CanonicalField = "Closing Inventory"
	NetPurchases           CanonicalField = "Net Purchases"
	DirectExpenses         CanonicalField = "Direct Expenses"
	OpeningDebtors         CanonicalField = "Opening Debtors"
	ClosingDebtors         CanonicalField = "Closing Debtors"
	NetSales               CanonicalField = "Net Sales"
	LongTermLiabilities    CanonicalField = "Long-term Liabilities"
	IntangibleAssets       CanonicalField = "Intangible Assets"
	FixedCost              CanonicalField = "Fixed Cost"
	SellingPrice           CanonicalField = "Selling Price"
	VariableCost           CanonicalField = "Variable Cost"
	NetProfit              CanonicalField = "Net Profit"
	NetWorth               CanonicalField = "Net Worth"
	TotalAssets            CanonicalField = "Total Assets"
	TotalLiabilities       CanonicalField = "Total Liabilities"
	EBITDA                 CanonicalField = "EBITDA"
	Depreciation           CanonicalField = "Depreciation"
	Tax                    CanonicalField = "Tax"
	Revenue                CanonicalField = "Revenue"
	TotalDebt              CanonicalField = "Total Debt"
	Equity                 CanonicalField = "Equity"
	WorkingCapital         CanonicalField = "Working Capital"
	TangibleAssets         CanonicalField = "Tangible Assets"
	FixedAssets            CanonicalField = "Fixed Assets"
	CapitalWorkInProgress  CanonicalField = "Capital Work in Progress"
	Investments            CanonicalField = "Investments"
	Inventory              CanonicalField = "Inventory"
	TradeReceivables       CanonicalField = "Trade Receivables"
	TradePayables          CanonicalField = "Trade Payables"
	CashAndCashEquivalents CanonicalField = "Cash and Cash Equivalents"
	LoansAndAdvances       CanonicalField = "Loans and Advances"
	TotalIncome            CanonicalField = "Total Income"
	TotalExpenses          CanonicalField = "Total Expenses"
	NetRevenue             CanonicalField = "Net Revenue"
	CostOfGoodsSold        CanonicalField = "Cost of Goods Sold"
	EmployeeBenefitExpense CanonicalField = "Employee Benefit Expense"
	OperatingProfit        CanonicalField = "Operating Profit"
	ProfitBeforeTax        CanonicalField = "Profit Before Tax"
	DeferredTax            CanonicalField = "Deferred Tax"
	Dividend               CanonicalField = "Dividend"
)

// canonicalFields is the vocabulary in declaration order. Order matters: the
// fuzzy matcher breaks score ties by position in this list.
var canonicalFields = []CanonicalField{
	CurrentAssets, CurrentLiabilities, LongTermBorrowings, ShortTermBorrowings,
	LongTermProvisions, ShortTermProvisions, ShareCapital, ReservesAndSurplus,
	GrossProfit, IndirectExpenses, CashSales, CreditSales, OtherOperatingIncome,
	OperatingExpenses, CashAccruals, LoanInstallment, Interest,
	OpeningInventory, ClosingInventory, NetPurchases, DirectExpenses,
	OpeningDebtors, ClosingDebtors, NetSales, LongTermLiabilities, IntangibleAssets,
	FixedCost, SellingPrice, VariableCost, NetProfit, NetWorth, TotalAssets,
	TotalLiabilities, EBITDA, Depreciation, Tax, Revenue, TotalDebt, Equity,
	WorkingCapital, TangibleAssets, FixedAssets, CapitalWorkInProgress, Investments,
	Inventory, TradeReceivables, TradePayables, CashAndCashEquivalents,
	LoansAndAdvances, TotalIncome, TotalExpenses, NetRevenue, CostOfGoodsSold,
	EmployeeBenefitExpense, OperatingProfit, ProfitBeforeTax, DeferredTax, Dividend,
}

// byName and byLower are built once from canonicalFields.
var (
	byName  = make(map[string]CanonicalField, len(canonicalFields))
	byLower = make(map[string]CanonicalField, len(canonicalFields))
)

func init() {
	for _, f := range canonicalFields {
		byName[string(f)] = f
		byLower[strings.ToLower(string(f))] = f
	}
}

// CanonicalFields returns a copy of the vocabulary in declaration order.
func CanonicalFields() []CanonicalField {
	out := make([]CanonicalField, len(canonicalFields))
	copy(out, canonicalFields)
	return out
}

// CanonicalNames returns the display names in declaration order.
func CanonicalNames() []string {
	out := make([]string, len(canonicalFields))
	for i, f := range canonicalFields {
		out[i] = string(f)
	}
	return out
}

// IsCanonical reports whether name is an exact member of the vocabulary.
func IsCanonical(name string) bool {
	_, ok := byName[name]
	return ok
}

// LookupCanonical resolves name case-insensitively, ignoring surrounding
// whitespace. It is the reverse lookup used when loading external synonym
// overlays and semantic hook results.
func LookupCanonical(name string) (CanonicalField, bool) {
	if f, ok := byName[name]; ok {
		return f, true
	}
	f, ok := byLower[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}
