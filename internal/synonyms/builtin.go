package synonyms

import "github.com/ginjaninja78/financial-mapper/internal/schema"

// builtin is the curated variant table shipped with the mapper. Variants are
// normalized again when the dictionary is built, so they may be written in
// any case.
var builtin = []struct {
	variant   string
	canonical schema.CanonicalField
}{
	// Current Assets
	{"current assets", schema.CurrentAssets},
	{"total current assets", schema.CurrentAssets},
	{"current assets total", schema.CurrentAssets},
	{"ca", schema.CurrentAssets},
	{"net current assets", schema.CurrentAssets},

	// Current Liabilities
	{"current liabilities", schema.CurrentLiabilities},
	{"total current liabilities", schema.CurrentLiabilities},
	{"current liabilities total", schema.CurrentLiabilities},
	{"cl", schema.CurrentLiabilities},
	{"current liabilities & provisions", schema.CurrentLiabilities},
	{"current liabilities and provisions", schema.CurrentLiabilities},

	// Long-term Borrowings
	{"long-term borrowings", schema.LongTermBorrowings},
	{"long term borrowings", schema.LongTermBorrowings},
	{"lt borrowings", schema.LongTermBorrowings},
	{"long term loans", schema.LongTermBorrowings},
	{"long-term loans", schema.LongTermBorrowings},
	{"term loans", schema.LongTermBorrowings},
	{"secured loans", schema.LongTermBorrowings},
	{"unsecured loans", schema.LongTermBorrowings},
	{"borrowings non-current", schema.LongTermBorrowings},
	{"non-current borrowings", schema.LongTermBorrowings},

	// Long-term Provisions
	{"long-term provisions", schema.LongTermProvisions},
	{"long term provisions", schema.LongTermProvisions},
	{"lt provisions", schema.LongTermProvisions},
	{"non-current provisions", schema.LongTermProvisions},
	{"provisions non-current", schema.LongTermProvisions},

	// Share Capital
	{"share capital", schema.ShareCapital},
	{"equity share capital", schema.ShareCapital},
	{"paid-up capital", schema.ShareCapital},
	{"paid up capital", schema.ShareCapital},
	{"issued capital", schema.ShareCapital},
	{"authorized capital", schema.ShareCapital},
	{"authorised capital", schema.ShareCapital},
	{"share capital & premium", schema.ShareCapital},

	// Reserves & Surplus
	{"reserves & surplus", schema.ReservesAndSurplus},
	{"reserves and surplus", schema.ReservesAndSurplus},
	{"reserves", schema.ReservesAndSurplus},
	{"surplus", schema.ReservesAndSurplus},
	{"retained earnings", schema.ReservesAndSurplus},
	{"other reserves", schema.ReservesAndSurplus},
	{"general reserve", schema.ReservesAndSurplus},
	{"profit & loss account", schema.ReservesAndSurplus},
	{"profit and loss account", schema.ReservesAndSurplus},
	{"accumulated profits", schema.ReservesAndSurplus},

	// Gross Profit
	{"gross profit", schema.GrossProfit},
	{"gp", schema.GrossProfit},
	{"gross margin", schema.GrossProfit},
	{"gross income", schema.GrossProfit},

	// Indirect Expenses
	{"indirect expenses", schema.IndirectExpenses},
	{"indirect costs", schema.IndirectExpenses},
	{"overhead expenses", schema.IndirectExpenses},
	{"overheads", schema.IndirectExpenses},
	{"administrative expenses", schema.IndirectExpenses},
	{"admin expenses", schema.IndirectExpenses},

	// Cash Sales
	{"cash sales", schema.CashSales},
	{"cash revenue", schema.CashSales},

	// Credit Sales
	{"credit sales", schema.CreditSales},
	{"credit revenue", schema.CreditSales},
	{"sales on credit", schema.CreditSales},

	// Other Operating Income
	{"other operating income", schema.OtherOperatingIncome},
	{"other income", schema.OtherOperatingIncome},
	{"non-operating income", schema.OtherOperatingIncome},
	{"miscellaneous income", schema.OtherOperatingIncome},

	// Operating Expenses
	{"operating expenses", schema.OperatingExpenses},
	{"opex", schema.OperatingExpenses},
	{"operational expenses", schema.OperatingExpenses},

	// Cash Accruals
	{"cash accruals", schema.CashAccruals},
	{"cash accrual", schema.CashAccruals},
	{"net cash accruals", schema.CashAccruals},

	// Loan Installment
	{"loan installment", schema.LoanInstallment},
	{"loan instalment", schema.LoanInstallment},
	{"emi", schema.LoanInstallment},
	{"loan repayment", schema.LoanInstallment},
	{"debt repayment", schema.LoanInstallment},

	// Interest
	{"interest", schema.Interest},
	{"interest expense", schema.Interest},
	{"interest cost", schema.Interest},
	{"finance cost", schema.Interest},
	{"finance costs", schema.Interest},
	{"interest paid", schema.Interest},
	{"interest on borrowings", schema.Interest},

	// Inventory items
	{"opening inventory", schema.OpeningInventory},
	{"opening stock", schema.OpeningInventory},
	{"beginning inventory", schema.OpeningInventory},
	{"inventory at beginning", schema.OpeningInventory},
	{"closing inventory", schema.ClosingInventory},
	{"closing stock", schema.ClosingInventory},
	{"ending inventory", schema.ClosingInventory},
	{"inventory at end", schema.ClosingInventory},

	// Net Purchases
	{"net purchases", schema.NetPurchases},
	{"purchases", schema.NetPurchases},
	{"total purchases", schema.NetPurchases},

	// Direct Expenses
	{"direct expenses", schema.DirectExpenses},
	{"direct costs", schema.DirectExpenses},
	{"manufacturing expenses", schema.DirectExpenses},
	{"production expenses", schema.DirectExpenses},
	{"factory expenses", schema.DirectExpenses},

	// Debtors
	{"opening debtors", schema.OpeningDebtors},
	{"opening trade receivables", schema.OpeningDebtors},
	{"debtors at beginning", schema.OpeningDebtors},
	{"closing debtors", schema.ClosingDebtors},
	{"closing trade receivables", schema.ClosingDebtors},
	{"debtors at end", schema.ClosingDebtors},

	// Net Sales
	{"net sales", schema.NetSales},
	{"total sales", schema.NetSales},
	{"sales", schema.NetSales},
	{"turnover", schema.NetSales},
	{"net turnover", schema.NetSales},
	{"total turnover", schema.NetSales},
	{"revenue from operations", schema.NetSales},

	// Long-term Liabilities
	{"long-term liabilities", schema.LongTermLiabilities},
	{"long term liabilities", schema.LongTermLiabilities},
	{"non-current liabilities", schema.LongTermLiabilities},
	{"total non-current liabilities", schema.LongTermLiabilities},

	// Intangible Assets
	{"intangible assets", schema.IntangibleAssets},
	{"goodwill", schema.IntangibleAssets},
	{"patents", schema.IntangibleAssets},
	{"trademarks", schema.IntangibleAssets},
	{"intangibles", schema.IntangibleAssets},

	// Cost items
	{"fixed cost", schema.FixedCost},
	{"fixed costs", schema.FixedCost},
	{"fixed expenses", schema.FixedCost},
	{"selling price", schema.SellingPrice},
	{"sale price", schema.SellingPrice},
	{"sp", schema.SellingPrice},
	{"variable cost", schema.VariableCost},
	{"variable costs", schema.VariableCost},
	{"variable expenses", schema.VariableCost},

	// Profitability, balance sheet totals and working capital
	{"net profit", schema.NetProfit},
	{"profit after tax", schema.NetProfit},
	{"pat", schema.NetProfit},
	{"net income", schema.NetProfit},
	{"bottom line", schema.NetProfit},
	{"profit for the year", schema.NetProfit},
	{"profit for the period", schema.NetProfit},
	{"net worth", schema.NetWorth},
	{"networth", schema.NetWorth},
	{"owner funds", schema.NetWorth},
	{"owners funds", schema.NetWorth},
	{"shareholders funds", schema.NetWorth},
	{"shareholders equity", schema.NetWorth},
	{"stockholders equity", schema.NetWorth},
	{"total equity", schema.NetWorth},
	{"total assets", schema.TotalAssets},
	{"total asset", schema.TotalAssets},
	{"total liabilities", schema.TotalLiabilities},
	{"total liability", schema.TotalLiabilities},
	{"ebitda", schema.EBITDA},
	{"operating profit before depreciation", schema.EBITDA},
	{"earnings before interest tax depreciation & amortization", schema.EBITDA},
	{"depreciation", schema.Depreciation},
	{"depreciation & amortization", schema.Depreciation},
	{"depreciation and amortisation", schema.Depreciation},
	{"dep", schema.Depreciation},
	{"tax", schema.Tax},
	{"income tax", schema.Tax},
	{"provision for tax", schema.Tax},
	{"tax expense", schema.Tax},
	{"taxation", schema.Tax},
	{"revenue", schema.Revenue},
	{"total revenue", schema.Revenue},
	{"gross revenue", schema.Revenue},
	{"income from operations", schema.Revenue},
	{"total debt", schema.TotalDebt},
	{"total borrowings", schema.TotalDebt},
	{"debt", schema.TotalDebt},
	{"equity", schema.Equity},
	{"owner equity", schema.Equity},
	{"equity capital", schema.Equity},
	{"working capital", schema.WorkingCapital},
	{"net working capital", schema.WorkingCapital},
	{"tangible assets", schema.TangibleAssets},
	{"net tangible assets", schema.TangibleAssets},
	{"property plant & equipment", schema.TangibleAssets},
	{"property plant and equipment", schema.TangibleAssets},
	{"ppe", schema.TangibleAssets},
	{"fixed assets", schema.FixedAssets},
	{"non-current assets", schema.FixedAssets},
	{"total fixed assets", schema.FixedAssets},
	{"net fixed assets", schema.FixedAssets},
	{"net block", schema.FixedAssets},
	{"gross block", schema.FixedAssets},
	{"inventory", schema.Inventory},
	{"inventories", schema.Inventory},
	{"stock", schema.Inventory},
	{"stocks", schema.Inventory},
	{"trade receivables", schema.TradeReceivables},
	{"sundry debtors", schema.TradeReceivables},
	{"accounts receivable", schema.TradeReceivables},
	{"debtors", schema.TradeReceivables},
	{"trade payables", schema.TradePayables},
	{"sundry creditors", schema.TradePayables},
	{"accounts payable", schema.TradePayables},
	{"creditors", schema.TradePayables},
	{"cash and cash equivalents", schema.CashAndCashEquivalents},
	{"cash & cash equivalents", schema.CashAndCashEquivalents},
	{"cash and bank balances", schema.CashAndCashEquivalents},
	{"cash & bank balances", schema.CashAndCashEquivalents},
	{"cash", schema.CashAndCashEquivalents},
	{"bank balance", schema.CashAndCashEquivalents},
	{"total income", schema.TotalIncome},
	{"total expenses", schema.TotalExpenses},
	{"total expenditure", schema.TotalExpenses},
	{"net revenue", schema.NetRevenue},
	{"cost of goods sold", schema.CostOfGoodsSold},
	{"cogs", schema.CostOfGoodsSold},
	{"cost of sales", schema.CostOfGoodsSold},
	{"cost of revenue", schema.CostOfGoodsSold},
	{"operating profit", schema.OperatingProfit},
	{"ebit", schema.OperatingProfit},
	{"earnings before interest and tax", schema.OperatingProfit},
	{"operating income", schema.OperatingProfit},
	{"profit before tax", schema.ProfitBeforeTax},
	{"pbt", schema.ProfitBeforeTax},
	{"earnings before tax", schema.ProfitBeforeTax},
	{"income before tax", schema.ProfitBeforeTax},

	// Short forms and loose wording
	{"assets", schema.TotalAssets},
	{"total assets (ta)", schema.TotalAssets},
	{"liabilities", schema.TotalLiabilities},
	{"total liabilities (tl)", schema.TotalLiabilities},
	{"borrowings", schema.TotalDebt},
	{"earnings", schema.NetProfit},
	{"eat", schema.NetProfit},
	{"sale", schema.NetSales},
	{"sales revenue", schema.NetSales},
	{"revenue from sales", schema.NetSales},
	{"earnings from operations", schema.OperatingProfit},
	{"short-term borrowings", schema.ShortTermBorrowings},
	{"short term borrowings", schema.ShortTermBorrowings},
	{"st borrowings", schema.ShortTermBorrowings},
	{"long form liabilities", schema.LongTermLiabilities},
	{"current borrowings", schema.ShortTermBorrowings},
	{"floating cash", schema.CashAndCashEquivalents},
	{"bank", schema.CashAndCashEquivalents},
	{"cash balance", schema.CashAndCashEquivalents},

	// Schedule III line items
	{"short-term provisions", schema.ShortTermProvisions},
	{"short term provisions", schema.ShortTermProvisions},
	{"current provisions", schema.ShortTermProvisions},
	{"capital work in progress", schema.CapitalWorkInProgress},
	{"capital work-in-progress", schema.CapitalWorkInProgress},
	{"cwip", schema.CapitalWorkInProgress},
	{"investments", schema.Investments},
	{"non-current investments", schema.Investments},
	{"current investments", schema.Investments},
	{"loans and advances", schema.LoansAndAdvances},
	{"loans & advances", schema.LoansAndAdvances},
	{"short-term loans and advances", schema.LoansAndAdvances},
	{"long-term loans and advances", schema.LoansAndAdvances},
	{"employee benefit expense", schema.EmployeeBenefitExpense},
	{"employee benefits expense", schema.EmployeeBenefitExpense},
	{"salaries and wages", schema.EmployeeBenefitExpense},
	{"staff costs", schema.EmployeeBenefitExpense},
	{"deferred tax", schema.DeferredTax},
	{"deferred tax liabilities net", schema.DeferredTax},
	{"deferred tax assets net", schema.DeferredTax},
	{"dividend", schema.Dividend},
	{"dividends paid", schema.Dividend},
	{"proposed dividend", schema.Dividend},
}
