package fundamentals

// Row label aliases, tried in order.
var (
	EPSLabels     = []string{"EPS (Basic)", "EPS (Diluted)", "EPS"}
	RevenueLabels = []string{"Sales/Revenue", "Total Revenue", "Revenue"}
	SharesLabels  = []string{"Basic Shares Outstanding", "Diluted Shares Outstanding"}
	FCFLabels     = []string{"Free Cash Flow"}
)
