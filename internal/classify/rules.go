package classify

// Category labels assigned by the keyword classifier. Explicit
// category columns in a statement override these verbatim.
const (
	CategoryIncome         = "Income"
	CategoryHousing        = "Housing"
	CategoryGroceries      = "Groceries"
	CategoryDining         = "Dining"
	CategoryTransportation = "Transportation"
	CategoryUtilities      = "Utilities"
	CategoryEntertainment  = "Entertainment"
	CategoryShopping       = "Shopping"
	CategoryHealth         = "Health"
	CategoryInsurance      = "Insurance"
	CategoryTransfer       = "Transfer"
	CategoryOther          = "Other"
)

// Rule maps a category to the description substrings that select it.
type Rule struct {
	Category string
	Keywords []string
}

// incomeKeywords force income type regardless of amount sign.
var incomeKeywords = []string{"deposit", "income", "salary", "refund"}

// DefaultIncomeKeywords returns a copy of the built-in income-forcing
// keyword list.
func DefaultIncomeKeywords() []string {
	out := make([]string, len(incomeKeywords))
	copy(out, incomeKeywords)
	return out
}

// DefaultRules is the built-in keyword table, evaluated in order. The
// first matching rule wins, so ordering is part of the data: Dining
// precedes Transportation so "uber eats" beats "uber", and
// Transportation precedes Utilities because fuel purchases ("gas") far
// outnumber utility gas bills.
func DefaultRules() []Rule {
	return []Rule{
		{CategoryIncome, []string{
			"payroll", "direct deposit", "salary", "paycheck", "dividend", "interest payment",
		}},
		{CategoryHousing, []string{
			"rent", "mortgage", "hoa ", "landlord", "property mgmt", "apartment",
		}},
		{CategoryGroceries, []string{
			"grocery", "supermarket", "whole foods", "trader joe", "safeway",
			"kroger", "aldi", "costco", "food market",
		}},
		{CategoryDining, []string{
			"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "chipotle",
			"doordash", "uber eats", "grubhub", "pizza", "diner", "bakery",
		}},
		{CategoryTransportation, []string{
			"uber", "lyft", "gas", "fuel", "shell", "chevron", "exxon",
			"parking", "transit", "metro", "toll", "amtrak",
		}},
		{CategoryUtilities, []string{
			"electric", "water bill", "sewer", "internet", "comcast", "xfinity",
			"verizon", "t-mobile", "at&t", "utility", "power co",
		}},
		{CategoryEntertainment, []string{
			"netflix", "spotify", "hulu", "disney", "cinema", "movie", "theater",
			"steam", "playstation", "xbox", "concert",
		}},
		{CategoryShopping, []string{
			"amazon", "target", "walmart", "ebay", "etsy", "best buy", "ikea",
			"clothing", "apparel",
		}},
		{CategoryHealth, []string{
			"pharmacy", "cvs", "walgreens", "doctor", "dental", "clinic",
			"hospital", "gym", "fitness",
		}},
		{CategoryInsurance, []string{
			"insurance", "geico", "allstate", "state farm", "premium",
		}},
		{CategoryTransfer, []string{
			"transfer", "zelle", "venmo", "paypal", "cash app", "wire",
		}},
	}
}

// Categories returns the closed label set in rule priority order,
// including the Other fallback.
func Categories() []string {
	rules := DefaultRules()
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Category)
	}
	return append(out, CategoryOther)
}
