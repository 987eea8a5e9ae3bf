package models

type DashboardStats struct {
	TotalExpenses   Cents           `json:"totalExpenses"`
	MonthlyExpenses Cents           `json:"monthlyExpenses"`
	TotalCategories int             `json:"totalCategories"`
	RecentExpenses  []RecentExpense `json:"recentExpenses"`
}

type RecentExpense struct {
	ID          int    `json:"id"`
	Amount      Cents  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        Date   `json:"date"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Amount   Cents  `json:"amount"`
	Count    int    `json:"count"`
}

type MonthlyStat struct {
	Month  string `json:"month"` // YYYY-MM
	Amount Cents  `json:"amount"`
}
