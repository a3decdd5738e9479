package reporting

import (
	"sort"
	"time"

	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/repository"
	"pan-basket-backend/internal/services/ledger"

	"github.com/shopspring/decimal"
)

type Service struct {
	parties  *repository.PartyRepository
	entries  *repository.BasketEntryRepository
	payments *repository.PaymentRepository
	ledger   *ledger.Service
}

func NewService(
	parties *repository.PartyRepository,
	entries *repository.BasketEntryRepository,
	payments *repository.PaymentRepository,
	ledgerSvc *ledger.Service,
) *Service {
	return &Service{parties: parties, entries: entries, payments: payments, ledger: ledgerSvc}
}

type NameDue struct {
	Name string          `json:"name"`
	Due  decimal.Decimal `json:"due"`
}

type NameBalance struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type DailyFlow struct {
	Date    string `json:"date"`
	Inflow  int    `json:"inflow"`
	Outflow int    `json:"outflow"`
}

type MonthlyPayments struct {
	Month    string          `json:"month"`
	Incoming decimal.Decimal `json:"incoming"`
	Outgoing decimal.Decimal `json:"outgoing"`
}

type DashboardSummary struct {
	TotalBasketValue  decimal.Decimal   `json:"total_basket_value"`
	TotalPaid         decimal.Decimal   `json:"total_paid"`
	TotalDue          decimal.Decimal   `json:"total_due"`
	TotalTransactions int64             `json:"total_transactions"`
	TopWholesalerDues []NameDue         `json:"top_wholesaler_dues"`
	TopPanShopBalance []NameBalance     `json:"top_panshop_balances"`
	DailyBasket       []DailyFlow       `json:"daily_basket"`
	MonthlyPayments   []MonthlyPayments `json:"monthly_payments"`
}

const (
	topPartyCount   = 5
	dailyFlowDates  = 30
	monthlyTrendLen = 12
)

func (s *Service) Dashboard() (*DashboardSummary, error) {
	totalBasket, err := s.entries.SumTotalPriceAll()
	if err != nil {
		return nil, err
	}
	totalPaid, err := s.payments.SumAmountAll()
	if err != nil {
		return nil, err
	}
	entryCount, err := s.entries.Count()
	if err != nil {
		return nil, err
	}
	paymentCount, err := s.payments.Count()
	if err != nil {
		return nil, err
	}

	topDues, err := s.topWholesalerDues()
	if err != nil {
		return nil, err
	}
	topBalances, err := s.topPanShopBalances()
	if err != nil {
		return nil, err
	}
	daily, err := s.dailyBasketFlow()
	if err != nil {
		return nil, err
	}
	monthly, err := s.monthlyPaymentTrend()
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalBasketValue:  totalBasket,
		TotalPaid:         totalPaid,
		TotalDue:          totalBasket.Sub(totalPaid),
		TotalTransactions: entryCount + paymentCount,
		TopWholesalerDues: topDues,
		TopPanShopBalance: topBalances,
		DailyBasket:       daily,
		MonthlyPayments:   monthly,
	}, nil
}

func (s *Service) topWholesalerDues() ([]NameDue, error) {
	summaries, err := s.ledger.SummaryAll(models.PartyWholesaler)
	if err != nil {
		return nil, err
	}
	// Stable sort keeps store order for ties.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Balance.GreaterThan(summaries[j].Balance)
	})
	dues := make([]NameDue, 0, topPartyCount)
	for _, sum := range summaries {
		if len(dues) == topPartyCount {
			break
		}
		dues = append(dues, NameDue{Name: sum.PartyName, Due: sum.Balance})
	}
	return dues, nil
}

func (s *Service) topPanShopBalances() ([]NameBalance, error) {
	summaries, err := s.ledger.SummaryAll(models.PartyPanShop)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Balance.GreaterThan(summaries[j].Balance)
	})
	balances := make([]NameBalance, 0, topPartyCount)
	for _, sum := range summaries {
		if len(balances) == topPartyCount {
			break
		}
		balances = append(balances, NameBalance{Name: sum.PartyName, Balance: sum.Balance})
	}
	return balances, nil
}

// dailyBasketFlow merges the last 30 active dates of each side. The
// 30-date cap applies per side before the union, so when inflow and
// outflow activity don't overlap the merged series can reach further back
// than 30 days. The dashboard charts the union as-is.
func (s *Service) dailyBasketFlow() ([]DailyFlow, error) {
	inflow, err := s.entries.DailyBasketCounts(models.PartyWholesaler, dailyFlowDates)
	if err != nil {
		return nil, err
	}
	outflow, err := s.entries.DailyBasketCounts(models.PartyPanShop, dailyFlowDates)
	if err != nil {
		return nil, err
	}

	type flow struct{ in, out int }
	byDate := make(map[time.Time]flow)
	for _, row := range inflow {
		d := models.DateOnly(row.Date)
		f := byDate[d]
		f.in = row.Baskets
		byDate[d] = f
	}
	for _, row := range outflow {
		d := models.DateOnly(row.Date)
		f := byDate[d]
		f.out = row.Baskets
		byDate[d] = f
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make([]DailyFlow, 0, len(dates))
	for _, d := range dates {
		f := byDate[d]
		series = append(series, DailyFlow{
			Date:    d.Format(models.DateFormat),
			Inflow:  f.in,
			Outflow: f.out,
		})
	}
	return series, nil
}

// monthlyPaymentTrend keeps the last 12 active months per side. Payments
// from pan shops are incoming, payments to wholesalers outgoing.
func (s *Service) monthlyPaymentTrend() ([]MonthlyPayments, error) {
	incoming, err := s.monthlySums(models.PartyPanShop)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.monthlySums(models.PartyWholesaler)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]*MonthlyPayments)
	for month, total := range incoming {
		byMonth[month] = &MonthlyPayments{Month: month.Format("Jan"), Incoming: total}
	}
	for month, total := range outgoing {
		if row, ok := byMonth[month]; ok {
			row.Outgoing = total
		} else {
			byMonth[month] = &MonthlyPayments{Month: month.Format("Jan"), Outgoing: total}
		}
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	trend := make([]MonthlyPayments, 0, len(months))
	for _, m := range months {
		trend = append(trend, *byMonth[m])
	}
	return trend, nil
}

// monthlySums truncates the per-date sums to month starts. Rows arrive
// newest first, so months fill in order and the walk can stop once a 13th
// distinct month begins.
func (s *Service) monthlySums(partyType models.PartyType) (map[time.Time]decimal.Decimal, error) {
	rows, err := s.payments.DailyTotals(partyType)
	if err != nil {
		return nil, err
	}
	sums := make(map[time.Time]decimal.Decimal)
	for _, row := range rows {
		month := monthStart(row.Date)
		if _, seen := sums[month]; !seen && len(sums) == monthlyTrendLen {
			break
		}
		sums[month] = sums[month].Add(row.Total)
	}
	return sums, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
