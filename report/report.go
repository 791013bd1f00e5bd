package report

import (
	"context"
	"sort"
	"sync"

	"github.com/emstack/emsgate/api"
)

const (
	recentOrderCount = 5
	topCustomerCount = 7
	trendWindowDays  = 7
	trendDateLayout  = "2006-01-02"
)

// Summary is the headline row of the dashboard.
type Summary struct {
	Customers     int
	Products      int
	Orders        int
	Invoices      int
	TotalRevenue  float64
	AvgOrderValue float64
}

// CustomerActivity is one bar of the orders-by-customer chart.
type CustomerActivity struct {
	Name    string
	Orders  int
	Revenue float64
}

// RevenuePoint is one point of the revenue trend, keyed by calendar day.
type RevenuePoint struct {
	Date    string
	Revenue float64
}

// Dashboard bundles every reduction over one snapshot of the collections.
type Dashboard struct {
	Summary          Summary
	RecentOrders     []api.Order
	OrdersByCustomer []CustomerActivity
	RevenueTrend     []RevenuePoint
}

// Summarize computes the headline figures.
func Summarize(customers []api.Customer, products []api.Product, orders []api.Order, invoices []api.Invoice) Summary {
	var revenue float64
	for _, o := range orders {
		revenue += o.Total
	}
	avg := 0.0
	if len(orders) > 0 {
		avg = revenue / float64(len(orders))
	}
	return Summary{
		Customers:     len(customers),
		Products:      len(products),
		Orders:        len(orders),
		Invoices:      len(invoices),
		TotalRevenue:  revenue,
		AvgOrderValue: avg,
	}
}

// RecentOrders returns the five most recent orders, newest first. The input
// is not mutated.
func RecentOrders(orders []api.Order) []api.Order {
	sorted := make([]api.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > recentOrderCount {
		sorted = sorted[:recentOrderCount]
	}
	return sorted
}

// OrdersByCustomer ranks customers by order count, keeping the top seven
// with at least one order. Revenue breaks ties implicitly through the
// stable sort, matching insertion order otherwise.
func OrdersByCustomer(customers []api.Customer, orders []api.Order) []CustomerActivity {
	stats := make([]CustomerActivity, 0, len(customers))
	for _, c := range customers {
		activity := CustomerActivity{Name: c.Name}
		if activity.Name == "" {
			activity.Name = "N/A"
		}
		for _, o := range orders {
			if o.Customer != nil && o.Customer.ID == c.ID {
				activity.Orders++
				activity.Revenue += o.Total
			}
		}
		if activity.Orders > 0 {
			stats = append(stats, activity)
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Orders > stats[j].Orders
	})
	if len(stats) > topCustomerCount {
		stats = stats[:topCustomerCount]
	}
	return stats
}

// RevenueTrend groups order totals by calendar day and returns the last
// seven active days in ascending date order.
func RevenueTrend(orders []api.Order) []RevenuePoint {
	byDate := make(map[string]float64)
	for _, o := range orders {
		byDate[o.Date.Format(trendDateLayout)] += o.Total
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > trendWindowDays {
		dates = dates[len(dates)-trendWindowDays:]
	}

	points := make([]RevenuePoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, RevenuePoint{Date: date, Revenue: byDate[date]})
	}
	return points
}

// Build fetches the four collections concurrently and runs every reduction.
// The first fetch error wins; partial results are discarded.
func Build(ctx context.Context, client *api.Client) (*Dashboard, error) {
	var (
		customers []api.Customer
		products  []api.Product
		orders    []api.Order
		invoices  []api.Invoice
	)

	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		customers, errs[0] = client.Customers().List(ctx)
	}()
	go func() {
		defer wg.Done()
		products, errs[1] = client.Products().List(ctx)
	}()
	go func() {
		defer wg.Done()
		orders, errs[2] = client.Orders().List(ctx)
	}()
	go func() {
		defer wg.Done()
		invoices, errs[3] = client.Invoices().List(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Dashboard{
		Summary:          Summarize(customers, products, orders, invoices),
		RecentOrders:     RecentOrders(orders),
		OrdersByCustomer: OrdersByCustomer(customers, orders),
		RevenueTrend:     RevenueTrend(orders),
	}, nil
}
