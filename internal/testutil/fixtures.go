package testutil

import (
	"fmt"
	"time"

	"github.com/lapazlabs/centavo/internal/model"
)

// BaseDate anchors generated fixtures so tests are reproducible.
var BaseDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// LabeledTransactions returns a small labeled training set with several
// examples per category.
func LabeledTransactions() []model.Transaction {
	samples := []struct {
		description string
		category    string
		amount      float64
	}{
		{"UBER TRIP HELP.UBER.COM", "Transport", 12.50},
		{"UBER EATS DELIVERY", "Food", 28.00},
		{"TAXI AEROPUERTO", "Transport", 35.00},
		{"BUS TICKET TERMINAL", "Transport", 4.50},
		{"RESTAURANT LA TABLA", "Food", 42.00},
		{"CAFE CENTRO LUNCH", "Food", 15.75},
		{"NETFLIX.COM SUBSCRIPTION", "Subscriptions", 9.99},
		{"SPOTIFY PREMIUM", "Subscriptions", 5.99},
		{"KETAL SUPERMERCADO", "Groceries", 87.30},
		{"SUPERMERCADO HIPERMAXI", "Groceries", 64.10},
		{"MERCADO RODRIGUEZ", "Groceries", 22.00},
		{"ELECTRIC COMPANY BILL", "Bills", 55.00},
		{"WATER UTILITY PAYMENT", "Bills", 18.40},
	}

	txns := make([]model.Transaction, len(samples))
	for i, s := range samples {
		txns[i] = Transaction(BaseDate.AddDate(0, 0, i), s.amount, s.category, s.description)
	}
	return txns
}

// DailySpending generates one transaction per day for days days, with
// amounts produced by amountFor(dayIndex).
func DailySpending(days int, amountFor func(day int) float64) []model.Transaction {
	txns := make([]model.Transaction, days)
	for i := 0; i < days; i++ {
		txns[i] = Transaction(
			BaseDate.AddDate(0, 0, i),
			amountFor(i),
			"Groceries",
			fmt.Sprintf("daily purchase %d", i),
		)
	}
	return txns
}

// Transaction builds one valid transaction with a content hash.
func Transaction(date time.Time, amount float64, category, description string) model.Transaction {
	tx := model.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
	}
	tx.Hash = tx.GenerateHash()
	return tx
}
