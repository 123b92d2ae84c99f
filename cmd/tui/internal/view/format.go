package view

import (
	"context"
	"fmt"
	"time"
)

const dbTimeout = 5 * time.Second

// FormatMoney formats a currency amount with two decimal places.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatUnits formats a meter reading.
func FormatUnits(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
