package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/orderdeck/orderdeck/internal/models"
)

// validateDate accepts an empty value or a YYYY-MM-DD date.
func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

// RunScopeForm collects the initial filter scope interactively. Returns the
// defaults unchanged when the user cancels.
func RunScopeForm(defaults models.OrderScope) (models.OrderScope, error) {
	scope := defaults
	if scope.Status == "" {
		scope.Status = "all"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Order status").
				Options(
					huh.NewOption("All", "all"),
					huh.NewOption("Open", "open"),
					huh.NewOption("Paid", "paid"),
					huh.NewOption("Cancelled", "cancelled"),
				).
				Value(&scope.Status),

			huh.NewInput().
				Title("Payment method").
				Description("Leave empty for any (e.g. cash, card, credits)").
				Value(&scope.PaymentMethod),

			huh.NewInput().
				Title("Customer ID").
				Description("Leave empty for all customers").
				Value(&scope.CustomerID),

			huh.NewInput().
				Title("From date").
				Placeholder("YYYY-MM-DD").
				Validate(validateDate).
				Value(&scope.DateFrom),

			huh.NewInput().
				Title("To date").
				Placeholder("YYYY-MM-DD").
				Validate(validateDate).
				Value(&scope.DateTo),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		// Cancelling the form just keeps the defaults
		return defaults, nil
	}

	scope.PaymentMethod = strings.TrimSpace(scope.PaymentMethod)
	scope.CustomerID = strings.TrimSpace(scope.CustomerID)
	scope.DateFrom = strings.TrimSpace(scope.DateFrom)
	scope.DateTo = strings.TrimSpace(scope.DateTo)
	return scope, nil
}
