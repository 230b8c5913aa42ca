package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/bankbook/pkg/bank"
	"github.com/MarkoPoloResearchLab/bankbook/pkg/textutil"
)

const (
	flagHolder         = "holder"
	flagInitialBalance = "initial-balance"
	flagCreditLimit    = "credit-limit"

	ruleWidth = 72
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bankdemo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		holder         string
		initialBalance float64
		creditLimit    float64
	)
	cmd := &cobra.Command{
		Use:           "bankdemo [deposit:AMOUNT|withdraw:AMOUNT ...]",
		Short:         "Drive an in-memory account through a scripted session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := openAccount(holder, initialBalance, creditLimit)
			if err != nil {
				return err
			}
			for _, step := range args {
				if err := runStep(account, step); err != nil {
					return err
				}
			}
			printSession(cmd, account)
			return nil
		},
	}

	cmd.Flags().StringVar(&holder, flagHolder, "Alice", "account holder name")
	cmd.Flags().Float64Var(&initialBalance, flagInitialBalance, 0, "opening balance")
	cmd.Flags().Float64Var(&creditLimit, flagCreditLimit, 0, "credit limit; a positive value opens a credit account")

	return cmd
}

func openAccount(holder string, initialBalance float64, creditLimit float64) (bank.Transactable, error) {
	if creditLimit > 0 {
		return bank.NewCreditAccount(holder, initialBalance, creditLimit)
	}
	return bank.NewAccount(holder, initialBalance)
}

func runStep(account bank.Transactable, step string) error {
	operation, rawAmount, found := strings.Cut(step, ":")
	if !found {
		return fmt.Errorf("malformed step %q, want operation:amount", step)
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return fmt.Errorf("malformed amount in step %q: %w", step, err)
	}
	switch operation {
	case "deposit":
		account.Deposit(amount)
	case "withdraw":
		account.Withdraw(amount)
	default:
		return fmt.Errorf("unknown operation %q in step %q", operation, step)
	}
	return nil
}

func printSession(cmd *cobra.Command, account bank.Transactable) {
	rule := textutil.TrimAndRepeat("-", 0, ruleWidth)
	cmd.Println(rule)
	cmd.Printf("holder: %s  balance: %.2f  available: %.2f\n", account.Holder(), account.Balance(), account.AvailableCredit())
	cmd.Println(rule)
	for index, record := range account.History() {
		line := fmt.Sprintf("%3d  %s  %-8s  %10.2f  %-7s  balance=%.2f",
			index+1,
			record.Timestamp.Format("15:04:05"),
			record.Type,
			record.Amount,
			record.Status,
			record.BalanceAfter,
		)
		if record.Reason != "" {
			line += fmt.Sprintf("  reason=%q", record.Reason)
		}
		if record.Credit != nil {
			line += fmt.Sprintf("  used_credit=%t available=%.2f", record.Credit.UsedCredit, record.Credit.AvailableCreditAfter)
		}
		cmd.Println(line)
	}
	cmd.Println(rule)
}
