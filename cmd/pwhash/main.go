// Package main は DEMO_PASSWORD_HASH 用の bcrypt ハッシュを扱う補助CLIです。
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var errMismatch = errors.New("password does not match hash")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pwhash",
		Short: "bcrypt helper for the demo account",
		Long: `pwhash generates and checks bcrypt hashes for DEMO_PASSWORD_HASH.

Example usage:
  pwhash hash 'Password123!'          # print a hash
  echo -n 'Password123!' | pwhash hash
  pwhash verify '$2a$10$...' 'Password123!'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newHashCmd(), newVerifyCmd())
	return root
}

func newHashCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash [password]",
		Short: "Print a bcrypt hash of the password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFrom(cmd.InOrStdin(), args, 0)
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <hash> [password]",
		Short: "Check a password against a bcrypt hash",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFrom(cmd.InOrStdin(), args, 1)
			if err != nil {
				return err
			}
			if err := bcrypt.CompareHashAndPassword([]byte(args[0]), []byte(password)); err != nil {
				if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
					return errMismatch
				}
				return fmt.Errorf("invalid hash: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// passwordFrom は引数 args[idx] があればそれを、なければ標準入力の1行目を返します。
func passwordFrom(in io.Reader, args []string, idx int) (string, error) {
	if len(args) > idx {
		return args[idx], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
