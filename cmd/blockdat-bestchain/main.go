// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Command blockdat-bestchain reads a concatenated stream of 80-byte
// headers from stdin, selects the heaviest chain by cumulative bits-as-
// work, and writes hash(32)||height(4 LE) records for it to stdout,
// sorted by hash.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rawblock/blockdat/bestchain"
	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/whitelist"
)

var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "blockdat-bestchain",
	Short: "Select the heaviest header chain from a stream of headers",
	RunE:  run,
}

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	flags := rootCmd.Flags()
	flags.StringP("whitelist", "w", "", "optional whitelist file of bare 32-byte hashes restricting which headers may be selected as the tip")
	viper.BindPFlag("whitelist", flags.Lookup("whitelist"))
}

func run(cmd *cobra.Command, args []string) error {
	chain, err := bestchain.LoadHeaders(os.Stdin)
	if err != nil {
		return fmt.Errorf("blockdat-bestchain: %w", err)
	}

	tips := chain.FindTips()
	logger.WithField("tips", len(tips)).Info("blockdat-bestchain: found chain tips")

	var allowed *whitelist.HashSet
	if path := viper.GetString("whitelist"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("blockdat-bestchain: opening whitelist: %w", err)
		}
		defer f.Close()
		allowed, err = whitelist.LoadHashSet(f)
		if err != nil {
			return fmt.Errorf("blockdat-bestchain: loading whitelist: %w", err)
		}
	}

	best := chain.SelectBestChainFiltered(allowed)
	if best == nil {
		logger.Warn("blockdat-bestchain: no headers read, nothing to select")
		return nil
	}

	sequence := chain.Walk(best)

	genesis := sequence[0]
	tip := sequence[len(sequence)-1]
	logger.WithFields(logrus.Fields{
		"height":  len(sequence) - 1,
		"genesis": hash32.Encode(genesis.Hash),
		"tip":     hash32.Encode(tip.Hash),
	}).Info("blockdat-bestchain: selected best chain")

	out := bestchain.EncodeHeights(sequence)
	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("blockdat-bestchain: writing output: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
