// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Command blockdat-parse reads a framed stream of blocks from stdin and
// feeds them to one of the sinks in the sinks package, selected by index.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/framer"
	"github.com/rawblock/blockdat/sinks"
	"github.com/rawblock/blockdat/whitelist"
	"github.com/rawblock/blockdat/workerpool"
)

var logger = logrus.New()

// transformNames documents the -t index table. Indices 0-4 mirror the
// reference dumper's original ordering (headers, scripts, statistics,
// output-values, unspents); indices 5 onward are this module's additions.
var transformNames = []string{
	0:  "headers",
	1:  "scripts",
	2:  "statistics",
	3:  "outputvalues",
	4:  "unspents",
	5:  "script_index",
	6:  "spent_index",
	7:  "tx_index",
	8:  "txo_index",
	9:  "asm",
	10: "indexd",
}

var rootCmd = &cobra.Command{
	Use:   "blockdat-parse",
	Short: "Parse a framed block stream and run it through a transform sink",
	RunE:  runParse,
}

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	flags := rootCmd.Flags()
	flags.IntP("transform", "t", 0, "transform index; see --list-transforms for the full table")
	flags.IntP("threads", "j", 1, "worker thread count")
	flags.Int64P("memory", "m", 200*1024*1024, "total buffer budget in bytes, split between the I/O and parse buffers")
	flags.StringP("whitelist", "w", "", "optional whitelist file of hash(32)||height(4 LE) records, sorted by hash")
	flags.StringP("prev-output-map", "i", "", "optional prev-output map file for the script_index transform's input records")
	flags.StringP("leveldb-dir", "l", "", "LevelDB directory for the indexd transform")
	flags.Bool("list-transforms", false, "print the transform index table and exit")

	viper.BindPFlag("transform", flags.Lookup("transform"))
	viper.BindPFlag("threads", flags.Lookup("threads"))
	viper.BindPFlag("memory", flags.Lookup("memory"))
	viper.BindPFlag("whitelist", flags.Lookup("whitelist"))
	viper.BindPFlag("prev-output-map", flags.Lookup("prev-output-map"))
	viper.BindPFlag("leveldb-dir", flags.Lookup("leveldb-dir"))
	viper.BindPFlag("list-transforms", flags.Lookup("list-transforms"))
}

func runParse(cmd *cobra.Command, args []string) error {
	if viper.GetBool("list-transforms") {
		for i, name := range transformNames {
			fmt.Printf("%2d  %s\n", i, name)
		}
		return nil
	}

	transform := viper.GetInt("transform")
	if transform < 0 || transform >= len(transformNames) {
		return fmt.Errorf("blockdat-parse: transform index %d out of range [0,%d)", transform, len(transformNames))
	}

	var whitelistMap *whitelist.HeightMap
	if path := viper.GetString("whitelist"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("blockdat-parse: opening whitelist: %w", err)
		}
		defer f.Close()
		whitelistMap, err = whitelist.LoadHeightMap(f)
		if err != nil {
			return fmt.Errorf("blockdat-parse: loading whitelist: %w", err)
		}
	}

	var prevOuts *whitelist.PrevOutputMap
	if path := viper.GetString("prev-output-map"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("blockdat-parse: opening prev-output map: %w", err)
		}
		defer f.Close()
		prevOuts, err = whitelist.LoadPrevOutputMap(f)
		if err != nil {
			return fmt.Errorf("blockdat-parse: loading prev-output map: %w", err)
		}
	}

	sink, closer, err := buildSink(transform, prevOuts)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	threads := viper.GetInt("threads")
	pool := workerpool.New(threads)
	logger.WithField("threads", threads).Info("blockdat-parse: worker pool started")

	bufferSize := int(viper.GetInt64("memory"))

	stats, err := framer.Run(os.Stdin, framer.Options{
		BufferSize: bufferSize,
		Pool:       pool,
		Whitelist:  whitelistMap,
		Consume: func(height uint32, blk *block.Block) {
			if err := sink.Consume(height, blk); err != nil {
				logger.WithFields(logrus.Fields{
					"error":  err,
					"height": height,
				}).Fatal("blockdat-parse: sink consume failed")
			}
		},
	})

	pool.Join()

	if err != nil {
		return fmt.Errorf("blockdat-parse: framer: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"bytes_read":        stats.BytesRead,
		"blocks_dispatched": stats.BlocksDispatched,
		"invalid_bytes":     stats.InvalidBytes,
		"whitelist_skipped": stats.WhitelistSkipped,
	}).Info("blockdat-parse: finished")

	return nil
}

func buildSink(transform int, prevOuts *whitelist.PrevOutputMap) (sinks.Sink, sinks.Closer, error) {
	switch transform {
	case 0:
		s := sinks.NewHeaders(os.Stdout)
		return s, s, nil
	case 1:
		s := sinks.NewScripts(os.Stdout)
		return s, s, nil
	case 2:
		s := sinks.NewStatistics()
		return s, s, nil
	case 3:
		s := sinks.NewOutputValuesOverHeight(os.Stdout)
		return s, s, nil
	case 4:
		s := sinks.NewUnspents()
		return s, nil, nil
	case 5:
		s := sinks.NewScriptIndex(os.Stdout, prevOuts)
		return s, s, nil
	case 6:
		s := sinks.NewSpentIndex(os.Stdout)
		return s, s, nil
	case 7:
		s := sinks.NewTxIndex(os.Stdout)
		return s, s, nil
	case 8:
		s := sinks.NewTxoIndex(os.Stdout)
		return s, s, nil
	case 9:
		s := sinks.NewASM(os.Stdout)
		return s, s, nil
	case 10:
		dir := viper.GetString("leveldb-dir")
		if dir == "" {
			return nil, nil, fmt.Errorf("blockdat-parse: transform 10 (indexd) requires -l<path>")
		}
		s, err := sinks.OpenIndexdLevelDB(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("blockdat-parse: unknown transform %d", transform)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
