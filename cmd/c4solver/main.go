/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// c4solver is a non-interactive command line front end for the perfect
// Connect Four solver: it reads a move sequence, solves it, and prints
// the score and best move. It intentionally has no interactive text UI -
// that is left to whatever wraps this binary.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/frankkopp/connect4solver/internal/bitboard"
	"github.com/frankkopp/connect4solver/internal/book"
	"github.com/frankkopp/connect4solver/internal/config"
	"github.com/frankkopp/connect4solver/internal/logging"
	"github.com/frankkopp/connect4solver/internal/solver"
	"github.com/frankkopp/connect4solver/internal/tt"
	"github.com/frankkopp/connect4solver/internal/util"
)

func main() {
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	moves := flag.String("moves", "", "move sequence as 1-indexed column digits, e.g. \"4453\"")
	bookPath := flag.String("book", "", "path to opening book file (overrides config; if empty, the configured BookPath is used when UseOpeningBook is set)")
	noBook := flag.Bool("nobook", false, "disable the opening book even if one is configured")
	workers := flag.Int("workers", 0, "goroutines for parallel root search (0 = sequential Solve)")
	logLvl := flag.String("loglvl", "info", "log level (critical|error|warning|notice|info|debug)")
	flag.Parse()

	config.ConfFile = *configFile
	config.Setup()
	if _, found := config.LogLevels[*logLvl]; found {
		config.LogLevel = *logLvl
	}
	log := logging.Get("c4solver")

	b, err := bitboard.FromMoveString(*moves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid move sequence %q: %s\n", *moves, err)
		os.Exit(1)
	}

	path := *bookPath
	if path == "" && config.Settings.Solver.UseOpeningBook {
		path = config.Settings.Solver.BookPath
	}
	var ob *book.Book
	if !*noBook && path != "" {
		ob, err = book.Load(path)
		if err != nil {
			log.Warningf("continuing without opening book: %s", err)
			ob = nil
		}
	}

	start := time.Now()
	var score solver.Score
	var column int
	var nodes uint64
	if *workers > 0 {
		table := tt.NewAtomicSized(config.Settings.Solver.TTSizeEntries)
		score, column = solver.SolveParallel(b, table, ob, *workers)
	} else {
		table := tt.NewSized(config.Settings.Solver.TTSizeEntries)
		s := solver.New(table, ob)
		score, column = s.Solve(b)
		nodes = s.Nodes()
	}
	elapsed := time.Since(start)

	fmt.Printf("moves: %q\n", *moves)
	fmt.Printf("score: %d\n", score)
	fmt.Printf("best move: column %d\n", column+1)
	fmt.Printf("plies remaining: %d\n", solver.PliesRemaining(score, b.NumMoves))
	fmt.Printf("time: %s\n", elapsed)
	if nodes > 0 {
		fmt.Printf("nodes: %d (%d nps)\n", nodes, util.Nps(nodes, elapsed))
	}
}
