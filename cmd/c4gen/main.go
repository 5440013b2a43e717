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

// c4gen is the ancillary binary that builds the opening book file
// consumed by c4solver and the book package. It is not meant to run
// often: a full depth-12 generation enumerates billions of move
// sequences before solving and writing the survivors.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/frankkopp/connect4solver/internal/config"
	"github.com/frankkopp/connect4solver/internal/generator"
	"github.com/frankkopp/connect4solver/internal/logging"
)

func main() {
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	out := flag.String("out", "data/opening_book.bin", "output path for the generated opening book")
	workers := flag.Int("workers", 0, "goroutines for enumeration and solving (0 = config default)")
	cpuProfile := flag.Bool("cpuprofile", false, "write a pprof CPU profile for the run to ./cpu.pprof")
	flag.Parse()

	config.ConfFile = *configFile
	config.Setup()
	log := logging.Get("c4gen")

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	w := *workers
	if w <= 0 {
		w = config.Settings.Generator.Workers
	}

	start := time.Now()
	if err := generator.Generate(*out, w); err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %s\n", err)
		os.Exit(1)
	}
	log.Infof("opening book generation finished in %s", time.Since(start))
}
