//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package config holds globally available configuration variables which
// are either set by defaults, read from a TOML config file, or overridden
// by command line options.
package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
)

// globally available config values.
var (
	// ConfFile holds the path to the used config file (relative to the working directory).
	ConfFile = "./config.toml"

	// LogLevel defines the general log level - can be overwritten by cmd line options or config file.
	LogLevel = "info"

	// Settings is the global configuration read in from file.
	Settings conf

	initialized = false
)

// LogLevels maps the accepted command line / config file log level names
// to the op/go-logging Level constants' integer values.
var LogLevels = map[string]int{
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}

type conf struct {
	Solver    solverConfiguration
	Generator generatorConfiguration
}

// solverConfiguration holds the tunables of the negamax/alpha-beta solver.
type solverConfiguration struct {
	// TTSizeEntries is the transposition table's fixed number of slots.
	// Defaults to 2^23+9, a prime close to a power of two, as specified
	// for the direct-mapped table.
	TTSizeEntries uint64

	// UseOpeningBook enables consulting the opening book at DatabaseDepth plies.
	UseOpeningBook bool

	// BookPath is the path to the opening book binary file.
	BookPath string
}

// generatorConfiguration holds the tunables of the ancillary book generator.
type generatorConfiguration struct {
	// Workers bounds how many positions are solved concurrently while
	// generating the opening book. 0 means runtime.GOMAXPROCS(0).
	Workers int
}

func defaults() conf {
	return conf{
		Solver: solverConfiguration{
			TTSizeEntries:  1<<23 + 9,
			UseOpeningBook: true,
			BookPath:       "data/opening_book.bin",
		},
		Generator: generatorConfiguration{
			Workers: 0,
		},
	}
}

// Setup reads the configuration file and sets settings from it, falling
// back to defaults for anything missing. A missing or unreadable config
// file is not fatal - it is logged and the defaults are used, exactly
// like the rest of this package's settings resolution.
func Setup() {
	if initialized {
		return
	}

	Settings = defaults()
	if _, err := toml.DecodeFile(ConfFile, &Settings); err != nil {
		log.Println("Config file not found. Using defaults. (", err, ")")
	}
	initialized = true
}

// String prints out the current configuration settings and values using
// reflection, the way the rest of the corpus renders ad-hoc config dumps.
func (settings *conf) String() string {
	var c strings.Builder
	c.WriteString("Solver Config:\n")
	s := reflect.ValueOf(&settings.Solver).Elem()
	typeOfT := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		c.WriteString(fmt.Sprintf("%-2d: %-18s %-8s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	c.WriteString("\nGenerator Config:\n")
	s = reflect.ValueOf(&settings.Generator).Elem()
	typeOfT = s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		c.WriteString(fmt.Sprintf("%-2d: %-18s %-8s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	return c.String()
}
