// +build !debug

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

// Package assert marks internal invariant checks at no cost in release
// builds. This file, built without the "debug" tag, is the package's
// only variant: DEBUG is false and Assert does nothing. There is no
// debug-tagged counterpart, so building with "-tags debug" leaves the
// package without these declarations.
package assert

// DEBUG reports whether Assert evaluates its test. It is a const so the
// compiler can eliminate guarded calls entirely when false.
const DEBUG = false

// Assert is a no-op in this variant; test and msg are ignored. Callers
// that construct msg from an expensive expression should still guard the
// call with "if assert.DEBUG { ... }" since arguments are evaluated
// regardless of DEBUG.
func Assert(test bool, msg string, a ...interface{}) {}
