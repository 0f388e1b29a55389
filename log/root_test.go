// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package log

import "testing"

func TestLoggerContextIsAppendedNotMutated(t *testing.T) {
	base := New("component", "decoder")
	child := base.New("pc", 12)

	// New must not share backing storage between base and child contexts.
	l, ok := base.(*logger)
	if !ok {
		t.Fatalf("expected *logger, got %T", base)
	}
	if len(l.ctx) != 2 {
		t.Fatalf("base context mutated: got %v", l.ctx)
	}

	c, ok := child.(*logger)
	if !ok {
		t.Fatalf("expected *logger, got %T", child)
	}
	if len(c.ctx) != 4 {
		t.Fatalf("expected child context to have 4 entries, got %v", c.ctx)
	}
}

func TestLvlFromString(t *testing.T) {
	cases := map[string]Lvl{
		"trace": LvlTrace,
		"debug": LvlDebug,
		"info":  LvlInfo,
		"warn":  LvlWarn,
		"error": LvlError,
		"crit":  LvlCrit,
		"":      LvlInfo,
		"bogus": LvlInfo,
	}
	for in, want := range cases {
		if got := lvlFromString(in); got != want {
			t.Errorf("lvlFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggingDoesNotPanic(t *testing.T) {
	l := New("test", true)
	l.Info("hello", "a", 1, "b", "two")
	l.Debug("debug message")
	l.Warn("warn message")
	l.Error("error message")
}
