package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/snapshotpool/explore"
)

var errModelArg = errors.New("invalid model argument")

// parseModel parses "name:a,b", e.g. "counters:4,10".
func parseModel(arg string) (explore.Model, error) {
	name, rawArgs, _ := strings.Cut(arg, ":")
	var args []int
	if rawArgs != "" {
		for _, s := range strings.Split(rawArgs, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", errModelArg, arg, err)
			}
			args = append(args, n)
		}
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("%w %q: want two arguments", errModelArg, arg)
	}

	switch name {
	case "counters":
		if args[1] < 0 {
			return nil, fmt.Errorf("%w %q: negative maximum", errModelArg, arg)
		}
		return explore.Counters{Counters: args[0], Max: uint32(args[1])}, nil
	case "onehot":
		return explore.OneHot{Registers: args[0], Width: args[1]}, nil
	case "words":
		return explore.Words{Alphabet: args[0], MaxLen: args[1]}, nil
	default:
		return nil, fmt.Errorf("%w %q: unknown model %q (counters, onehot, words)", errModelArg, arg, name)
	}
}
